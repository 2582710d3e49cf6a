package ejson

import (
	"bytes"
	"slices"
	"time"
)

// Equal deep-compares two deserialized values. Documents compare key by key
// in order, Binary compares decoded bytes, times compare as instants, and
// integer values compare across Go integer widths.
func Equal(a, b any) bool {
	switch av := a.(type) {
	case Document:
		bv, ok := b.(Document)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		bKeys := bv.Keys()
		i := 0
		for k, v := range av.All() {
			if bKeys[i] != k {
				return false
			}
			other, _ := bv.Get(k)
			if !Equal(v, other) {
				return false
			}
			i++
		}
		return true

	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true

	case Binary:
		bv, ok := b.(Binary)
		return ok && bytes.Equal(av, bv)

	case time.Time:
		bv, ok := b.(time.Time)
		return ok && av.Equal(bv)

	case *EmbText:
		bv, ok := b.(*EmbText)
		return ok &&
			av.Text == bv.Text &&
			av.EmbModel == bv.EmbModel &&
			av.MaxChunkSize == bv.MaxChunkSize &&
			av.ChunkOverlap == bv.ChunkOverlap &&
			av.IsSeparatorRegex == bv.IsSeparatorRegex &&
			slices.Equal(av.Separators, bv.Separators) &&
			av.KeepSeparator == bv.KeepSeparator &&
			slices.Equal(av.chunks, bv.chunks)

	case *EmbImage:
		bv, ok := b.(*EmbImage)
		return ok &&
			av.Data == bv.Data &&
			av.MimeType == bv.MimeType &&
			av.EmbModel == bv.EmbModel &&
			av.VisionModel == bv.VisionModel &&
			av.MaxChunkSize == bv.MaxChunkSize &&
			av.ChunkOverlap == bv.ChunkOverlap &&
			av.IsSeparatorRegex == bv.IsSeparatorRegex &&
			slices.Equal(av.Separators, bv.Separators) &&
			av.KeepSeparator == bv.KeepSeparator &&
			slices.Equal(av.chunks, bv.chunks) &&
			av.url == bv.url
	}

	if ai, ok := toInt64(a); ok {
		if bi, ok := toInt64(b); ok {
			return ai == bi
		}
		return false
	}

	switch av := a.(type) {
	case nil:
		return b == nil
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case float32:
		bv, ok := b.(float32)
		return ok && av == bv
	case ObjectID:
		bv, ok := b.(ObjectID)
		return ok && av == bv
	case Decimal128:
		bv, ok := b.(Decimal128)
		return ok && av == bv
	case Regex:
		bv, ok := b.(Regex)
		return ok && av == bv
	case Code:
		bv, ok := b.(Code)
		return ok && av == bv
	case Timestamp:
		bv, ok := b.(Timestamp)
		return ok && av == bv
	case MinKey:
		_, ok := b.(MinKey)
		return ok
	case MaxKey:
		_, ok := b.(MaxKey)
		return ok
	}
	return false
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	}
	return 0, false
}
