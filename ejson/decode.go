package ejson

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Unmarshal decodes wire JSON and deserializes it into domain values.
func Unmarshal(data []byte) (any, error) {
	wire, err := DecodeWire(data)
	if err != nil {
		return nil, err
	}
	return Deserialize(wire)
}

// DecodeWire decodes wire JSON into its wire-form tree (documents, arrays,
// scalars) without interpreting extension tags. Tooling that relays or
// rewrites wire documents uses this to stay at the wire level.
func DecodeWire(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	wire, err := decodeWire(dec)
	if err != nil {
		return nil, fmt.Errorf("ejson: decode wire JSON: %w", err)
	}
	return wire, nil
}

// UnmarshalDocument decodes wire JSON that must be a document.
func UnmarshalDocument(data []byte) (Document, error) {
	v, err := Unmarshal(data)
	if err != nil {
		return Document{}, err
	}
	doc, ok := v.(Document)
	if !ok {
		return Document{}, fmt.Errorf("ejson: wire value is %T, want document", v)
	}
	return doc, nil
}

// decodeWire reads one JSON value off the decoder, preserving object key
// order and the integer/float distinction.
func decodeWire(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			doc := NewDocument()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key is %T", keyTok)
				}
				val, err := decodeWire(dec)
				if err != nil {
					return nil, err
				}
				doc.Set(key, val)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return nil, err
			}
			return doc, nil
		case '[':
			items := []any{}
			for dec.More() {
				val, err := decodeWire(dec)
				if err != nil {
					return nil, err
				}
				items = append(items, val)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return nil, err
			}
			return items, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", t)
		}

	case json.Number:
		if i, err := strconv.ParseInt(string(t), 10, 64); err == nil {
			return i, nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("parse number %q: %w", t, err)
		}
		return f, nil

	default:
		// string, bool, nil
		return t, nil
	}
}

// Deserialize converts a wire-form tree back into domain values.
//
// For a wire document the check order is fixed: @embText wins over everything,
// then @embImage, then the $-tags in their declared order; a document with no
// tag key is structural and recurses key by key. Extra keys next to a matched
// tag are ignored.
func Deserialize(wire any) (any, error) {
	switch v := wire.(type) {
	case Document:
		return deserializeDocument(v)

	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			d, err := Deserialize(item)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			out[i] = d
		}
		return out, nil

	case nil, bool, string, int64, float64:
		return v, nil

	case json.Number:
		if i, err := strconv.ParseInt(string(v), 10, 64); err == nil {
			return i, nil
		}
		f, err := v.Float64()
		if err != nil {
			return nil, fmt.Errorf("ejson: parse number %q: %w", v, err)
		}
		return f, nil

	default:
		return nil, &UnsupportedTypeError{Value: wire}
	}
}

// extensionTags is the fixed scan order for $-tagged documents.
var extensionTags = []string{
	tagObjectID,
	tagDateTime,
	tagDecimal,
	tagBinary,
	tagRegex,
	tagCode,
	tagTimestamp,
	tagMinKey,
	tagMaxKey,
}

func deserializeDocument(doc Document) (any, error) {
	if doc.Has(tagEmbText) {
		return embTextFromWire(doc)
	}
	if doc.Has(tagEmbImage) {
		return embImageFromWire(doc)
	}
	for _, tag := range extensionTags {
		if doc.Has(tag) {
			return decodeExtension(tag, doc)
		}
	}

	out := NewDocument()
	for k, item := range doc.All() {
		d, err := Deserialize(item)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		out.Set(k, d)
	}
	return out, nil
}

func decodeExtension(tag string, doc Document) (any, error) {
	switch tag {
	case tagObjectID:
		s, err := wireString(doc, tagObjectID)
		if err != nil {
			return nil, err
		}
		return ObjectIDFromHex(s)

	case tagDateTime:
		s, err := wireString(doc, tagDateTime)
		if err != nil {
			return nil, err
		}
		return parseDateTime(s)

	case tagDecimal:
		s, err := wireString(doc, tagDecimal)
		if err != nil {
			return nil, err
		}
		return Decimal128(s), nil

	case tagBinary:
		s, err := wireString(doc, tagBinary)
		if err != nil {
			return nil, err
		}
		b, err := hex.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("ejson: %s payload is not hex: %w", tagBinary, err)
		}
		return Binary(b), nil

	case tagRegex:
		pattern, err := wireString(doc, tagRegex)
		if err != nil {
			return nil, err
		}
		options, err := optString(doc, tagRegexOptions)
		if err != nil {
			return nil, err
		}
		return Regex{Pattern: pattern, Options: options}, nil

	case tagCode:
		s, err := wireString(doc, tagCode)
		if err != nil {
			return nil, err
		}
		return Code(s), nil

	case tagTimestamp:
		raw, ok := doc.Get(tagTimestamp)
		if !ok {
			return nil, fmt.Errorf("ejson: %q payload missing", tagTimestamp)
		}
		inner, ok := raw.(Document)
		if !ok {
			return nil, fmt.Errorf("ejson: %s payload is %T, want document", tagTimestamp, raw)
		}
		t, err := optInt(inner, "t")
		if err != nil {
			return nil, err
		}
		i, err := optInt(inner, "i")
		if err != nil {
			return nil, err
		}
		return Timestamp{T: uint32(t), I: uint32(i)}, nil

	case tagMinKey:
		return MinKey{}, nil
	case tagMaxKey:
		return MaxKey{}, nil

	default:
		return nil, fmt.Errorf("ejson: unknown extension tag %q", tag)
	}
}

// dateTimeLayouts covers RFC 3339 and the zone-less ISO-8601 form some
// servers emit. Zone-less times are interpreted as UTC.
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
}

func parseDateTime(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateTimeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, fmt.Errorf("ejson: %s payload %q: %w", tagDateTime, s, lastErr)
}
