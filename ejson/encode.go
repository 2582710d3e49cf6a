package ejson

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Marshal serializes a value and encodes it as wire JSON.
func Marshal(value any) ([]byte, error) {
	wire, err := Serialize(value)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("ejson: encode wire form: %w", err)
	}
	return data, nil
}

// Serialize converts a value into its wire-form tree: scalars pass through,
// documents and sequences recurse, extension types become their tagged
// documents. A value outside the recognized set returns UnsupportedTypeError.
//
// Cyclic structures are not detected and will exhaust the stack.
func Serialize(value any) (any, error) {
	switch v := value.(type) {
	case nil, bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64,
		json.Number:
		return v, nil

	case Document:
		out := NewDocument()
		for k, item := range v.All() {
			s, err := Serialize(item)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			out.Set(k, s)
		}
		return out, nil

	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			s, err := Serialize(item)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			out[i] = s
		}
		return out, nil

	case ObjectID:
		return NewDocument().Set(tagObjectID, v.Hex()), nil
	case time.Time:
		return NewDocument().Set(tagDateTime, v.Format(time.RFC3339Nano)), nil
	case Decimal128:
		return NewDocument().Set(tagDecimal, string(v)), nil
	case Binary:
		return NewDocument().Set(tagBinary, hex.EncodeToString(v)), nil
	case Regex:
		return NewDocument().Set(tagRegex, v.Pattern).Set(tagRegexOptions, v.Options), nil
	case Code:
		return NewDocument().Set(tagCode, string(v)), nil
	case Timestamp:
		inner := NewDocument().Set("t", int64(v.T)).Set("i", int64(v.I))
		return NewDocument().Set(tagTimestamp, inner), nil
	case MinKey:
		return NewDocument().Set(tagMinKey, 1), nil
	case MaxKey:
		return NewDocument().Set(tagMaxKey, 1), nil

	case *EmbText:
		return v.exportWire(), nil
	case *EmbImage:
		return v.exportWire(), nil

	default:
		return nil, &UnsupportedTypeError{Value: value}
	}
}
