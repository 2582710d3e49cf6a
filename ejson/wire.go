package ejson

import "fmt"

// Wire tags for the extension types. Tag strings are literal and
// case-sensitive.
const (
	tagEmbText      = "@embText"
	tagEmbImage     = "@embImage"
	tagObjectID     = "$oid"
	tagDateTime     = "$date"
	tagDecimal      = "$numberDecimal"
	tagBinary       = "$binary"
	tagRegex        = "$regex"
	tagRegexOptions = "$options"
	tagCode         = "$code"
	tagTimestamp    = "$timestamp"
	tagMinKey       = "$minKey"
	tagMaxKey       = "$maxKey"
)

// wireString reads a required string field from a wire payload.
func wireString(doc Document, key string) (string, error) {
	v, ok := doc.Get(key)
	if !ok {
		return "", fmt.Errorf("ejson: %q payload missing", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("ejson: %q payload is %T, want string", key, v)
	}
	return s, nil
}

// optString reads an optional string field, returning "" when absent.
func optString(doc Document, key string) (string, error) {
	v, ok := doc.Get(key)
	if !ok {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("ejson: %q is %T, want string", key, v)
	}
	return s, nil
}

// optInt reads an optional integer field, returning 0 when absent.
func optInt(doc Document, key string) (int, error) {
	v, ok := doc.Get(key)
	if !ok {
		return 0, nil
	}
	switch n := v.(type) {
	case int64:
		return int(n), nil
	case int:
		return n, nil
	case float64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("ejson: %q is %T, want integer", key, v)
	}
}

// optBool reads an optional boolean field, returning false when absent.
func optBool(doc Document, key string) (bool, error) {
	v, ok := doc.Get(key)
	if !ok {
		return false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("ejson: %q is %T, want bool", key, v)
	}
	return b, nil
}

// optStrings reads an optional string array field, returning nil when absent.
func optStrings(doc Document, key string) ([]string, error) {
	v, ok := doc.Get(key)
	if !ok {
		return nil, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("ejson: %q is %T, want array", key, v)
	}
	out := make([]string, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("ejson: %q[%d] is %T, want string", key, i, item)
		}
		out[i] = s
	}
	return out, nil
}

func stringsToWire(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
