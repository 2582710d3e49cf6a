package ejson

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func roundTrip(t *testing.T, v any) any {
	t.Helper()
	data, err := Marshal(v)
	if err != nil {
		t.Fatalf("Marshal(%v): %v", v, err)
	}
	out, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal(%s): %v", data, err)
	}
	return out
}

func TestRoundTrip_ExtensionValues(t *testing.T) {
	oid, err := ObjectIDFromHex("65f1a0b2c3d4e5f601234567")
	if err != nil {
		t.Fatalf("ObjectIDFromHex: %v", err)
	}

	cases := []struct {
		name  string
		value any
	}{
		{"object_id", oid},
		{"datetime", time.Date(2026, 3, 14, 9, 26, 53, 589793000, time.UTC)},
		{"decimal", Decimal128("123.456")},
		{"binary", Binary{0xde, 0xad, 0xbe, 0xef}},
		{"regex", Regex{Pattern: "^cap[iy]", Options: "i"}},
		{"code", Code("function() { return 1; }")},
		{"timestamp", Timestamp{T: 1700000000, I: 7}},
		{"min_key", MinKey{}},
		{"max_key", MaxKey{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := roundTrip(t, tc.value)
			if !Equal(got, tc.value) {
				t.Errorf("round trip = %v, want %v", got, tc.value)
			}
		})
	}
}

func TestRoundTrip_EmbText(t *testing.T) {
	et := NewEmbText("hello world")
	et.MaxChunkSize = 200
	et.Separators = []string{"\n\n", "\n"}

	got := roundTrip(t, et)
	if !Equal(got, et) {
		t.Errorf("round trip = %v, want %v", got, et)
	}
}

func TestRoundTrip_EmbImage(t *testing.T) {
	im, err := NewEmbImage("aGVsbG8=", "image/png")
	if err != nil {
		t.Fatalf("NewEmbImage: %v", err)
	}
	im.VisionModel = VisionModelGPT4o

	got := roundTrip(t, im)
	if !Equal(got, im) {
		t.Errorf("round trip = %v, want %v", got, im)
	}
}

func TestRoundTrip_BinaryHexCase(t *testing.T) {
	// Uppercase hex from the server decodes to the same bytes.
	got, err := Unmarshal([]byte(`{"$binary": "DEADBEEF"}`))
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	bin, ok := got.(Binary)
	if !ok {
		t.Fatalf("got %T, want Binary", got)
	}
	if !Equal(bin, Binary{0xde, 0xad, 0xbe, 0xef}) {
		t.Errorf("bytes = %x, want deadbeef", []byte(bin))
	}
}

func TestStructuralIdempotence_KeyOrder(t *testing.T) {
	doc := NewDocument().
		Set("zebra", int64(1)).
		Set("alpha", "two").
		Set("nested", NewDocument().Set("y", true).Set("x", nil)).
		Set("list", []any{int64(1), 2.5, "three"})

	got := roundTrip(t, doc)
	if !Equal(got, doc) {
		t.Fatalf("round trip = %v, want %v", got, doc)
	}

	outDoc := got.(Document)
	wantKeys := []string{"zebra", "alpha", "nested", "list"}
	gotKeys := outDoc.Keys()
	if len(gotKeys) != len(wantKeys) {
		t.Fatalf("keys = %v, want %v", gotKeys, wantKeys)
	}
	for i, k := range wantKeys {
		if gotKeys[i] != k {
			t.Errorf("keys[%d] = %q, want %q", i, gotKeys[i], k)
		}
	}
}

func TestDeserialize_TagPriority(t *testing.T) {
	// A document carrying both an embedding tag and a $-tag is always the
	// embedding type.
	wire := []byte(`{"$oid": "65f1a0b2c3d4e5f601234567", "@embText": {"text": "hi"}}`)
	got, err := Unmarshal(wire)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	et, ok := got.(*EmbText)
	if !ok {
		t.Fatalf("got %T, want *EmbText", got)
	}
	if et.Text != "hi" {
		t.Errorf("text = %q, want hi", et.Text)
	}
}

func TestDeserialize_TagExtraKeysIgnored(t *testing.T) {
	wire := []byte(`{"$oid": "65f1a0b2c3d4e5f601234567", "unrelated": 42}`)
	got, err := Unmarshal(wire)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if _, ok := got.(ObjectID); !ok {
		t.Fatalf("got %T, want ObjectID", got)
	}
}

func TestDeserialize_RegexWithoutOptions(t *testing.T) {
	got, err := Unmarshal([]byte(`{"$regex": "^a"}`))
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	re, ok := got.(Regex)
	if !ok {
		t.Fatalf("got %T, want Regex", got)
	}
	if re.Pattern != "^a" || re.Options != "" {
		t.Errorf("regex = %+v, want {^a }", re)
	}
}

func TestSerialize_UnsupportedType(t *testing.T) {
	type opaque struct{ n int }
	_, err := Serialize(opaque{n: 1})
	var ute *UnsupportedTypeError
	if !errors.As(err, &ute) {
		t.Fatalf("err = %v, want UnsupportedTypeError", err)
	}
	if !strings.Contains(err.Error(), "opaque") {
		t.Errorf("error %q does not name the offending type", err)
	}
}

func TestSerialize_UnsupportedNested(t *testing.T) {
	doc := NewDocument().Set("bad", make(chan int))
	_, err := Serialize(doc)
	var ute *UnsupportedTypeError
	if !errors.As(err, &ute) {
		t.Fatalf("err = %v, want UnsupportedTypeError", err)
	}
}

func TestDeserialize_UnsupportedType(t *testing.T) {
	_, err := Deserialize(func() {})
	var ute *UnsupportedTypeError
	if !errors.As(err, &ute) {
		t.Fatalf("err = %v, want UnsupportedTypeError", err)
	}
}

func TestUnmarshal_NumberKinds(t *testing.T) {
	got, err := Unmarshal([]byte(`{"count": 42, "ratio": 0.5, "big": 1e3}`))
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	doc := got.(Document)

	if v, _ := doc.Get("count"); v != int64(42) {
		t.Errorf("count = %v (%T), want int64 42", v, v)
	}
	if v, _ := doc.Get("ratio"); v != 0.5 {
		t.Errorf("ratio = %v (%T), want float64 0.5", v, v)
	}
	if v, _ := doc.Get("big"); v != 1000.0 {
		t.Errorf("big = %v (%T), want float64 1000", v, v)
	}
}

func TestUnmarshal_Scalars(t *testing.T) {
	cases := []struct {
		in   string
		want any
	}{
		{`null`, nil},
		{`true`, true},
		{`"text"`, "text"},
		{`7`, int64(7)},
		{`7.5`, 7.5},
	}
	for _, tc := range cases {
		got, err := Unmarshal([]byte(tc.in))
		if err != nil {
			t.Fatalf("Unmarshal(%s): %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("Unmarshal(%s) = %v (%T), want %v", tc.in, got, got, tc.want)
		}
	}
}

func TestDeserialize_DateTimeWithoutZone(t *testing.T) {
	got, err := Unmarshal([]byte(`{"$date": "2026-03-14T09:26:53.589793"}`))
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	ts, ok := got.(time.Time)
	if !ok {
		t.Fatalf("got %T, want time.Time", got)
	}
	want := time.Date(2026, 3, 14, 9, 26, 53, 589793000, time.UTC)
	if !ts.Equal(want) {
		t.Errorf("time = %v, want %v", ts, want)
	}
}
