package ejson

import (
	"testing"
)

func TestNewEmbText_Defaults(t *testing.T) {
	et := NewEmbText("hello")
	if et.Text != "hello" {
		t.Errorf("Text = %q, want hello", et.Text)
	}
	if et.EmbModel != EmbModelTextEmbedding3Small {
		t.Errorf("EmbModel = %q, want %q", et.EmbModel, EmbModelTextEmbedding3Small)
	}
	if len(et.Chunks()) != 0 {
		t.Errorf("Chunks = %v, want empty", et.Chunks())
	}
}

func TestEmbText_WireOmitsUnsetFields(t *testing.T) {
	wire := (&EmbText{Text: "hi"}).exportWire()
	raw, ok := wire.Get(tagEmbText)
	if !ok {
		t.Fatalf("wire form missing %s", tagEmbText)
	}
	inner := raw.(Document)
	if inner.Len() != 1 {
		t.Errorf("payload keys = %v, want [text] only", inner.Keys())
	}
}

func TestEmbText_FromWireBarePayload(t *testing.T) {
	payload := NewDocument().
		Set("text", "hi").
		Set("chunks", []any{"hi"})
	et, err := embTextFromWire(payload)
	if err != nil {
		t.Fatalf("embTextFromWire: %v", err)
	}
	if et.Text != "hi" {
		t.Errorf("Text = %q, want hi", et.Text)
	}
	if len(et.Chunks()) != 1 || et.Chunks()[0] != "hi" {
		t.Errorf("Chunks = %v, want [hi]", et.Chunks())
	}
}

func TestEmbText_FromWireMissingText(t *testing.T) {
	if _, err := embTextFromWire(NewDocument().Set(tagEmbText, NewDocument())); err == nil {
		t.Fatal("expected error for missing text")
	}
}

func TestNewEmbImage_Validation(t *testing.T) {
	if _, err := NewEmbImage("", "image/png"); err == nil {
		t.Error("empty data accepted")
	}
	if _, err := NewEmbImage("not base64!!!", "image/png"); err == nil {
		t.Error("invalid base64 accepted")
	}
	if _, err := NewEmbImage("aGVsbG8=", "application/pdf"); err == nil {
		t.Error("unsupported mime type accepted")
	}
	im, err := NewEmbImage("aGVsbG8=", "image/jpeg")
	if err != nil {
		t.Fatalf("NewEmbImage: %v", err)
	}
	if im.VisionModel != VisionModelGPT4oMini {
		t.Errorf("VisionModel = %q, want %q", im.VisionModel, VisionModelGPT4oMini)
	}
}

func TestEmbImage_ServerFieldsSurvive(t *testing.T) {
	wire := NewDocument().Set(tagEmbImage, NewDocument().
		Set("data", "aGVsbG8=").
		Set("mime_type", "image/png").
		Set("chunks", []any{"a cat"}).
		Set("url", "https://img.example/1.png"))

	im, err := embImageFromWire(wire)
	if err != nil {
		t.Fatalf("embImageFromWire: %v", err)
	}
	if im.URL() != "https://img.example/1.png" {
		t.Errorf("URL = %q", im.URL())
	}
	if len(im.Chunks()) != 1 || im.Chunks()[0] != "a cat" {
		t.Errorf("Chunks = %v, want [a cat]", im.Chunks())
	}

	// And they survive a full round trip back through the codec.
	out := im.exportWire()
	again, err := embImageFromWire(out)
	if err != nil {
		t.Fatalf("re-import: %v", err)
	}
	if !Equal(im, again) {
		t.Errorf("round trip = %v, want %v", again, im)
	}
}
