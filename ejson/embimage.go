package ejson

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Supported image mime types for EmbImage.
var supportedMimeTypes = []string{
	"image/jpeg",
	"image/jpg",
	"image/png",
	"image/gif",
	"image/webp",
}

// EmbImage marks an image field for asynchronous vision processing and
// embedding on the server. Data is the base64-encoded image.
type EmbImage struct {
	Data     string
	MimeType string

	// Optional model and chunking settings, omitted from the wire when unset.
	EmbModel         EmbModel
	VisionModel      VisionModel
	MaxChunkSize     int
	ChunkOverlap     int
	IsSeparatorRegex bool
	Separators       []string
	KeepSeparator    bool

	// Set by the server once processing completes.
	chunks []string
	url    string
}

// NewEmbImage creates an EmbImage from base64-encoded image data, with the
// default embedding and vision models.
func NewEmbImage(data, mimeType string) (*EmbImage, error) {
	if strings.TrimSpace(data) == "" {
		return nil, fmt.Errorf("ejson: image data must be a non-empty base64 string")
	}
	if _, err := base64.StdEncoding.DecodeString(data); err != nil {
		return nil, fmt.Errorf("ejson: image data is not valid base64: %w", err)
	}
	if !isSupportedMimeType(mimeType) {
		return nil, fmt.Errorf("ejson: unsupported mime type %q, supported: %s",
			mimeType, strings.Join(supportedMimeTypes, ", "))
	}
	return &EmbImage{
		Data:        data,
		MimeType:    mimeType,
		EmbModel:    EmbModelTextEmbedding3Small,
		VisionModel: VisionModelGPT4oMini,
	}, nil
}

func isSupportedMimeType(mimeType string) bool {
	for _, m := range supportedMimeTypes {
		if mimeType == m {
			return true
		}
	}
	return false
}

// Chunks returns the server-computed description chunks. Empty until the
// server has processed the field.
func (im *EmbImage) Chunks() []string { return im.chunks }

// URL returns the server-assigned image URL, if any.
func (im *EmbImage) URL() string { return im.url }

func (im *EmbImage) String() string {
	if im.url != "" {
		return fmt.Sprintf("EmbImage(%s)", im.url)
	}
	if len(im.chunks) > 0 {
		return fmt.Sprintf("EmbImage(%q)", im.chunks[0])
	}
	return "EmbImage(<raw data>)"
}

// exportWire produces the tagged wire form {"@embImage": {...}}, emitting
// only set fields.
func (im *EmbImage) exportWire() Document {
	inner := NewDocument().
		Set("data", im.Data).
		Set("mime_type", im.MimeType)
	if len(im.chunks) > 0 {
		inner.Set("chunks", stringsToWire(im.chunks))
	}
	if im.url != "" {
		inner.Set("url", im.url)
	}
	if im.EmbModel != "" {
		inner.Set("emb_model", string(im.EmbModel))
	}
	if im.VisionModel != "" {
		inner.Set("vision_model", string(im.VisionModel))
	}
	if im.MaxChunkSize > 0 {
		inner.Set("max_chunk_size", im.MaxChunkSize)
	}
	if im.ChunkOverlap > 0 {
		inner.Set("chunk_overlap", im.ChunkOverlap)
	}
	if im.IsSeparatorRegex {
		inner.Set("is_separator_regex", true)
	}
	if im.Separators != nil {
		inner.Set("separators", stringsToWire(im.Separators))
	}
	if im.KeepSeparator {
		inner.Set("keep_separator", true)
	}
	return NewDocument().Set(tagEmbImage, inner)
}

// embImageFromWire reconstructs an EmbImage from its wire form. Accepts both
// the wrapped {"@embImage": {...}} document and the bare payload.
func embImageFromWire(doc Document) (*EmbImage, error) {
	payload := doc
	if raw, ok := doc.Get(tagEmbImage); ok {
		inner, ok := raw.(Document)
		if !ok {
			return nil, fmt.Errorf("ejson: %s payload is %T, want document", tagEmbImage, raw)
		}
		payload = inner
	}

	mimeType, err := wireString(payload, "mime_type")
	if err != nil {
		return nil, err
	}
	im := &EmbImage{MimeType: mimeType}
	if im.Data, err = optString(payload, "data"); err != nil {
		return nil, err
	}
	if im.chunks, err = optStrings(payload, "chunks"); err != nil {
		return nil, err
	}
	if im.url, err = optString(payload, "url"); err != nil {
		return nil, err
	}
	model, err := optString(payload, "emb_model")
	if err != nil {
		return nil, err
	}
	im.EmbModel = EmbModel(model)
	vision, err := optString(payload, "vision_model")
	if err != nil {
		return nil, err
	}
	im.VisionModel = VisionModel(vision)
	if im.MaxChunkSize, err = optInt(payload, "max_chunk_size"); err != nil {
		return nil, err
	}
	if im.ChunkOverlap, err = optInt(payload, "chunk_overlap"); err != nil {
		return nil, err
	}
	if im.IsSeparatorRegex, err = optBool(payload, "is_separator_regex"); err != nil {
		return nil, err
	}
	if im.Separators, err = optStrings(payload, "separators"); err != nil {
		return nil, err
	}
	if im.KeepSeparator, err = optBool(payload, "keep_separator"); err != nil {
		return nil, err
	}
	return im, nil
}
