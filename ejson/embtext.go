package ejson

import "fmt"

// EmbText marks a text field for asynchronous embedding on the server.
//
// The client never computes embeddings itself: the value travels to the server
// as an opaque payload and the server chunks, embeds, and indexes it in the
// background. Until that completes the document is stored but not yet
// semantically searchable.
type EmbText struct {
	Text string

	// Optional chunking and model settings. Zero values are omitted from the
	// wire payload and the server applies its defaults.
	EmbModel         EmbModel
	MaxChunkSize     int
	ChunkOverlap     int
	IsSeparatorRegex bool
	Separators       []string
	KeepSeparator    bool

	// chunks is set by the server once processing completes.
	chunks []string
}

// NewEmbText creates an EmbText with the default embedding model.
func NewEmbText(text string) *EmbText {
	return &EmbText{Text: text, EmbModel: EmbModelTextEmbedding3Small}
}

// Chunks returns the server-computed chunks. Empty until the server has
// processed the field.
func (t *EmbText) Chunks() []string { return t.chunks }

func (t *EmbText) String() string {
	if len(t.chunks) > 0 {
		return fmt.Sprintf("EmbText(%q, %d chunks)", t.Text, len(t.chunks))
	}
	return fmt.Sprintf("EmbText(%q)", t.Text)
}

// exportWire produces the tagged wire form {"@embText": {...}}, emitting only
// set fields.
func (t *EmbText) exportWire() Document {
	inner := NewDocument().Set("text", t.Text)
	if len(t.chunks) > 0 {
		inner.Set("chunks", stringsToWire(t.chunks))
	}
	if t.EmbModel != "" {
		inner.Set("emb_model", string(t.EmbModel))
	}
	if t.MaxChunkSize > 0 {
		inner.Set("max_chunk_size", t.MaxChunkSize)
	}
	if t.ChunkOverlap > 0 {
		inner.Set("chunk_overlap", t.ChunkOverlap)
	}
	if t.IsSeparatorRegex {
		inner.Set("is_separator_regex", true)
	}
	if t.Separators != nil {
		inner.Set("separators", stringsToWire(t.Separators))
	}
	if t.KeepSeparator {
		inner.Set("keep_separator", true)
	}
	return NewDocument().Set(tagEmbText, inner)
}

// embTextFromWire reconstructs an EmbText from its wire form. Accepts both the
// wrapped {"@embText": {...}} document and the bare payload.
func embTextFromWire(doc Document) (*EmbText, error) {
	payload := doc
	if raw, ok := doc.Get(tagEmbText); ok {
		inner, ok := raw.(Document)
		if !ok {
			return nil, fmt.Errorf("ejson: %s payload is %T, want document", tagEmbText, raw)
		}
		payload = inner
	}

	text, err := wireString(payload, "text")
	if err != nil {
		return nil, err
	}

	t := &EmbText{Text: text}
	if t.chunks, err = optStrings(payload, "chunks"); err != nil {
		return nil, err
	}
	model, err := optString(payload, "emb_model")
	if err != nil {
		return nil, err
	}
	t.EmbModel = EmbModel(model)
	if t.MaxChunkSize, err = optInt(payload, "max_chunk_size"); err != nil {
		return nil, err
	}
	if t.ChunkOverlap, err = optInt(payload, "chunk_overlap"); err != nil {
		return nil, err
	}
	if t.IsSeparatorRegex, err = optBool(payload, "is_separator_regex"); err != nil {
		return nil, err
	}
	if t.Separators, err = optStrings(payload, "separators"); err != nil {
		return nil, err
	}
	if t.KeepSeparator, err = optBool(payload, "keep_separator"); err != nil {
		return nil, err
	}
	return t, nil
}
