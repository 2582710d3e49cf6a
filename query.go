package lumendb

import (
	"fmt"

	"github.com/lumendb/lumendb-go/ejson"
)

// FindOptions configures a structural Find. Zero fields are sent as null,
// leaving the choice to the server.
type FindOptions struct {
	Projection ejson.Document
	Sort       ejson.Document
	Limit      int
	Skip       int
}

// QueryOptions configures a semantic Query. Zero fields are omitted from the
// request body entirely.
type QueryOptions struct {
	Filter        ejson.Document
	Projection    ejson.Document
	EmbModel      ejson.EmbModel
	TopK          int
	IncludeValues bool
}

// QueryMatch is one semantic search hit: the matched chunk, where it lives in
// the document, its score, and the document itself. Values holds the raw
// embedding vector when the query asked for it.
type QueryMatch struct {
	Chunk    string
	Path     string
	ChunkN   int
	Score    float64
	Document ejson.Document
	Values   []float64
}

// QueryResponse holds semantic search matches in the server's ranking order.
// The client never re-sorts.
type QueryResponse struct {
	Matches []QueryMatch
}

// matchFromDocument converts one deserialized wire match into a QueryMatch.
func matchFromDocument(doc ejson.Document) (QueryMatch, error) {
	var m QueryMatch

	if v, ok := doc.Get("chunk"); ok {
		if s, ok := v.(string); ok {
			m.Chunk = s
		}
	}
	if v, ok := doc.Get("path"); ok {
		if s, ok := v.(string); ok {
			m.Path = s
		}
	}
	if v, ok := doc.Get("chunk_n"); ok {
		n, err := asFloat(v)
		if err != nil {
			return m, fmt.Errorf("chunk_n: %w", err)
		}
		m.ChunkN = int(n)
	}
	if v, ok := doc.Get("score"); ok {
		score, err := asFloat(v)
		if err != nil {
			return m, fmt.Errorf("score: %w", err)
		}
		m.Score = score
	}
	if v, ok := doc.Get("document"); ok {
		d, ok := v.(ejson.Document)
		if !ok {
			return m, fmt.Errorf("match document is %T, want document", v)
		}
		m.Document = d
	}
	if v, ok := doc.Get("values"); ok {
		items, ok := v.([]any)
		if !ok {
			return m, fmt.Errorf("match values is %T, want array", v)
		}
		m.Values = make([]float64, len(items))
		for i, item := range items {
			f, err := asFloat(item)
			if err != nil {
				return m, fmt.Errorf("values[%d]: %w", i, err)
			}
			m.Values[i] = f
		}
	}
	return m, nil
}

func asFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int64:
		return float64(n), nil
	case int:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("value is %T, want number", v)
	}
}
