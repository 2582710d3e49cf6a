package lumendbtest

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/lumendb/lumendb-go/ejson"
)

// storedDoc is one document at the wire level, plus its processing state.
// Embedding-bearing fields stay raw until readyAt passes; processing is
// applied lazily on read, which keeps the store free of background
// goroutines while still modeling the server's asynchronous pipeline.
type storedDoc struct {
	doc     ejson.Document
	readyAt time.Time
}

type collection struct {
	docs []*storedDoc
}

// store holds collections keyed by "{db}/{collection}".
type store struct {
	mu          sync.Mutex
	collections map[string]*collection
	delay       time.Duration
}

func newStore(delay time.Duration) *store {
	return &store{
		collections: make(map[string]*collection),
		delay:       delay,
	}
}

func (s *store) key(db, coll string) string {
	return db + "/" + coll
}

// insert stores wire documents and returns generated IDs for those without
// an _id.
func (s *store) insert(db, coll string, docs []ejson.Document) []any {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.collections[s.key(db, coll)]
	if c == nil {
		c = &collection{}
		s.collections[s.key(db, coll)] = c
	}

	ids := make([]any, 0, len(docs))
	for _, doc := range docs {
		if !doc.Has("_id") {
			id := ejson.NewObjectID()
			doc.Set("_id", ejson.NewDocument().Set("$oid", id.Hex()))
		}
		rawID, _ := doc.Get("_id")
		ids = append(ids, rawID)

		readyAt := time.Now()
		if hasEmbeddingField(doc) {
			readyAt = readyAt.Add(s.delay)
		}
		c.docs = append(c.docs, &storedDoc{doc: doc, readyAt: readyAt})
	}
	return ids
}

// update applies the $set clause of update to documents matching filter.
// Returns matched and modified counts; with upsert a zero-match update
// inserts filter merged with the $set clause.
func (s *store) update(db, coll string, filter, update ejson.Document, upsert bool) (matched, modified int) {
	s.mu.Lock()
	c := s.collections[s.key(db, coll)]

	setClause := ejson.NewDocument()
	if raw, ok := update.Get("$set"); ok {
		if d, ok := raw.(ejson.Document); ok {
			setClause = d
		}
	}

	if c != nil {
		for _, sd := range c.docs {
			if !matchesFilter(sd.doc, filter) {
				continue
			}
			matched++
			changed := false
			for k, v := range setClause.All() {
				if old, ok := sd.doc.Get(k); !ok || !ejson.Equal(old, v) {
					sd.doc.Set(k, v)
					changed = true
				}
			}
			if changed {
				modified++
			}
		}
	}
	s.mu.Unlock()

	if matched == 0 && upsert {
		doc := ejson.NewDocument()
		for k, v := range filter.All() {
			doc.Set(k, v)
		}
		for k, v := range setClause.All() {
			doc.Set(k, v)
		}
		s.insert(db, coll, []ejson.Document{doc})
	}
	return matched, modified
}

// delete removes matching documents and returns the count.
func (s *store) delete(db, coll string, filter ejson.Document) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.collections[s.key(db, coll)]
	if c == nil {
		return 0
	}
	kept := c.docs[:0]
	deleted := 0
	for _, sd := range c.docs {
		if matchesFilter(sd.doc, filter) {
			deleted++
			continue
		}
		kept = append(kept, sd)
	}
	c.docs = kept
	return deleted
}

// find returns matching documents, with lazy embedding processing applied.
func (s *store) find(db, coll string, filter ejson.Document, limit, skip int) []ejson.Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.collections[s.key(db, coll)]
	if c == nil {
		return nil
	}
	var out []ejson.Document
	for _, sd := range c.docs {
		if !matchesFilter(sd.doc, filter) {
			continue
		}
		s.processIfReady(sd)
		out = append(out, cloneDocument(sd.doc))
	}
	if skip > 0 {
		if skip >= len(out) {
			return nil
		}
		out = out[skip:]
	}
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}

// match is one query hit at the wire level.
type match struct {
	chunk  string
	path   string
	chunkN int
	score  float64
	doc    ejson.Document
}

// query scores processed embedding chunks against the query string with
// naive substring matching. Unprocessed documents never match, which is
// exactly the eventual-consistency window the real service has.
func (s *store) query(db, coll, queryText string, filter ejson.Document, topK int) []match {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.collections[s.key(db, coll)]
	if c == nil {
		return nil
	}
	var out []match
	for _, sd := range c.docs {
		if !matchesFilter(sd.doc, filter) {
			continue
		}
		if !s.processIfReady(sd) {
			continue
		}
		for path, payload := range embeddingPayloads(sd.doc) {
			chunks, _ := payload.Get("chunks")
			items, ok := chunks.([]any)
			if !ok {
				continue
			}
			for n, item := range items {
				chunk, ok := item.(string)
				if !ok {
					continue
				}
				score, ok := scoreChunk(chunk, queryText)
				if !ok {
					continue
				}
				out = append(out, match{
					chunk:  chunk,
					path:   path,
					chunkN: n,
					score:  score,
					doc:    cloneDocument(sd.doc),
				})
			}
		}
	}
	if topK > 0 && topK < len(out) {
		out = out[:topK]
	}
	return out
}

// drop removes a collection. Returns false if it does not exist.
func (s *store) drop(db, coll string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[s.key(db, coll)]; !ok {
		return false
	}
	delete(s.collections, s.key(db, coll))
	return true
}

// processIfReady simulates the server's background embedding step: once the
// document's delay has elapsed, each raw embedding payload gets its chunks
// filled. Reports whether the document is processed.
func (s *store) processIfReady(sd *storedDoc) bool {
	if time.Now().Before(sd.readyAt) {
		return false
	}
	i := 0
	for _, payload := range embeddingPayloads(sd.doc) {
		if payload.Has("chunks") {
			continue
		}
		if text, ok := payload.Get("text"); ok {
			payload.Set("chunks", []any{text})
		} else {
			payload.Set("chunks", []any{"image " + strconv.Itoa(i)})
			payload.Set("url", "https://img.lumendb.test/"+strconv.Itoa(i))
		}
		i++
	}
	return true
}

// hasEmbeddingField reports whether any top-level field carries an
// embedding payload; only such documents go through the processing delay.
func hasEmbeddingField(doc ejson.Document) bool {
	return len(embeddingPayloads(doc)) > 0
}

// embeddingPayloads finds top-level @embText/@embImage payloads by field.
func embeddingPayloads(doc ejson.Document) map[string]ejson.Document {
	out := make(map[string]ejson.Document)
	for k, v := range doc.All() {
		field, ok := v.(ejson.Document)
		if !ok {
			continue
		}
		for _, tag := range []string{"@embText", "@embImage"} {
			if raw, ok := field.Get(tag); ok {
				if payload, ok := raw.(ejson.Document); ok {
					out[k] = payload
				}
			}
		}
	}
	return out
}

// cloneDocument returns a deep copy of a wire document. find and query hand
// documents to handlers that marshal them outside the store mutex, so live
// references would race with update and lazy processing.
func cloneDocument(doc ejson.Document) ejson.Document {
	out := ejson.NewDocument()
	for k, v := range doc.All() {
		out.Set(k, cloneValue(v))
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case ejson.Document:
		return cloneDocument(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// matchesFilter checks top-level structural equality of every filter key.
func matchesFilter(doc, filter ejson.Document) bool {
	for k, want := range filter.All() {
		got, ok := doc.Get(k)
		if !ok || !ejson.Equal(got, want) {
			return false
		}
	}
	return true
}

// scoreChunk is the fake relevance model: containment either way counts as
// a hit, scored by length ratio.
func scoreChunk(chunk, query string) (float64, bool) {
	if chunk == "" || query == "" {
		return 0, false
	}
	if !strings.Contains(chunk, query) && !strings.Contains(query, chunk) {
		return 0, false
	}
	shorter, longer := len(chunk), len(query)
	if shorter > longer {
		shorter, longer = longer, shorter
	}
	return float64(shorter) / float64(longer), true
}
