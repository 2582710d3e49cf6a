// Package lumendbtest provides an in-memory stand-in for the document
// service, suitable for integration tests. It speaks the same wire protocol
// as the hosted API, including the asynchronous embedding pipeline: inserted
// EmbText/EmbImage fields become searchable only after a configurable
// processing delay, so tests can exercise eventual-consistency handling.
package lumendbtest

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/lumendb/lumendb-go/ejson"
)

// Option configures a Server.
type Option interface {
	apply(*Server)
}

type optionFunc func(*Server)

func (f optionFunc) apply(s *Server) { f(s) }

// WithAPIKey requires requests to carry "Authorization: Bearer <key>".
// Without it the server accepts any request.
func WithAPIKey(key string) Option {
	return optionFunc(func(s *Server) { s.apiKey = key })
}

// WithProcessingDelay sets how long inserted embedding fields stay
// unprocessed, and therefore invisible to Query. Zero means immediate.
func WithProcessingDelay(d time.Duration) Option {
	return optionFunc(func(s *Server) { s.store.delay = d })
}

// WithLogger sets the request logger. Defaults to zap.NewNop().
func WithLogger(logger *zap.Logger) Option {
	return optionFunc(func(s *Server) { s.logger = logger })
}

// Server is an http.Handler implementing the document service API.
type Server struct {
	router *chi.Mux
	store  *store
	apiKey string
	logger *zap.Logger
}

// NewServer builds a fake server. Mount it with httptest.NewServer and point
// the client at its URL.
func NewServer(opts ...Option) *Server {
	s := &Server{
		store:  newStore(0),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt.apply(s)
	}

	r := chi.NewRouter()
	r.Use(s.authMiddleware)
	r.Route("/v0/db/{db}/collection/{collection}", func(r chi.Router) {
		r.Delete("/", s.handleDrop)
		r.Post("/document", s.handleInsert)
		r.Put("/document", s.handleUpdate)
		r.Delete("/document", s.handleDelete)
		r.Post("/document/find", s.handleFind)
		r.Post("/document/query", s.handleQuery)
	})
	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// authMiddleware validates Bearer tokens when an API key is configured.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" {
			next.ServeHTTP(w, r)
			return
		}
		auth := r.Header.Get("Authorization")
		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(auth, bearerPrefix) {
			s.writeError(w, http.StatusUnauthorized, "missing or malformed authorization header")
			return
		}
		if auth[len(bearerPrefix):] != s.apiKey {
			s.writeError(w, http.StatusUnauthorized, "invalid api key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleInsert(w http.ResponseWriter, r *http.Request) {
	body, ok := s.decodeBody(w, r)
	if !ok {
		return
	}
	raw, _ := body.Get("documents")
	items, ok := raw.([]any)
	if !ok {
		s.writeError(w, http.StatusBadRequest, "documents must be an array")
		return
	}
	docs := make([]ejson.Document, len(items))
	for i, item := range items {
		doc, ok := item.(ejson.Document)
		if !ok {
			s.writeError(w, http.StatusBadRequest, "documents must contain objects")
			return
		}
		docs[i] = doc
	}

	ids := s.store.insert(db(r), coll(r), docs)
	s.logger.Debug("insert", zap.String("collection", coll(r)), zap.Int("count", len(ids)))
	s.writeJSON(w, http.StatusCreated, ejson.NewDocument().Set("inserted_ids", ids))
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	body, ok := s.decodeBody(w, r)
	if !ok {
		return
	}
	filter, ok := documentField(body, "filter")
	if !ok {
		s.writeError(w, http.StatusBadRequest, "filter must be an object")
		return
	}
	update, ok := documentField(body, "update")
	if !ok {
		s.writeError(w, http.StatusBadRequest, "update must be an object")
		return
	}
	upsert := false
	if raw, ok := body.Get("upsert"); ok {
		upsert, _ = raw.(bool)
	}

	matched, modified := s.store.update(db(r), coll(r), filter, update, upsert)
	s.logger.Debug("update", zap.String("collection", coll(r)), zap.Int("matched", matched))
	s.writeJSON(w, http.StatusOK, ejson.NewDocument().
		Set("matched_count", matched).
		Set("modified_count", modified))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	body, ok := s.decodeBody(w, r)
	if !ok {
		return
	}
	filter, ok := documentField(body, "filter")
	if !ok {
		s.writeError(w, http.StatusBadRequest, "filter must be an object")
		return
	}

	deleted := s.store.delete(db(r), coll(r), filter)
	s.logger.Debug("delete", zap.String("collection", coll(r)), zap.Int("deleted", deleted))
	s.writeJSON(w, http.StatusOK, ejson.NewDocument().Set("deleted_count", deleted))
}

func (s *Server) handleFind(w http.ResponseWriter, r *http.Request) {
	body, ok := s.decodeBody(w, r)
	if !ok {
		return
	}
	filter, ok := documentField(body, "filter")
	if !ok {
		s.writeError(w, http.StatusBadRequest, "filter must be an object")
		return
	}
	limit := intField(body, "limit")
	skip := intField(body, "skip")

	docs := s.store.find(db(r), coll(r), filter, limit, skip)
	out := make([]any, len(docs))
	for i, d := range docs {
		out[i] = d
	}
	s.writeJSON(w, http.StatusOK, ejson.NewDocument().Set("docs", out))
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	body, ok := s.decodeBody(w, r)
	if !ok {
		return
	}
	raw, _ := body.Get("query")
	queryText, ok := raw.(string)
	if !ok || queryText == "" {
		s.writeError(w, http.StatusBadRequest, "query must be a non-empty string")
		return
	}
	filter := ejson.NewDocument()
	if body.Has("filter") {
		filter, ok = documentField(body, "filter")
		if !ok {
			s.writeError(w, http.StatusBadRequest, "filter must be an object")
			return
		}
	}
	topK := intField(body, "top_k")
	includeValues := false
	if raw, ok := body.Get("include_values"); ok {
		includeValues, _ = raw.(bool)
	}

	matches := s.store.query(db(r), coll(r), queryText, filter, topK)
	out := make([]any, len(matches))
	for i, m := range matches {
		md := ejson.NewDocument().
			Set("chunk", m.chunk).
			Set("path", m.path).
			Set("chunk_n", m.chunkN).
			Set("score", m.score).
			Set("document", m.doc)
		if includeValues {
			md.Set("values", []any{0.1, 0.2, 0.3})
		}
		out[i] = md
	}
	s.logger.Debug("query", zap.String("collection", coll(r)), zap.Int("matches", len(matches)))
	s.writeJSON(w, http.StatusOK, ejson.NewDocument().Set("matches", out))
}

func (s *Server) handleDrop(w http.ResponseWriter, r *http.Request) {
	if !s.store.drop(db(r), coll(r)) {
		s.writeError(w, http.StatusNotFound, "collection not found")
		return
	}
	s.logger.Debug("drop", zap.String("collection", coll(r)))
	w.WriteHeader(http.StatusNoContent)
}

func db(r *http.Request) string   { return chi.URLParam(r, "db") }
func coll(r *http.Request) string { return chi.URLParam(r, "collection") }

// decodeBody reads the request body at the wire level, without interpreting
// extension tags, so embedding payloads stay mutable documents.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request) (ejson.Document, bool) {
	defer r.Body.Close()
	data, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "read request body: "+err.Error())
		return ejson.Document{}, false
	}
	wire, err := ejson.DecodeWire(data)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return ejson.Document{}, false
	}
	doc, ok := wire.(ejson.Document)
	if !ok {
		s.writeError(w, http.StatusBadRequest, "request body must be an object")
		return ejson.Document{}, false
	}
	return doc, true
}

func documentField(body ejson.Document, key string) (ejson.Document, bool) {
	raw, ok := body.Get(key)
	if !ok || raw == nil {
		return ejson.NewDocument(), true
	}
	doc, ok := raw.(ejson.Document)
	return doc, ok
}

func intField(body ejson.Document, key string) int {
	raw, ok := body.Get(key)
	if !ok {
		return 0
	}
	n, ok := raw.(int64)
	if !ok {
		return 0
	}
	return int(n)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, doc ejson.Document) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(doc); err != nil {
		s.logger.Warn("write response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := map[string]any{"status": "error", "code": status, "message": message}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Warn("write error response", zap.Error(err))
	}
}
