package lumendb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/lumendb/lumendb-go/ejson"
	"github.com/lumendb/lumendb-go/internal/transport/rest"
)

// Collection exposes document operations and semantic search for a single
// collection. Every method is one synchronous request/response cycle; the
// handle itself is stateless and safe for concurrent use.
//
// Documents inserted with EmbText or EmbImage fields are embedded
// asynchronously on the server: they are stored immediately but become
// semantically searchable only once background processing completes.
type Collection struct {
	client *Client
	db     string
	name   string
}

// Name returns the collection name.
func (c *Collection) Name() string { return c.name }

func (c *Collection) collectionPath() string {
	return fmt.Sprintf("/v0/db/%s_%s/collection/%s", c.client.projectID, c.db, c.name)
}

func (c *Collection) documentPath() string {
	return c.collectionPath() + "/document"
}

// Insert stores documents in the collection. Returns the server's
// acknowledgment (inserted IDs live under "inserted_ids"). There is no
// partial-success reporting: the batch succeeds or fails as a whole.
func (c *Collection) Insert(ctx context.Context, documents []ejson.Document) (ack ejson.Document, err error) {
	start := time.Now()
	defer func() { c.client.obs.observe("insert", start, err) }()

	wireDocs := make([]any, len(documents))
	for i, doc := range documents {
		wireDocs[i], err = ejson.Serialize(doc)
		if err != nil {
			return ejson.Document{}, fmt.Errorf("insert: document %d: %w", i, err)
		}
	}
	body := ejson.NewDocument().Set("documents", wireDocs)

	resp, err := c.do(ctx, http.MethodPost, c.documentPath(), body)
	if err != nil {
		return ejson.Document{}, fmt.Errorf("insert: %w", err)
	}
	ack, err = c.ackDocument(resp)
	if err != nil {
		return ejson.Document{}, fmt.Errorf("insert: %w", err)
	}
	return ack, nil
}

// Update mutates documents matching filter. With upsert, a missing match
// inserts the update document instead. Returns the server's acknowledgment.
func (c *Collection) Update(ctx context.Context, filter, update ejson.Document, upsert bool) (ack ejson.Document, err error) {
	start := time.Now()
	defer func() { c.client.obs.observe("update", start, err) }()

	wireFilter, err := ejson.Serialize(filter)
	if err != nil {
		return ejson.Document{}, fmt.Errorf("update: filter: %w", err)
	}
	wireUpdate, err := ejson.Serialize(update)
	if err != nil {
		return ejson.Document{}, fmt.Errorf("update: update: %w", err)
	}
	body := ejson.NewDocument().
		Set("filter", wireFilter).
		Set("update", wireUpdate).
		Set("upsert", upsert)

	resp, err := c.do(ctx, http.MethodPut, c.documentPath(), body)
	if err != nil {
		return ejson.Document{}, fmt.Errorf("update: %w", err)
	}
	ack, err = c.ackDocument(resp)
	if err != nil {
		return ejson.Document{}, fmt.Errorf("update: %w", err)
	}
	return ack, nil
}

// Delete removes documents matching filter. Returns the server's
// acknowledgment.
func (c *Collection) Delete(ctx context.Context, filter ejson.Document) (ack ejson.Document, err error) {
	start := time.Now()
	defer func() { c.client.obs.observe("delete", start, err) }()

	wireFilter, err := ejson.Serialize(filter)
	if err != nil {
		return ejson.Document{}, fmt.Errorf("delete: filter: %w", err)
	}
	body := ejson.NewDocument().Set("filter", wireFilter)

	resp, err := c.do(ctx, http.MethodDelete, c.documentPath(), body)
	if err != nil {
		return ejson.Document{}, fmt.Errorf("delete: %w", err)
	}
	ack, err = c.ackDocument(resp)
	if err != nil {
		return ejson.Document{}, fmt.Errorf("delete: %w", err)
	}
	return ack, nil
}

// Find returns documents matching filter. Unset options are sent as null.
func (c *Collection) Find(ctx context.Context, filter ejson.Document, opts *FindOptions) (docs []ejson.Document, err error) {
	start := time.Now()
	defer func() { c.client.obs.observe("find", start, err) }()

	if opts == nil {
		opts = &FindOptions{}
	}

	wireFilter, err := ejson.Serialize(filter)
	if err != nil {
		return nil, fmt.Errorf("find: filter: %w", err)
	}
	body := ejson.NewDocument().
		Set("filter", wireFilter).
		Set("projection", nilIfZeroDoc(opts.Projection)).
		Set("sort", nilIfZeroDoc(opts.Sort)).
		Set("limit", nilIfZeroInt(opts.Limit)).
		Set("skip", nilIfZeroInt(opts.Skip))

	resp, err := c.do(ctx, http.MethodPost, c.documentPath()+"/find", body)
	if err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}
	result, err := c.ackDocument(resp)
	if err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}

	docs, err = documentList(result, "docs")
	if err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}
	return docs, nil
}

// Query performs semantic search for text. Unset options are omitted from
// the request body entirely. Matches come back in the server's ranking
// order; a recently inserted document may legitimately be absent until its
// embeddings are processed.
func (c *Collection) Query(ctx context.Context, query string, opts *QueryOptions) (res QueryResponse, err error) {
	start := time.Now()
	defer func() { c.client.obs.observe("query", start, err) }()

	if opts == nil {
		opts = &QueryOptions{}
	}

	body := ejson.NewDocument().Set("query", query)
	if !opts.Filter.IsZero() {
		wireFilter, serr := ejson.Serialize(opts.Filter)
		if serr != nil {
			return QueryResponse{}, fmt.Errorf("query: filter: %w", serr)
		}
		body.Set("filter", wireFilter)
	}
	if !opts.Projection.IsZero() {
		wireProj, serr := ejson.Serialize(opts.Projection)
		if serr != nil {
			return QueryResponse{}, fmt.Errorf("query: projection: %w", serr)
		}
		body.Set("projection", wireProj)
	}
	if opts.EmbModel != "" {
		body.Set("emb_model", string(opts.EmbModel))
	}
	if opts.TopK > 0 {
		body.Set("top_k", opts.TopK)
	}
	if opts.IncludeValues {
		body.Set("include_values", true)
	}

	resp, err := c.do(ctx, http.MethodPost, c.documentPath()+"/query", body)
	if err != nil {
		return QueryResponse{}, fmt.Errorf("query: %w", err)
	}
	result, err := c.ackDocument(resp)
	if err != nil {
		return QueryResponse{}, fmt.Errorf("query: %w", err)
	}

	matchDocs, err := documentList(result, "matches")
	if err != nil {
		return QueryResponse{}, fmt.Errorf("query: %w", err)
	}
	matches := make([]QueryMatch, len(matchDocs))
	for i, md := range matchDocs {
		matches[i], err = matchFromDocument(md)
		if err != nil {
			return QueryResponse{}, fmt.Errorf("query: match %d: %w", i, err)
		}
	}
	return QueryResponse{Matches: matches}, nil
}

// Drop deletes the whole collection. The server signals success with
// 204 No Content, which carries no body to parse.
func (c *Collection) Drop(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.client.obs.observe("drop", start, err) }()

	resp, err := c.client.session.Do(ctx, http.MethodDelete, c.collectionPath(), nil)
	if err != nil {
		return fmt.Errorf("drop: %w", err)
	}
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if !resp.Success() {
		return fmt.Errorf("drop: %w", classifyResponse(resp.StatusCode, resp.Body))
	}
	return nil
}

// do marshals the body, performs the exchange, and classifies failures.
func (c *Collection) do(ctx context.Context, method, path string, body ejson.Document) (*rest.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	resp, err := c.client.session.Do(ctx, method, path, data)
	if err != nil {
		return nil, err
	}
	if !resp.Success() {
		return nil, classifyResponse(resp.StatusCode, resp.Body)
	}
	return resp, nil
}

// ackDocument deserializes a success body into a document.
func (c *Collection) ackDocument(resp *rest.Response) (ejson.Document, error) {
	doc, err := ejson.UnmarshalDocument(resp.Body)
	if err != nil {
		return ejson.Document{}, fmt.Errorf("decode response: %w", err)
	}
	return doc, nil
}

// documentList extracts a named list of documents from a response document.
// A missing key is an empty result, not an error.
func documentList(result ejson.Document, key string) ([]ejson.Document, error) {
	raw, ok := result.Get(key)
	if !ok {
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%q is %T, want array", key, raw)
	}
	docs := make([]ejson.Document, len(items))
	for i, item := range items {
		doc, ok := item.(ejson.Document)
		if !ok {
			return nil, fmt.Errorf("%q[%d] is %T, want document", key, i, item)
		}
		docs[i] = doc
	}
	return docs, nil
}

func nilIfZeroDoc(d ejson.Document) any {
	if d.IsZero() {
		return nil
	}
	return d
}

func nilIfZeroInt(n int) any {
	if n == 0 {
		return nil
	}
	return n
}
