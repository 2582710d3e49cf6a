// Package ejson implements the extended-JSON codec used on the LumenDB wire.
//
// A LumenDB document is ordinary JSON extended with a closed set of tagged
// value types (ObjectID, dates, decimals, binary data, and so on) plus the two
// embedding placeholders EmbText and EmbImage. Each extension is encoded as a
// single-tag JSON object, e.g. {"$oid": "..."} or {"@embText": {...}}; any
// untagged object is a plain nested document.
//
// Marshal and Unmarshal convert between in-memory values and wire bytes.
// Serialize and Deserialize expose the tree-level halves for callers that
// assemble request bodies themselves.
//
//	doc := ejson.NewDocument().
//	    Set("title", "Sample").
//	    Set("body", ejson.NewEmbText("text to embed server-side"))
//	data, err := ejson.Marshal(doc)
package ejson
