// Package lumendb provides the Go client for LumenDB, a hosted document
// store with server-side semantic search.
//
// Documents are extended JSON (package ejson): ordinary values plus a closed
// set of extension types and the EmbText/EmbImage placeholders. Fields marked
// with a placeholder are embedded asynchronously by the server — there is a
// short delay after insert before they match semantic queries.
//
//	client, err := lumendb.New() // reads LUMENDB_PROJECT_ID and LUMENDB_API_KEY
//	if err != nil {
//	    log.Fatal(err)
//	}
//	coll := client.Database("my_database").Collection("articles")
//
//	doc := ejson.NewDocument().
//	    Set("title", "Sample").
//	    Set("body", ejson.NewEmbText("text that the server will embed"))
//	ack, err := coll.Insert(ctx, []ejson.Document{doc})
//
//	// Once server-side processing completes:
//	res, err := coll.Query(ctx, "semantic search", nil)
package lumendb
