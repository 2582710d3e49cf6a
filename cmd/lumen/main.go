// Command lumen is a small operational CLI over the document service:
// insert, find, query, and drop against any collection, configured via
// config/<env>.yaml and the environment.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	lumendb "github.com/lumendb/lumendb-go"
	"github.com/lumendb/lumendb-go/ejson"
	"github.com/lumendb/lumendb-go/internal/config"
	logpkg "github.com/lumendb/lumendb-go/internal/logger"
	"github.com/lumendb/lumendb-go/internal/version"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "lumen:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: lumen <insert|find|query|drop|version> [flags]")
	}
	cmd, args := args[0], args[1:]

	if cmd == "version" {
		fmt.Printf("lumen %s (%s, %s)\n", version.Version, version.Commit, version.Date)
		return nil
	}

	// Credentials may live in a local .env; absence is not an error.
	_ = godotenv.Load()

	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		return err
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	client, err := lumendb.New(
		lumendb.WithProjectID(cfg.Connection.ProjectID),
		lumendb.WithAPIKey(cfg.Connection.APIKey),
		lumendb.WithBaseURL(cfg.Connection.BaseURL),
		lumendb.WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.Connection.TimeoutSec) * time.Second,
		}),
	)
	if err != nil {
		return err
	}

	ctx := context.Background()
	switch cmd {
	case "insert":
		return runInsert(ctx, client, cfg, logger, args)
	case "find":
		return runFind(ctx, client, cfg, logger, args)
	case "query":
		return runQuery(ctx, client, cfg, logger, args)
	case "drop":
		return runDrop(ctx, client, cfg, logger, args)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// collectionFlags registers the flags every subcommand shares.
func collectionFlags(fs *flag.FlagSet, cfg config.Config) (db, coll *string) {
	db = fs.String("db", cfg.Defaults.Database, "database name")
	coll = fs.String("collection", cfg.Defaults.Collection, "collection name")
	return db, coll
}

func resolveCollection(client *lumendb.Client, db, coll string) (*lumendb.Collection, error) {
	if coll == "" {
		return nil, fmt.Errorf("collection is required (flag -collection or defaults.collection)")
	}
	return client.Database(db).Collection(coll), nil
}

func runInsert(ctx context.Context, client *lumendb.Client, cfg config.Config, logger *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("insert", flag.ContinueOnError)
	db, coll := collectionFlags(fs, cfg)
	doc := fs.String("doc", "", "document as extended JSON (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *doc == "" {
		return fmt.Errorf("-doc is required")
	}
	parsed, err := ejson.UnmarshalDocument([]byte(*doc))
	if err != nil {
		return fmt.Errorf("parse -doc: %w", err)
	}

	c, err := resolveCollection(client, *db, *coll)
	if err != nil {
		return err
	}
	ack, err := c.Insert(ctx, []ejson.Document{parsed})
	if err != nil {
		return err
	}
	logger.Info("inserted", zap.String("collection", c.Name()))
	return printDocument(ack)
}

func runFind(ctx context.Context, client *lumendb.Client, cfg config.Config, logger *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("find", flag.ContinueOnError)
	db, coll := collectionFlags(fs, cfg)
	filter := fs.String("filter", "{}", "filter as extended JSON")
	limit := fs.Int("limit", 0, "maximum documents to return")
	skip := fs.Int("skip", 0, "documents to skip")
	if err := fs.Parse(args); err != nil {
		return err
	}

	parsed, err := ejson.UnmarshalDocument([]byte(*filter))
	if err != nil {
		return fmt.Errorf("parse -filter: %w", err)
	}

	c, err := resolveCollection(client, *db, *coll)
	if err != nil {
		return err
	}
	docs, err := c.Find(ctx, parsed, &lumendb.FindOptions{Limit: *limit, Skip: *skip})
	if err != nil {
		return err
	}
	logger.Info("found", zap.String("collection", c.Name()), zap.Int("count", len(docs)))
	for _, d := range docs {
		if err := printDocument(d); err != nil {
			return err
		}
	}
	return nil
}

func runQuery(ctx context.Context, client *lumendb.Client, cfg config.Config, logger *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("query", flag.ContinueOnError)
	db, coll := collectionFlags(fs, cfg)
	text := fs.String("text", "", "query text (required)")
	topK := fs.Int("top-k", cfg.Defaults.TopK, "number of matches to return")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *text == "" {
		return fmt.Errorf("-text is required")
	}

	c, err := resolveCollection(client, *db, *coll)
	if err != nil {
		return err
	}
	res, err := c.Query(ctx, *text, &lumendb.QueryOptions{TopK: *topK})
	if err != nil {
		return err
	}
	logger.Info("queried", zap.String("collection", c.Name()), zap.Int("matches", len(res.Matches)))
	for _, m := range res.Matches {
		fmt.Printf("%.4f  %s[%d]  %s\n", m.Score, m.Path, m.ChunkN, m.Chunk)
	}
	return nil
}

func runDrop(ctx context.Context, client *lumendb.Client, cfg config.Config, logger *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("drop", flag.ContinueOnError)
	db, coll := collectionFlags(fs, cfg)
	if err := fs.Parse(args); err != nil {
		return err
	}

	c, err := resolveCollection(client, *db, *coll)
	if err != nil {
		return err
	}
	if err := c.Drop(ctx); err != nil {
		return err
	}
	logger.Info("dropped", zap.String("collection", c.Name()))
	return nil
}

func printDocument(doc ejson.Document) error {
	data, err := ejson.Marshal(doc)
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
