package lumendb

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/lumendb/lumendb-go/internal/transport/rest"
)

// Environment variables holding the caller's credentials.
const (
	EnvProjectID = "LUMENDB_PROJECT_ID"
	EnvAPIKey    = "LUMENDB_API_KEY"
)

// DefaultBaseURL is the hosted LumenDB API endpoint.
const DefaultBaseURL = "https://api.lumendb.io"

// Client is the LumenDB SDK entry point. It holds the shared HTTP session;
// database and collection handles are cheap views over it.
type Client struct {
	projectID string
	session   *rest.Session
	obs       *observer
}

// New creates a LumenDB client. Project ID and API key come from options or
// from the LUMENDB_PROJECT_ID / LUMENDB_API_KEY environment variables;
// missing either is a construction error.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{baseURL: DefaultBaseURL}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.envFile != "" {
		if err := godotenv.Load(cfg.envFile); err != nil {
			return nil, fmt.Errorf("lumendb: load env file %s: %w", cfg.envFile, err)
		}
	}

	projectID := cfg.projectID
	if projectID == "" {
		projectID = os.Getenv(EnvProjectID)
	}
	if projectID == "" {
		return nil, errors.New(
			"lumendb: missing project ID: pass WithProjectID or set " + EnvProjectID +
				" (tip: ensure your .env file is loaded)",
		)
	}

	apiKey := cfg.apiKey
	if apiKey == "" {
		apiKey = os.Getenv(EnvAPIKey)
	}
	if apiKey == "" {
		return nil, errors.New(
			"lumendb: missing API key: pass WithAPIKey or set " + EnvAPIKey +
				" (tip: ensure your .env file is loaded)",
		)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	session := rest.NewSession(rest.Config{
		BaseURL:    cfg.baseURL,
		APIKey:     apiKey,
		HTTPClient: cfg.httpClient,
		Logger:     cfg.logger,
	})

	return &Client{projectID: projectID, session: session, obs: obs}, nil
}

// Database returns a handle for the named database. No request is made;
// databases are created lazily by the server on first write.
func (c *Client) Database(name string) *Database {
	return &Database{client: c, name: name}
}

// Database is a named database within the client's project.
type Database struct {
	client *Client
	name   string
}

// Name returns the database name.
func (d *Database) Name() string { return d.name }

// Collection returns a handle for the named collection.
func (d *Database) Collection(name string) *Collection {
	return &Collection{client: d.client, db: d.name, name: name}
}
