package lumendb

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	projectID string
	apiKey    string
	baseURL   string
	envFile   string

	httpClient *http.Client
	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithProjectID sets the project ID. Defaults to the LUMENDB_PROJECT_ID
// environment variable.
func WithProjectID(id string) Option {
	return optionFunc(func(c *clientConfig) {
		c.projectID = id
	})
}

// WithAPIKey sets the API key. Defaults to the LUMENDB_API_KEY environment
// variable.
func WithAPIKey(key string) Option {
	return optionFunc(func(c *clientConfig) {
		c.apiKey = key
	})
}

// WithBaseURL overrides the API endpoint. Useful for self-hosted deployments
// and for tests against a local server.
func WithBaseURL(url string) Option {
	return optionFunc(func(c *clientConfig) {
		c.baseURL = url
	})
}

// WithHTTPClient sets the underlying HTTP client. Use this to configure
// timeouts, proxies, or connection pooling. Defaults to http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = hc
	})
}

// WithEnvFile loads a dotenv file before reading credentials from the
// environment.
func WithEnvFile(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.envFile = path
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
