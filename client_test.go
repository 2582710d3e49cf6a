package lumendb

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNew_MissingCredentials(t *testing.T) {
	t.Setenv(EnvProjectID, "")
	t.Setenv(EnvAPIKey, "")

	_, err := New()
	if err == nil {
		t.Fatal("expected error with no credentials")
	}
	if !strings.Contains(err.Error(), EnvProjectID) {
		t.Errorf("error %q does not mention %s", err, EnvProjectID)
	}

	_, err = New(WithProjectID("proj"))
	if err == nil {
		t.Fatal("expected error with no API key")
	}
	if !strings.Contains(err.Error(), EnvAPIKey) {
		t.Errorf("error %q does not mention %s", err, EnvAPIKey)
	}
}

func TestNew_CredentialsFromEnv(t *testing.T) {
	t.Setenv(EnvProjectID, "env-proj")
	t.Setenv(EnvAPIKey, "env-key")

	c, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.projectID != "env-proj" {
		t.Errorf("projectID = %q, want env-proj", c.projectID)
	}
}

func TestNew_OptionsOverrideEnv(t *testing.T) {
	t.Setenv(EnvProjectID, "env-proj")
	t.Setenv(EnvAPIKey, "env-key")

	c, err := New(WithProjectID("opt-proj"), WithAPIKey("opt-key"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.projectID != "opt-proj" {
		t.Errorf("projectID = %q, want opt-proj", c.projectID)
	}
}

func TestNew_EnvFile(t *testing.T) {
	t.Setenv(EnvProjectID, "")
	t.Setenv(EnvAPIKey, "")

	path := filepath.Join(t.TempDir(), ".env")
	content := EnvProjectID + "=file-proj\n" + EnvAPIKey + "=file-key\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	c, err := New(WithEnvFile(path))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.projectID != "file-proj" {
		t.Errorf("projectID = %q, want file-proj", c.projectID)
	}
}

func TestNew_EnvFileMissing(t *testing.T) {
	_, err := New(WithEnvFile(filepath.Join(t.TempDir(), "nope.env")))
	if err == nil {
		t.Fatal("expected error for missing env file")
	}
}

func TestNew_WithHTTPClient(t *testing.T) {
	hc := &http.Client{}
	c, err := New(WithProjectID("p"), WithAPIKey("k"), WithHTTPClient(hc))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.session == nil {
		t.Fatal("session not constructed")
	}
}

func TestDatabaseCollectionHandles(t *testing.T) {
	c, err := New(WithProjectID("p"), WithAPIKey("k"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	db := c.Database("my_db")
	if db.Name() != "my_db" {
		t.Errorf("db name = %q", db.Name())
	}
	coll := db.Collection("articles")
	if coll.Name() != "articles" {
		t.Errorf("collection name = %q", coll.Name())
	}
	if got, want := coll.collectionPath(), "/v0/db/p_my_db/collection/articles"; got != want {
		t.Errorf("collectionPath = %q, want %q", got, want)
	}
	if got, want := coll.documentPath(), "/v0/db/p_my_db/collection/articles/document"; got != want {
		t.Errorf("documentPath = %q, want %q", got, want)
	}
}

func TestNew_ObserverOnNilConfig(t *testing.T) {
	c, err := New(WithProjectID("p"), WithAPIKey("k"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	// observe must be a no-op without logger/metrics, not a panic.
	c.obs.observe("insert", time.Now(), errors.New("x"))
}
