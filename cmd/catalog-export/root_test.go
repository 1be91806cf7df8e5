package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/saturnines/catalog-export/pkg/errors"
)

// execute runs the root command with fresh flag values.
func execute(t *testing.T, args ...string) error {
	t.Helper()
	cfgFile, envFile, metricsFile, verbose = defaultConfigFile, ".env", "", false
	for _, name := range []string{"config", "env-file", "metrics-file", "verbose"} {
		rootCmd.Flags().Lookup(name).Changed = false
	}
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(context.Background())
}

func TestMissingAPIKeyFailsBeforeNetwork(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		fmt.Fprint(w, `{"objects": []}`)
	}))
	defer server.Close()

	dir := t.TempDir()
	configPath := filepath.Join(dir, "export.yaml")
	os.WriteFile(configPath, []byte("base_url: "+server.URL+"\noutput:\n  dir: "+dir+"\n"), 0o644)

	t.Setenv("TRACKER_ID", "tracker-1")
	t.Setenv("API_KEY", "")

	err := execute(t, "--config", configPath, "--env-file", filepath.Join(dir, "missing.env"))
	if !errors.Is(err, errors.ErrConfiguration) {
		t.Fatalf("Expected configuration error, got %v", err)
	}
	if !strings.Contains(err.Error(), "API_KEY") {
		t.Errorf("Expected error to name API_KEY, got %v", err)
	}
	if atomic.LoadInt32(&hits) != 0 {
		t.Errorf("Expected no requests, got %d", hits)
	}
}

func TestExplicitConfigMustExist(t *testing.T) {
	err := execute(t, "--config", filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, errors.ErrConfiguration) {
		t.Errorf("Expected configuration error, got %v", err)
	}
}

func TestRejectsArguments(t *testing.T) {
	if err := execute(t, "extra"); err == nil {
		t.Error("Expected error for positional argument")
	}
}

func TestExportWritesCSVAndMetrics(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			fmt.Fprint(w, `{"total": 1, "objects": [{"url": "/a", "type": "product", "exact": true, "attributes": {"price": 10}}]}`)
			return
		}
		fmt.Fprint(w, `{"total": 1, "objects": []}`)
	}))
	defer server.Close()

	dir := t.TempDir()
	envPath := filepath.Join(dir, "test.env")
	os.WriteFile(envPath, []byte("CATALOG_TRACKER=tracker-1\nCATALOG_KEY=secret\n"), 0o644)

	configPath := filepath.Join(dir, "export.yaml")
	os.WriteFile(configPath, []byte(fmt.Sprintf(`name: shop
base_url: %s
pagination:
  page_size: 1
output:
  dir: %s
credentials:
  tracker_id_env: CATALOG_TRACKER
  api_key_env: CATALOG_KEY
`, server.URL, filepath.Join(dir, "out"))), 0o644)

	t.Cleanup(func() {
		os.Unsetenv("CATALOG_TRACKER")
		os.Unsetenv("CATALOG_KEY")
	})

	metricsPath := filepath.Join(dir, "export.prom")
	if err := execute(t, "--config", configPath, "--env-file", envPath, "--metrics-file", metricsPath); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "out", "shop.csv"))
	if err != nil {
		t.Fatalf("missing export: %v", err)
	}
	want := "url,type,exact,price,nested\r\n/a,product,true,10,\r\n"
	if string(data) != want {
		t.Errorf("Unexpected export:\n%s\nwant:\n%s", data, want)
	}

	prom, err := os.ReadFile(metricsPath)
	if err != nil {
		t.Fatalf("missing metrics file: %v", err)
	}
	if !strings.Contains(string(prom), "catalog_export_pages_total 2") {
		t.Errorf("Expected page count in metrics, got:\n%s", prom)
	}
}
