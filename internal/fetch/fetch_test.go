package fetch

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

const dataset = "Invoice,StockCode,Description,Quantity,InvoiceDate,Price,Customer ID,Country\n" +
	"489434,85048,CANDLE,12,2009-12-01 07:45:00,6.95,13085,United Kingdom\n"

func newDatasetServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/online_retail.csv" {
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, dataset)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetch_HTTP(t *testing.T) {
	var hits atomic.Int32
	srv := newDatasetServer(t, &hits)
	cache := filepath.Join(t.TempDir(), "cache", "online_retail.csv")

	var progress bytes.Buffer
	var gotTotal int64
	opts := Options{
		Progress: func(total int64) io.Writer {
			gotTotal = total
			return &progress
		},
	}

	res, err := Fetch(context.Background(), srv.URL+"/online_retail.csv", cache, opts)
	if err != nil {
		t.Fatalf("Fetch() failed: %v", err)
	}
	if !res.Downloaded {
		t.Error("Downloaded = false, want true")
	}
	if res.Path != cache {
		t.Errorf("Path = %s, want %s", res.Path, cache)
	}
	if res.Bytes != int64(len(dataset)) {
		t.Errorf("Bytes = %d, want %d", res.Bytes, len(dataset))
	}
	if gotTotal != int64(len(dataset)) {
		t.Errorf("progress total = %d, want %d", gotTotal, len(dataset))
	}
	if progress.String() != dataset {
		t.Errorf("progress writer got %q", progress.String())
	}

	data, err := os.ReadFile(cache)
	if err != nil {
		t.Fatalf("cached file missing: %v", err)
	}
	if string(data) != dataset {
		t.Errorf("cached content = %q, want %q", data, dataset)
	}
}

func TestFetch_ReusesCache(t *testing.T) {
	var hits atomic.Int32
	srv := newDatasetServer(t, &hits)
	cache := filepath.Join(t.TempDir(), "online_retail.csv")
	source := srv.URL + "/online_retail.csv"

	if _, err := Fetch(context.Background(), source, cache, Options{}); err != nil {
		t.Fatalf("first Fetch() failed: %v", err)
	}
	res, err := Fetch(context.Background(), source, cache, Options{})
	if err != nil {
		t.Fatalf("second Fetch() failed: %v", err)
	}
	if res.Downloaded {
		t.Error("second Fetch() should reuse the cached file")
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("server hits = %d, want 1", got)
	}
}

func TestFetch_HTTPError(t *testing.T) {
	var hits atomic.Int32
	srv := newDatasetServer(t, &hits)
	dir := t.TempDir()
	cache := filepath.Join(dir, "missing.csv")

	_, err := Fetch(context.Background(), srv.URL+"/missing.csv", cache, Options{})
	if err == nil {
		t.Fatal("Fetch() should fail on 404")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("error %q should mention the status", err)
	}

	// Nothing is left behind, not even a temp file.
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("cache dir has %d entries after failed fetch, want 0", len(entries))
	}
}

func TestFetch_Canceled(t *testing.T) {
	var hits atomic.Int32
	srv := newDatasetServer(t, &hits)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Fetch(ctx, srv.URL+"/online_retail.csv", filepath.Join(t.TempDir(), "x.csv"), Options{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Fetch() error = %v, want context.Canceled", err)
	}
}

func TestFetch_UnsupportedScheme(t *testing.T) {
	tests := []string{
		"ftp://example.com/online_retail.csv",
		"gs://bucket/online_retail.csv",
	}

	for _, source := range tests {
		t.Run(source, func(t *testing.T) {
			_, err := Fetch(context.Background(), source, filepath.Join(t.TempDir(), "x.csv"), Options{})
			if !errors.Is(err, ErrUnsupportedSource) {
				t.Errorf("Fetch(%q) error = %v, want ErrUnsupportedSource", source, err)
			}
		})
	}
}

func TestFetch_LocalPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local.csv")
	if err := os.WriteFile(path, []byte(dataset), 0644); err != nil {
		t.Fatal(err)
	}

	res, err := Fetch(context.Background(), path, "/nonexistent/cache.csv", Options{})
	if err != nil {
		t.Fatalf("Fetch() failed: %v", err)
	}
	if res.Path != path || res.Downloaded {
		t.Errorf("Fetch() = %+v, want local path unchanged", res)
	}

	_, err = Fetch(context.Background(), filepath.Join(t.TempDir(), "absent.csv"), "", Options{})
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Fetch(absent) error = %v, want os.ErrNotExist", err)
	}
}

func TestFetch_S3(t *testing.T) {
	t.Setenv("AWS_CONFIG_FILE", filepath.Join(t.TempDir(), "config"))
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(t.TempDir(), "credentials"))
	t.Setenv("AWS_EC2_METADATA_DISABLED", "true")

	var gotPath atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath.Store(r.URL.Path)
		if r.Method != http.MethodGet || r.URL.Path != "/datasets/online_retail.csv" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		io.WriteString(w, dataset)
	}))
	defer srv.Close()

	cache := filepath.Join(t.TempDir(), "online_retail.csv")
	opts := Options{
		S3Region:          "us-east-1",
		S3Endpoint:        srv.URL,
		S3PathStyle:       true,
		S3AccessKeyID:     "test",
		S3SecretAccessKey: "test",
	}

	res, err := Fetch(context.Background(), "s3://datasets/online_retail.csv", cache, opts)
	if err != nil {
		t.Fatalf("Fetch() failed: %v (server saw %v)", err, gotPath.Load())
	}
	if !res.Downloaded {
		t.Error("Downloaded = false, want true")
	}

	data, err := os.ReadFile(cache)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != dataset {
		t.Errorf("cached content = %q, want %q", data, dataset)
	}
}

func TestFetch_S3MissingKey(t *testing.T) {
	_, err := Fetch(context.Background(), "s3://datasets", filepath.Join(t.TempDir(), "x.csv"), Options{})
	if !errors.Is(err, ErrUnsupportedSource) {
		t.Errorf("Fetch() error = %v, want ErrUnsupportedSource", err)
	}
}
