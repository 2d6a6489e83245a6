// Package fetch downloads the transaction dataset into a local cache.
//
// A source is an http(s) URL, an s3://bucket/key URI or a local file path.
// Remote sources are downloaded once; later calls reuse the cached file.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedSource is returned for source schemes other than http, https
// and s3.
var ErrUnsupportedSource = errors.New("unsupported dataset source")

// Options configures remote access.
type Options struct {
	// S3 settings; empty values use the AWS default chain.
	S3Region          string
	S3Endpoint        string // custom endpoint, e.g. a MinIO server
	S3PathStyle       bool
	S3AccessKeyID     string
	S3SecretAccessKey string

	HTTPClient *http.Client

	// Progress, when set, is called once a download starts with the expected
	// size (-1 if unknown). Downloaded bytes are written to the returned
	// writer.
	Progress func(total int64) io.Writer
}

// Result describes where the dataset ended up.
type Result struct {
	Path       string
	Downloaded bool
	Bytes      int64
}

// Fetch makes the dataset named by source available locally. Local sources
// are returned as is. Remote sources are downloaded to cachePath unless a
// file is already there; the download goes to a temp file that is renamed
// into place, so an interrupted fetch never leaves a partial dataset.
func Fetch(ctx context.Context, source, cachePath string, opts Options) (*Result, error) {
	u, err := url.Parse(source)
	if err != nil || u.Scheme == "" || isWindowsDrive(u.Scheme) {
		if _, err := os.Stat(source); err != nil {
			return nil, fmt.Errorf("dataset %s: %w", source, err)
		}
		return &Result{Path: source}, nil
	}

	var open opener
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		open = httpOpener(opts.HTTPClient)
	case "s3":
		open = s3Opener(opts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedSource, u.Scheme)
	}

	if fi, err := os.Stat(cachePath); err == nil && fi.Size() > 0 {
		return &Result{Path: cachePath, Bytes: fi.Size()}, nil
	}

	if err := os.MkdirAll(filepath.Dir(cachePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	body, size, err := open(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", source, err)
	}
	defer body.Close()

	n, err := writeAtomic(cachePath, body, progressWriter(opts.Progress, size))
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", source, err)
	}

	return &Result{Path: cachePath, Downloaded: true, Bytes: n}, nil
}

// opener returns the body of a remote object and its size, -1 if unknown.
type opener func(ctx context.Context, u *url.URL) (io.ReadCloser, int64, error)

func httpOpener(client *http.Client) opener {
	if client == nil {
		client = http.DefaultClient
	}
	return func(ctx context.Context, u *url.URL) (io.ReadCloser, int64, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, 0, err
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, 0, err
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, 0, fmt.Errorf("unexpected status %s", resp.Status)
		}
		return resp.Body, resp.ContentLength, nil
	}
}

func progressWriter(progress func(int64) io.Writer, size int64) io.Writer {
	if progress == nil {
		return nil
	}
	return progress(size)
}

// writeAtomic copies r into a temp file next to path and renames it over
// path once the copy succeeded.
func writeAtomic(path string, r io.Reader, progress io.Writer) (int64, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.part")
	if err != nil {
		return 0, err
	}
	defer os.Remove(tmp.Name())

	var w io.Writer = tmp
	if progress != nil {
		w = io.MultiWriter(tmp, progress)
	}

	n, err := io.Copy(w, r)
	if err != nil {
		tmp.Close()
		return n, err
	}
	if err := tmp.Close(); err != nil {
		return n, err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return n, err
	}
	return n, nil
}

// isWindowsDrive reports whether a parsed scheme is really a drive letter.
func isWindowsDrive(scheme string) bool {
	return len(scheme) == 1
}
