// Package download streams remote artifacts to disk. It is shared by the
// install path (registry download URLs), the release platform handlers and
// the OCI reference path.
package download

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog/log"

	"github.com/hoardpkg/hoard/util/common/errors"
)

// State is the value passed to progress callbacks. Total is zero when the
// server did not report a content length.
type State struct {
	Transferred int64
	Total       int64
}

// Callback receives periodic transfer updates. It must be fast and
// non-blocking; every concurrent download holds its own reference.
type Callback func(State)

// Options configure a single download.
type Options struct {
	URL              string
	OutputPath       string
	ProgressCallback Callback
}

// Downloader performs HTTP downloads with retries.
type Downloader struct {
	client *retryablehttp.Client
}

// NewDownloader creates a Downloader. A nil client gets the shared default.
func NewDownloader(client *retryablehttp.Client) *Downloader {
	if client == nil {
		client = NewHTTPClient()
	}
	return &Downloader{client: client}
}

// NewHTTPClient builds the retrying HTTP client used across the CLI.
// Constructed once at startup and passed into every component that talks to
// the network.
func NewHTTPClient() *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.HTTPClient.Timeout = 5 * time.Minute
	client.Logger = nil
	return client
}

// Download streams the response body of opts.URL to opts.OutputPath (or a
// filename derived from the URL) and returns the path written.
func (d *Downloader) Download(ctx context.Context, opts Options) (string, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, opts.URL, nil)
	if err != nil {
		return "", errors.NewParseError(opts.URL, err.Error())
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return "", errors.NewNetworkError(opts.URL, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", errors.NewNetworkError(opts.URL, resp.StatusCode, nil)
	}

	outputPath := opts.OutputPath
	if outputPath == "" {
		outputPath = OutputName(opts.URL)
	}

	log.Debug().Str("url", opts.URL).Str("output", outputPath).Msg("Starting download")

	if err := writeStream(resp.Body, outputPath, resp.ContentLength, opts.ProgressCallback); err != nil {
		return "", err
	}
	return outputPath, nil
}

// OutputName derives a default filename from the last URL path segment.
func OutputName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return filepath.Base(rawURL)
	}
	name := filepath.Base(strings.TrimSuffix(u.Path, "/"))
	if name == "." || name == "/" || name == "" {
		return "download"
	}
	return name
}

// writeStream copies r to path, reporting byte counts after every chunk.
// The destination is written through a temp file in the same directory and
// renamed into place so an interrupted transfer never leaves a partial file
// under the final name.
func writeStream(r io.Reader, path string, total int64, cb Callback) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.NewFileError(dir, "mkdir", err)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.NewFileError(path, "create", err)
	}
	defer os.Remove(tmp.Name())

	if total < 0 {
		total = 0
	}

	var transferred int64
	buf := make([]byte, 32*1024)
	for {
		n, rerr := r.Read(buf)
		if n > 0 {
			if _, werr := tmp.Write(buf[:n]); werr != nil {
				tmp.Close()
				return errors.NewFileError(path, "write", werr)
			}
			transferred += int64(n)
			if cb != nil {
				cb(State{Transferred: transferred, Total: total})
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			tmp.Close()
			return errors.NewNetworkError(path, 0, rerr)
		}
	}

	if err := tmp.Close(); err != nil {
		return errors.NewFileError(path, "close", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.NewFileError(path, "rename", err)
	}
	return nil
}
