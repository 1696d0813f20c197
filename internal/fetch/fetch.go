// package fetch implements the single-shot file downloader.
//
// One GET per candidate URL, whole body buffered in memory. There is no
// retry, resume, or streaming; a failed fetch just advances the pipeline to
// the next search result.
package fetch

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/desertthunder/scorefinder/internal/shared"
)

const defaultTimeout = 15 * time.Second

// maxBodySize caps the buffered download at 32 MiB; notation files are small.
const maxBodySize = 32 << 20

// Download holds a fetched payload and what the server told us about it.
type Download struct {
	Body        []byte
	Filename    string
	ContentType string
	URL         string
}

// IsHTML reports whether the payload looks like an HTML page rather than a
// notation file, either by declared content type or by sniffing the body.
func (d *Download) IsHTML() bool {
	if strings.Contains(d.ContentType, "text/html") {
		return true
	}
	head := strings.ToLower(string(d.Body[:min(len(d.Body), 256)]))
	return strings.Contains(head, "<!doctype html") || strings.Contains(head, "<html")
}

// Downloader fetches files over HTTP.
type Downloader struct {
	httpClient *http.Client
}

// NewDownloader creates a Downloader with the default timeout.
func NewDownloader(client *http.Client) *Downloader {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Downloader{httpClient: client}
}

// Fetch performs a single GET against rawURL and buffers the response body.
// Non-2xx statuses are download failures.
func (d *Downloader) Fetch(ctx context.Context, rawURL string) (*Download, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrDownloadFailed, err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrDownloadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d for %s", shared.ErrDownloadFailed, resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", shared.ErrDownloadFailed, err)
	}

	return &Download{
		Body:        body,
		Filename:    inferFilename(rawURL, resp.Header.Get("Content-Disposition")),
		ContentType: strings.ToLower(resp.Header.Get("Content-Type")),
		URL:         rawURL,
	}, nil
}

// inferFilename picks a filename from the Content-Disposition header, falling
// back to the URL's final path segment, then to a generated default.
func inferFilename(rawURL, disposition string) string {
	if disposition != "" {
		if _, params, err := mime.ParseMediaType(disposition); err == nil {
			if name := path.Base(params["filename"]); name != "" && name != "." && name != "/" {
				return name
			}
		}
	}

	if u, err := url.Parse(rawURL); err == nil {
		if name := path.Base(u.Path); name != "" && name != "." && name != "/" {
			return name
		}
	}

	return "download_" + shared.GenerateID()[:8]
}
