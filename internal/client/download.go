package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
)

const defaultDownloadName = "download.pdf"

// Download streams the file behind a work's url_download into dir and
// returns the written path.
func (c *Client) Download(ctx context.Context, urlPath, dir string) (string, error) {
	if urlPath == "" {
		return "", fmt.Errorf("work has no download link")
	}

	req, err := c.newRequest(ctx, http.MethodGet, urlPath, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/pdf")

	resp, err := c.send(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		body, _ := io.ReadAll(resp.Body)
		return "", &APIError{Op: "download", Status: resp.StatusCode, Message: failureMessage(resp.StatusCode, body)}
	}

	name := downloadName(urlPath)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating download directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".scriptura-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}

	dest := filepath.Join(dir, name)
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return "", fmt.Errorf("moving download into place: %w", err)
	}
	return dest, nil
}

// downloadName is the last path element of urlPath, or download.pdf when
// that element cannot name a file.
func downloadName(urlPath string) string {
	p := urlPath
	if u, err := url.Parse(urlPath); err == nil {
		p = u.Path
	}
	switch name := path.Base(p); name {
	case "", ".", "..", "/":
		return defaultDownloadName
	default:
		return name
	}
}
