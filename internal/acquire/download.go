package acquire

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/kinoite/kipper/internal/config"
	"github.com/kinoite/kipper/internal/httputil"
	"github.com/kinoite/kipper/internal/log"
	"github.com/kinoite/kipper/internal/progress"
)

// newDownloadHTTPClient creates a secure HTTP client for downloads using
// the shared httputil package for SSRF protection and security hardening.
func newDownloadHTTPClient() *http.Client {
	return httputil.NewSecureClient(httputil.ClientOptions{
		Timeout: config.GetAPITimeout(),
	})
}

// download fetches url into destPath. HTTPS is enforced for every download
// to prevent tampering in transit, and compressed transfer encodings are
// refused so the bytes on disk match the published archive.
func download(ctx context.Context, client *http.Client, url, destPath string) error {
	if !strings.HasPrefix(url, "https://") {
		return fmt.Errorf("download URL must use HTTPS, got: %s", url)
	}

	log.Default().Debug("download starting", "url", url, "dest", destPath)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept-Encoding", "identity")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %s", resp.Status)
	}
	if encoding := resp.Header.Get("Content-Encoding"); encoding != "" && encoding != "identity" {
		return fmt.Errorf("compressed responses not supported (got %s)", encoding)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() { _ = out.Close() }()

	if progress.ShouldShowProgress() && resp.ContentLength > 0 {
		pw := progress.NewWriter(out, resp.ContentLength, os.Stdout)
		defer pw.Finish()
		if _, err := io.Copy(pw, resp.Body); err != nil {
			return fmt.Errorf("failed to write file: %w", err)
		}
		return nil
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}
