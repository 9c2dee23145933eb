package emoji

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"

	"hellabot/pkg/retrylimit"
)

// maxImageBytes is Discord's size limit for an emoji image.
const maxImageBytes = 256 * 1024

// Assets downloads emoji images from the asset host.
type Assets struct {
	base    string
	http    *http.Client
	limiter *retrylimit.AdaptiveLimiter
}

// NewAssets returns an image source rooted at base.
func NewAssets(base string, client *http.Client) *Assets {
	if client == nil {
		client = http.DefaultClient
	}
	return &Assets{
		base:    strings.TrimRight(base, "/"),
		http:    client,
		limiter: retrylimit.NewAdaptiveLimiter(10, 1, 20, 1, 0.5),
	}
}

// AssetError reports a non-200 asset response.
type AssetError struct {
	Code int
	URL  string
}

func (e *AssetError) Error() string   { return fmt.Sprintf("%s: HTTP %d", e.URL, e.Code) }
func (e *AssetError) StatusCode() int { return e.Code }

// DataURI downloads path and encodes it as a base64 data URI.
func (a *Assets) DataURI(ctx context.Context, path string) (string, error) {
	url := a.base + "/" + strings.TrimLeft(path, "/")

	var body []byte
	err := retrylimit.WithRetry(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return retrylimit.Fatal(err)
		}
		resp, err := a.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			serr := &AssetError{Code: resp.StatusCode, URL: url}
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				return serr
			}
			return retrylimit.Fatal(serr)
		}
		body, err = io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
		return err
	}, a.limiter)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", url, err)
	}
	if len(body) > maxImageBytes {
		return "", fmt.Errorf("download %s: image larger than %d bytes", url, maxImageBytes)
	}

	mime := http.DetectContentType(body)
	if !strings.HasPrefix(mime, "image/") {
		mime = "image/png"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(body), nil
}
