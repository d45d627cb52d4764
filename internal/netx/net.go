// Package netx contains plain HTTP helpers used next to the gRPC transport.
package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxDownloadSize bounds the archive a client will accept from a presigned URL.
const maxDownloadSize = 64 << 20

var httpClient = &http.Client{Timeout: 60 * time.Second}

// DownloadFromPresignedURL fetches the object behind a presigned S3 GET URL.
func DownloadFromPresignedURL(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("download failed: %s; body: %s", resp.Status, string(b))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadSize+1))
	if err != nil {
		return nil, err
	}
	if len(body) > maxDownloadSize {
		return nil, fmt.Errorf("download exceeds %d bytes", maxDownloadSize)
	}
	return body, nil
}
