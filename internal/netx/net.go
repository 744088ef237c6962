// Package netx contains plain HTTP helpers shared by the retrieval sources.
package netx

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/cdnkeeper/internal/common"
)

// ProgressFunc receives the number of bytes read so far and the expected
// total (-1 when the server did not send Content-Length).
type ProgressFunc func(done, total int64)

const (
	// MaxBodySize bounds a payload body read by GetText.
	MaxBodySize int64 = 1 << 30
	// maxPrealloc bounds the buffer reserved up front from Content-Length.
	maxPrealloc int64 = 16 * common.MiB
)

// NewClient returns a client whose timeout covers connecting, the TLS
// handshake and waiting for response headers, but not reading the body.
// Body reads are bounded by the request context instead, so a slow but
// steady download of a large payload is not cut off.
func NewClient(timeout time.Duration) *http.Client {
	t := http.DefaultTransport.(*http.Transport).Clone()
	if timeout > 0 {
		t.DialContext = (&net.Dialer{Timeout: timeout, KeepAlive: 30 * time.Second}).DialContext
		t.TLSHandshakeTimeout = timeout
		t.ResponseHeaderTimeout = timeout
	}
	return &http.Client{Transport: t}
}

// GetText performs a GET and returns the response body as a string. Bodies
// larger than MaxBodySize are refused.
//
// 404 maps to common.ErrNotFound; any other non-200 status and any transport
// failure map to common.ErrUnavailable. Failures are not retried.
func GetText(ctx context.Context, client *http.Client, url string, header http.Header, progress ProgressFunc) (string, error) {
	return GetTextLimit(ctx, client, url, header, MaxBodySize, progress)
}

// GetTextLimit is GetText with an explicit body size limit in bytes.
func GetTextLimit(ctx context.Context, client *http.Client, url string, header http.Header, limit int64, progress ProgressFunc) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if err := CheckStatus(resp); err != nil {
		return "", err
	}

	if resp.ContentLength > limit {
		return "", fmt.Errorf("%w: body of %d bytes exceeds limit of %d", common.ErrUnavailable, resp.ContentLength, limit)
	}

	var sb strings.Builder
	if resp.ContentLength > 0 {
		sb.Grow(int(min(resp.ContentLength, maxPrealloc)))
	}

	var r io.Reader = resp.Body
	if progress != nil {
		r = &countingReader{r: resp.Body, total: resp.ContentLength, fn: progress}
	}

	n, err := io.Copy(&sb, io.LimitReader(r, limit+1))
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: reading body: %v", common.ErrUnavailable, err)
	}
	if n > limit {
		return "", fmt.Errorf("%w: body exceeds limit of %d bytes", common.ErrUnavailable, limit)
	}
	return sb.String(), nil
}

// CheckStatus converts a non-200 response into a sentinel-wrapped error that
// includes a short excerpt of the body.
func CheckStatus(resp *http.Response) error {
	if resp.StatusCode == http.StatusOK {
		return nil
	}

	b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", common.ErrNotFound, resp.Request.URL.Path)
	}
	return fmt.Errorf("%w: %s; body: %s", common.ErrUnavailable, resp.Status, strings.TrimSpace(string(b)))
}

type countingReader struct {
	r     io.Reader
	done  int64
	total int64
	fn    ProgressFunc
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		c.done += int64(n)
		c.fn(c.done, c.total)
	}
	return n, err
}
