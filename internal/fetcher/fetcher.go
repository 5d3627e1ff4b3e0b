
package fetcher

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultUserAgent = "gfp-rankings/1.0 (+https://github.com/gfp-rankings)"

// Document is the raw page handed to the extractor.
type Document struct {
	URL         string
	FinalURL    string
	ContentType string
	Body        []byte
	Elapsed     time.Duration
}

type HTTPClient struct {
	client    *http.Client
	sizeCap   int64
	userAgent string
}

func NewHTTPClient(timeout, dialTimeout time.Duration, sizeCap int64, userAgent string) *HTTPClient {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   dialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &HTTPClient{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		sizeCap:   sizeCap,
		userAgent: userAgent,
	}
}

// Fetch issues a single GET and returns the whole body. Any non-2xx status,
// non-html payload or body larger than the size cap is a *FetchError.
func (h *HTTPClient) Fetch(ctx context.Context, rawURL string) (Document, error) {
	start := time.Now()
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return Document{}, &FetchError{URL: rawURL, Err: errInvalidURL}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Document{}, &FetchError{URL: rawURL, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set("User-Agent", h.userAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		return Document{}, &FetchError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Document{}, &FetchError{URL: rawURL, StatusCode: resp.StatusCode, Err: errBadStatus}
	}

	contentType := resp.Header.Get("Content-Type")
	mediaType, _, _ := mime.ParseMediaType(contentType)
	// some servers omit the header; accept that
	if !strings.Contains(mediaType, "text/html") && !strings.Contains(mediaType, "application/xhtml+xml") && mediaType != "" {
		return Document{}, &FetchError{URL: rawURL, StatusCode: resp.StatusCode, Err: errNotHTML}
	}

	var body io.Reader = resp.Body
	if strings.EqualFold(resp.Header.Get("Content-Encoding"), "gzip") {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return Document{}, &FetchError{URL: rawURL, StatusCode: resp.StatusCode, Err: fmt.Errorf("gzip: %w", err)}
		}
		defer gz.Close()
		body = gz
	}

	// read one byte past the cap so an oversize body is detected
	data, err := io.ReadAll(io.LimitReader(body, h.sizeCap+1))
	if err != nil {
		return Document{}, &FetchError{URL: rawURL, StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}
	if int64(len(data)) > h.sizeCap {
		return Document{}, &FetchError{URL: rawURL, StatusCode: resp.StatusCode, Err: errTooLarge}
	}

	return Document{
		URL:         rawURL,
		FinalURL:    resp.Request.URL.String(),
		ContentType: contentType,
		Body:        data,
		Elapsed:     time.Since(start),
	}, nil
}

var (
	ErrFetch = errors.New("fetch failed")

	errInvalidURL = errors.New("invalid url")
	errBadStatus  = errors.New("unexpected http status")
	errNotHTML    = errors.New("non-html content")
	errTooLarge   = errors.New("body exceeds size cap")
)

// FetchError wraps every failure of Fetch. errors.Is(err, ErrFetch) holds
// for all of them.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 && errors.Is(e.Err, errBadStatus) {
		return fmt.Sprintf("fetch %s: http status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool { return target == ErrFetch }
