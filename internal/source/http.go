package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
)

// HTTPProvider fetches a document from a fixed URL
type HTTPProvider struct {
	url    string
	client *http.Client
}

// NewHTTPProvider creates a provider using http.DefaultClient
func NewHTTPProvider(rawURL string) *HTTPProvider {
	return &HTTPProvider{url: rawURL, client: http.DefaultClient}
}

// ResolveURL joins a document path such as "/100_data.json" onto a base URL
func ResolveURL(base, docPath string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base url %q: %w", base, err)
	}
	ref, err := url.Parse(docPath)
	if err != nil {
		return "", fmt.Errorf("invalid document path %q: %w", docPath, err)
	}
	return u.ResolveReference(ref).String(), nil
}

// Name returns the last path element of the URL
func (p *HTTPProvider) Name() string {
	u, err := url.Parse(p.url)
	if err != nil || u.Path == "" {
		return p.url
	}
	return path.Base(u.Path)
}

// Fetch performs a GET and returns the body of a 2xx response
func (p *HTTPProvider) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("GET %s: %s", p.url, resp.Status)
	}

	return io.ReadAll(resp.Body)
}
