package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// DefaultTimeout bounds a single registry request.
const DefaultTimeout = 15 * time.Second

// packument is the subset of a registry package document the tool reads.
type packument struct {
	Name     string                     `json:"name"`
	DistTags map[string]string          `json:"dist-tags"`
	Versions map[string]json.RawMessage `json:"versions"`
}

// HTTPRegistry resolves versions against an npm-compatible registry API.
type HTTPRegistry struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

// HTTPOption configures an HTTPRegistry.
type HTTPOption func(*HTTPRegistry)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(r *HTTPRegistry) {
		r.httpClient = c
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) HTTPOption {
	return func(r *HTTPRegistry) {
		r.userAgent = ua
	}
}

// NewHTTPRegistry creates a client for the registry at baseURL.
func NewHTTPRegistry(baseURL string, opts ...HTTPOption) *HTTPRegistry {
	r := &HTTPRegistry{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		userAgent:  "create-next-shadcn-pwa",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve implements Registry.
func (r *HTTPRegistry) Resolve(ctx context.Context, name, version string) (string, error) {
	if err := ValidatePackageName(name); err != nil {
		return "", err
	}

	doc, err := r.fetchPackument(ctx, name)
	if err != nil {
		return "", &NotFoundError{Name: name, Version: version, Err: err}
	}

	published := make([]string, 0, len(doc.Versions))
	for v := range doc.Versions {
		published = append(published, v)
	}

	resolved, ok := selectVersion(version, published, doc.DistTags)
	if !ok {
		return "", &NotFoundError{Name: name, Version: version}
	}
	return strings.TrimSpace(resolved), nil
}

func (r *HTTPRegistry) fetchPackument(ctx context.Context, name string) (*packument, error) {
	// Scoped names escape the slash: @scope%2Fname.
	endpoint := r.baseURL + "/" + url.PathEscape(name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	// Abbreviated metadata is enough for version resolution.
	req.Header.Set("Accept", "application/vnd.npm.install-v1+json; q=1.0, application/json; q=0.8")
	req.Header.Set("User-Agent", r.userAgent)

	// Support an optional token for private registries.
	if token := os.Getenv("NPM_TOKEN"); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying registry: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("package not published")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("registry returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	var doc packument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("parsing registry JSON: %w", err)
	}
	return &doc, nil
}
