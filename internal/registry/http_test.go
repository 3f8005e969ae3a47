package registry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPRegistry_Resolve(t *testing.T) {
	server := newRegistryServer(t, map[string]packument{
		"next":                 publishedDoc("next", "14.2.3", "13.4.0", "14.0.0-canary.1", "14.2.3"),
		"clsx":                 publishedDoc("clsx", "2.1.1", "1.0.0", "1.2.1", "2.0.0", "2.1.1"),
		"@radix-ui/react-slot": publishedDoc("@radix-ui/react-slot", "1.0.2", "1.0.0", "1.0.2"),
	})
	defer server.Close()

	reg := NewHTTPRegistry(server.URL+"/", WithHTTPClient(server.Client()))

	tests := []struct {
		name    string
		pkg     string
		version string
		want    string
		wantErr error
	}{
		{"exact", "next", "13.4.0", "13.4.0", nil},
		{"prerelease exact", "next", "14.0.0-canary.1", "14.0.0-canary.1", nil},
		{"dist-tag", "next", "latest", "14.2.3", nil},
		{"caret range", "clsx", "^1.0.0", "1.2.1", nil},
		{"tilde range", "clsx", "~2.0.0", "2.0.0", nil},
		{"star", "clsx", "*", "2.1.1", nil},
		{"scoped package", "@radix-ui/react-slot", "^1.0.0", "1.0.2", nil},
		{"unpublished version", "clsx", "9.9.9", "", ErrNotFound},
		{"unsatisfiable range", "clsx", "^3.0.0", "", ErrNotFound},
		{"unknown package", "left-pad-nope", "1.0.0", "", ErrNotFound},
		{"bad name", "Left Pad", "1.0.0", "", ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reg.Resolve(context.Background(), tt.pkg, tt.version)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Resolve error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%s, %s) = %q, want %q", tt.pkg, tt.version, got, tt.want)
			}
		})
	}
}

func TestHTTPRegistry_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	reg := NewHTTPRegistry(server.URL, WithHTTPClient(server.Client()))
	_, err := reg.Resolve(context.Background(), "clsx", "1.0.0")

	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected *NotFoundError for a failed query, got %v", err)
	}
	if nf.Err == nil {
		t.Error("NotFoundError should carry the query failure")
	}
}

func TestHTTPRegistry_SendsUserAgent(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(`{"name":"clsx","dist-tags":{"latest":"1.0.0"},"versions":{"1.0.0":{}}}`))
	}))
	defer server.Close()

	reg := NewHTTPRegistry(server.URL, WithHTTPClient(server.Client()), WithUserAgent("cnsp-test"))
	if _, err := reg.Resolve(context.Background(), "clsx", "1.0.0"); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if gotUA != "cnsp-test" {
		t.Errorf("User-Agent = %q, want %q", gotUA, "cnsp-test")
	}
}
