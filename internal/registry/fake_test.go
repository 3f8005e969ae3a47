package registry

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// fakeRegistry serves lookups from a name -> published versions table and
// counts calls.
type fakeRegistry struct {
	published map[string][]string
	calls     int
}

func (f *fakeRegistry) Resolve(_ context.Context, name, version string) (string, error) {
	f.calls++
	resolved, ok := selectVersion(version, f.published[name], map[string]string{})
	if !ok {
		return "", &NotFoundError{Name: name, Version: version}
	}
	return resolved, nil
}

// newRegistryServer serves packuments for the given packages.
func newRegistryServer(t *testing.T, packages map[string]packument) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.EscapedPath(), "/")
		name = strings.Replace(name, "%2F", "/", 1)
		doc, ok := packages[name]
		if !ok {
			http.Error(w, `{"error":"Not found"}`, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(doc); err != nil {
			t.Errorf("encoding packument: %v", err)
		}
	}))
}

func publishedDoc(name, latest string, versions ...string) packument {
	doc := packument{
		Name:     name,
		DistTags: map[string]string{"latest": latest},
		Versions: map[string]json.RawMessage{},
	}
	for _, v := range versions {
		doc.Versions[v] = json.RawMessage(`{}`)
	}
	return doc
}
