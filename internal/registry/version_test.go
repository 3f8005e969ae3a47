package registry

import (
	"context"
	"errors"
	"testing"
)

func TestVersionValidator_Latest(t *testing.T) {
	reg := &fakeRegistry{}
	v := NewVersionValidator(reg)

	got, err := v.Validate(context.Background(), "latest", "next")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "latest" {
		t.Errorf("Validate = %q, want %q", got, "latest")
	}
	if reg.calls != 0 {
		t.Errorf("registry calls = %d, want 0", reg.calls)
	}
}

func TestVersionValidator_SyntaxErrorsSkipRegistry(t *testing.T) {
	inputs := []string{
		"invalid",
		"13",
		"13.4",
		"v13.4.0",
		"13.4.0.1",
		"13.4.0-",
		"13.4.0-beta..1",
		"13.4.0+build.5",
		"^13.4.0",
		"Latest",
		"",
		" 13.4.0",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			reg := &fakeRegistry{}
			_, err := NewVersionValidator(reg).Validate(context.Background(), in, "next")

			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if !errors.Is(err, ErrValidation) {
				t.Error("errors.Is(err, ErrValidation) should be true")
			}
			if reg.calls != 0 {
				t.Errorf("registry calls = %d, want 0", reg.calls)
			}
		})
	}
}

func TestVersionValidator_ValidSyntax(t *testing.T) {
	inputs := []string{
		"13.4.0",
		"0.0.0",
		"010.2.3",
		"14.0.0-canary",
		"14.0.0-canary.12",
		"1.2.3-rc-1.x-y",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			if !IsVersionSyntax(in) {
				t.Fatalf("IsVersionSyntax(%q) = false", in)
			}
			reg := &fakeRegistry{}
			_, err := NewVersionValidator(reg).Validate(context.Background(), in, "next")
			if errors.Is(err, ErrValidation) {
				t.Errorf("unexpected syntax error for %q: %v", in, err)
			}
			if reg.calls != 1 {
				t.Errorf("registry calls = %d, want 1", reg.calls)
			}
		})
	}
}

func TestVersionValidator_RegistryHitAndMiss(t *testing.T) {
	reg := &fakeRegistry{published: map[string][]string{
		"next": {"13.4.0", "14.2.3"},
	}}
	v := NewVersionValidator(reg)

	got, err := v.Validate(context.Background(), "14.2.3", "next")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "14.2.3" {
		t.Errorf("Validate = %q, want %q", got, "14.2.3")
	}

	_, err = v.Validate(context.Background(), "13.99.0", "next")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected *NotFoundError, got %v", err)
	}
	if nf.Version != "13.99.0" || nf.Name != "next" {
		t.Errorf("NotFoundError = %+v, want next@13.99.0", nf)
	}
}

func TestVersionValidator_TrimsResolved(t *testing.T) {
	npm := &NPMRegistry{run: func(context.Context, string, ...string) ([]byte, error) {
		return []byte("  13.4.0\n"), nil
	}}
	got, err := NewVersionValidator(npm).Validate(context.Background(), "13.4.0", "next")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "13.4.0" {
		t.Errorf("Validate = %q, want trimmed %q", got, "13.4.0")
	}
}

func TestNodeVersionValidator(t *testing.T) {
	v := &NodeVersionValidator{detect: func(context.Context) (string, error) {
		return "v20.11.1\n", nil
	}}

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"current", "20.11.1", false},
		{"18", "18", false},
		{"18.x", "18.x", false},
		{"18.17", "18.17", false},
		{"18.17.0", "18.17.0", false},
		{"18.x.x", "18.x.x", false},
		{"lts", "", true},
		{"v18", "", true},
		{"18.17.0.1", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := v.Validate(context.Background(), tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Errorf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Validate(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNodeVersionValidator_CurrentFallback(t *testing.T) {
	v := &NodeVersionValidator{detect: func(context.Context) (string, error) {
		return "", errors.New("node not installed")
	}}
	got, err := v.Validate(context.Background(), "current")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "18.x" {
		t.Errorf("Validate(current) = %q, want fallback 18.x", got)
	}
}
