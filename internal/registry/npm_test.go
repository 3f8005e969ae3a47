package registry

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestNPMRegistry_Resolve(t *testing.T) {
	var gotArgs []string
	reg := &NPMRegistry{run: func(_ context.Context, name string, args ...string) ([]byte, error) {
		gotArgs = append([]string{name}, args...)
		return []byte("clsx@1.2.0 '1.2.0'\nclsx@1.2.1 '1.2.1'\n"), nil
	}}

	got, err := reg.Resolve(context.Background(), "clsx", "^1.2.0")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "1.2.1" {
		t.Errorf("Resolve = %q, want %q", got, "1.2.1")
	}
	want := []string{"npm", "view", "clsx@^1.2.0", "version"}
	if !reflect.DeepEqual(gotArgs, want) {
		t.Errorf("args = %v, want %v", gotArgs, want)
	}
}

func TestNPMRegistry_Miss(t *testing.T) {
	tests := []struct {
		name string
		out  string
		err  error
	}{
		{"command failure", "", errors.New("exit status 1")},
		{"empty output", "\n", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := &NPMRegistry{run: func(context.Context, string, ...string) ([]byte, error) {
				return []byte(tt.out), tt.err
			}}
			_, err := reg.Resolve(context.Background(), "left-pad", "9999.0.0")
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
		})
	}
}
