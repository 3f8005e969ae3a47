package branding

import "testing"

func TestEnvVar(t *testing.T) {
	tests := []struct {
		suffix string
		want   string
	}{
		{"cache_dir", "CNSP_CACHE_DIR"},
		{"TEMPLATE_REPO_URL", "CNSP_TEMPLATE_REPO_URL"},
	}
	for _, tt := range tests {
		if got := EnvVar(tt.suffix); got != tt.want {
			t.Errorf("EnvVar(%q) = %q, want %q", tt.suffix, got, tt.want)
		}
	}
}

func TestEmbeddedDefaults(t *testing.T) {
	if CLIName() == "" {
		t.Error("CLIName should not be empty")
	}
	if HomeDir() != ".create-next-shadcn-pwa" {
		t.Errorf("HomeDir = %q, want %q", HomeDir(), ".create-next-shadcn-pwa")
	}
	if TemplateRepoURL() == "" {
		t.Error("TemplateRepoURL should not be empty")
	}
}
