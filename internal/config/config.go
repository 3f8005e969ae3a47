package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ba86work/create-next-shadcn-pwa/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Config keys.
const (
	KeyTemplateRepo   = "template_repo"
	KeyTemplateRef    = "template_ref"
	KeyRegistryURL    = "registry_url"
	KeyRegistryMode   = "registry_mode"
	KeyPackageManager = "package_manager"
	KeyCacheMaxAge    = "cache_max_age"
	KeyCacheDir       = "cache_dir"
	KeyFetchTimeout   = "fetch_timeout"
	KeyGenerator      = "generator"
)

// Default values for keys that have one.
const (
	DefaultRegistryMode   = "http"
	DefaultPackageManager = "bun"
	DefaultCacheMaxAge    = 24 * time.Hour
	DefaultFetchTimeout   = 2 * time.Minute
	// DefaultGenerator is empty: the generator follows the package manager.
	DefaultGenerator = ""
)

// Settings is the resolved view of every supported key.
type Settings struct {
	TemplateRepo   string
	TemplateRef    string
	RegistryURL    string
	RegistryMode   string
	PackageManager string
	CacheMaxAge    time.Duration
	CacheDir       string
	FetchTimeout   time.Duration
	Generator      string
}

// Dir returns the path to the tool's home directory (~/.create-next-shadcn-pwa/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file.
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()
	setDefaults(viper.GetViper())

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyTemplateRepo, branding.TemplateRepoURL())
	v.SetDefault(KeyTemplateRef, branding.TemplateRef())
	v.SetDefault(KeyRegistryURL, branding.RegistryURL())
	v.SetDefault(KeyRegistryMode, DefaultRegistryMode)
	v.SetDefault(KeyPackageManager, DefaultPackageManager)
	v.SetDefault(KeyCacheMaxAge, DefaultCacheMaxAge)
	v.SetDefault(KeyCacheDir, Dir())
	v.SetDefault(KeyFetchTimeout, DefaultFetchTimeout)
	v.SetDefault(KeyGenerator, DefaultGenerator)
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// Current returns the resolved settings from the global Viper instance.
// Load must have been called first.
func Current() Settings {
	return fromViper(viper.GetViper())
}

func fromViper(v *viper.Viper) Settings {
	s := Settings{
		TemplateRepo:   templateRepo(v),
		TemplateRef:    v.GetString(KeyTemplateRef),
		RegistryURL:    v.GetString(KeyRegistryURL),
		RegistryMode:   v.GetString(KeyRegistryMode),
		PackageManager: v.GetString(KeyPackageManager),
		CacheMaxAge:    v.GetDuration(KeyCacheMaxAge),
		CacheDir:       v.GetString(KeyCacheDir),
		FetchTimeout:   v.GetDuration(KeyFetchTimeout),
		Generator:      v.GetString(KeyGenerator),
	}

	if s.CacheMaxAge <= 0 {
		s.CacheMaxAge = DefaultCacheMaxAge
	}
	if s.FetchTimeout <= 0 {
		s.FetchTimeout = DefaultFetchTimeout
	}
	return s
}

// templateRepo resolves the template URL: <PREFIX>_TEMPLATE_REPO_URL, then
// the template_repo key (env, file, or the branding default).
func templateRepo(v *viper.Viper) string {
	if url := os.Getenv(branding.EnvVar("TEMPLATE_REPO_URL")); url != "" {
		return url
	}
	return v.GetString(KeyTemplateRepo)
}
