// Package config manages user-level settings stored at
// ~/.create-next-shadcn-pwa/config.yaml. It provides functions to load, read,
// and write configuration keys such as the template repository, the package
// registry, and the cache freshness window.
package config
