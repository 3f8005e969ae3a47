// Package registry queries a package registry for published versions and
// validates version pins and dependency sets against it. Two clients are
// provided: HTTPRegistry talks to an npm-compatible registry over HTTP, and
// NPMRegistry shells out to `npm view`. Both resolve exact versions,
// dist-tags, and semver ranges to one concrete published version.
package registry
