// Package cache owns the on-disk template cache under the tool's home
// directory: a cache.json metadata file, the template/ tree it describes,
// and the cache.lock file that serializes access between invocations.
//
// A cached template is reused only while its metadata parses, is younger
// than the configured maximum age, and its tree is present. Population
// stages the new tree next to the old one, swaps it in, and writes the
// metadata last so an interrupted populate never yields a cache hit.
package cache
