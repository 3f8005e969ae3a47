// Package manifest parses the template's package.json and validates JSON
// documents the tool reads (package.json, cache metadata) against embedded
// JSON Schemas. Dependencies keeps the declaration order of the source
// document so validation errors are reported in that order.
package manifest
