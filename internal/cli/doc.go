// Package cli defines the Cobra command tree. The root command scaffolds a
// project; the cache, doctor, config and version subcommands each live in
// their own file. Command implementations delegate to internal packages for
// business logic and only handle flag parsing, I/O formatting, and user
// interaction.
package cli
