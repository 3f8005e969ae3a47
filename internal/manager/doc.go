// Package manager applies the remote template to a generated project.
//
// One Apply call walks a fixed state machine:
//
//	CheckCache -> CacheHit  -> ValidateDeps -> Overlay -> Done
//	CheckCache -> CacheMiss -> Fetch -> ValidateDeps -> Overlay -> CachePopulate -> Done
//
// Only a failed fetch or a missing template root ends in Aborted. Every
// other problem (bad dependencies, installer failure, cache errors) is
// recorded as a warning on the Outcome and the walk continues.
package manager
