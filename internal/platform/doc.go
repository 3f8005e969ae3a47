// Package platform provides cross-platform filesystem operations. Ops is the
// single capability through which the rest of the tool copies and removes
// file trees; New selects the implementation for the running OS once, so
// callers never branch on runtime.GOOS themselves. Symlinks are recreated
// during copies; on Windows without developer mode they fall back to file
// copies with a .target sidecar.
package platform
