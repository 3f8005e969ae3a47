// Package pkgmanager drives the JavaScript package manager that installs
// template dependencies into a generated project.
//
// Supported managers are bun, npm, pnpm and yarn. Dispatch returns the
// Installer for a manager name; unknown names yield an Installer whose
// every call fails.
package pkgmanager
