// Package scaffold covers everything around the template overlay that
// touches the generated project: the ProjectRequest describing the user's
// choices, the external create-next-app invocation, the .nvmrc pin, and
// the next-steps and manual-steps text rendered from embedded templates.
package scaffold
