// Package types defines the Actor contract, interaction steps, run
// configuration, and the standard error values shared by the content type
// registry packages.
package types
