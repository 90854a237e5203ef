// Package transform mutates string fields of structs recursively. The
// command layer uses it to normalize configuration loaded from files,
// environment variables and flags.
package transform
