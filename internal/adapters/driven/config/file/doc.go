// Package file implements the settings store over a TOML file in the
// user's config directory.
package file
