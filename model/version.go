// Package model defines the data structures shared by the wrapper services.
package model

// VersionInfo contains build-time metadata about the wrapper binary.
type VersionInfo struct {
	Version string
	Commit  string
	Date    string
}
