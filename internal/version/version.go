// Package version holds the build version, set with
//
//	go build -ldflags "-X github.com/ramonehamilton/card-binder/internal/version.Version=v1.2.3"
package version

import "fmt"

// Name is the service name reported by the API and CLI.
const Name = "card-binder"

// Version defaults to "dev" when not stamped at build time.
var Version = "dev"

// GetVersion returns the current application version.
func GetVersion() string {
	return Version
}

// String returns "name version".
func String() string {
	return fmt.Sprintf("%s %s", Name, Version)
}
