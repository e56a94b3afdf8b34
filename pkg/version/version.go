// Package version exposes build metadata injected with -ldflags.
package version

// Set at build time:
//
//	go build -ldflags "-X github.com/rshade/vscroll/pkg/version.version=v1.2.3"
//
//nolint:gochecknoglobals // ldflags targets must be package variables
var (
	version = "dev"
	commit  = "none"
)

// GetVersion returns the build version, "dev" for local builds.
func GetVersion() string {
	return version
}

// GetCommit returns the git commit the binary was built from.
func GetCommit() string {
	return commit
}
