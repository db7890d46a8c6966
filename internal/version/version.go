// Package version provides version information and build details for lon-tz binaries.
package version

import (
	"fmt"
	"runtime"
	"strings"
)

const (
	// Name is the program name printed in version strings
	Name = "lon-tz"
	// ShortCommitHashLength defines the length for shortened commit hashes
	ShortCommitHashLength = 7
	// UnknownValue represents unknown build information
	UnknownValue = "unknown"
)

// Build-time variables set by linker flags
var (
	Version     = "dev"
	Commit      = UnknownValue
	Date        = UnknownValue
	BuiltBy     = UnknownValue
	BuildNumber = "0"
)

// GetVersion returns the version, with the build number when one is set
func GetVersion() string {
	if BuildNumber != "0" && BuildNumber != "" {
		return fmt.Sprintf("%s (build %s)", Version, BuildNumber)
	}
	return Version
}

// GetFullVersionInfo returns a two-line description: version and commit,
// then how and for which platform the binary was built
func GetFullVersionInfo() string {
	info := Get()

	versionLine := fmt.Sprintf("%s %s", Name, GetVersion())
	if known(info.Commit) {
		versionLine += fmt.Sprintf(" (%s)", shortCommit(info.Commit))
	}

	var buildInfo []string
	if known(info.Date) {
		buildInfo = append(buildInfo, "built "+strings.ReplaceAll(info.Date, "_", " "))
	}
	if known(info.BuiltBy) {
		buildInfo = append(buildInfo, "by "+info.BuiltBy)
	}
	buildInfo = append(buildInfo, "with "+info.GoVersion, "for "+info.Platform)

	return versionLine + "\n" + strings.Join(buildInfo, " ")
}

// BuildInfo contains build information
type BuildInfo struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	Date      string `json:"date" yaml:"date"`
	BuiltBy   string `json:"built_by" yaml:"built_by"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Platform  string `json:"platform" yaml:"platform"`
}

// Get returns the build information
func Get() *BuildInfo {
	return &BuildInfo{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		BuiltBy:   BuiltBy,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// Short returns the program name and version
func (bi *BuildInfo) Short() string {
	return fmt.Sprintf("%s %s", Name, bi.Version)
}

func known(value string) bool {
	return value != "" && value != UnknownValue
}

func shortCommit(commit string) string {
	if len(commit) > ShortCommitHashLength {
		return commit[:ShortCommitHashLength]
	}
	return commit
}
