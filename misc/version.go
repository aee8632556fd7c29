// Package misc keeps build time information.
package misc

// Values below are overwritten by the linker (-ldflags -X).
var (
	appName = "md2doc"
	version = "dev"
	gitHash = "unknown"
)

func GetAppName() string {
	return appName
}

func GetVersion() string {
	return version
}

func GetGitHash() string {
	return gitHash
}
