// Package misc holds build time information.
package misc

// Set with -ldflags "-X cssr/misc.version=... -X cssr/misc.githash=..."
var (
	appName = "cssr"
	version = "dev"
	githash = "unknown"
)

func GetAppName() string {
	return appName
}

func GetVersion() string {
	return version
}

func GetGitHash() string {
	return githash
}
