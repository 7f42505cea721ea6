package version

// Version represents the current version of unisearch
const Version = "0.9.0"

// BuildVersion returns the version string for display
func BuildVersion() string {
	return "unisearch version " + Version
}

// APIVersion returns just the version number for API responses
func APIVersion() string {
	return Version
}
