package version

// version is set at build time with -ldflags "-X ...version.version=".
var version = "dev"

func Get() string {
	return version
}
