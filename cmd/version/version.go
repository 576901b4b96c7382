package version

var (
	// overridden via ldflags:
	//  -ldflags "-X 'github.com/beatoz/fxnum-go/cmd/version.Version=$(VER)'"
	Version   = "v0.1.0"
	GitCommit string
)

func String() string {
	if GitCommit != "" {
		return Version + "-" + GitCommit
	}
	return Version
}
