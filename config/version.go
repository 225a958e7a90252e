package config

import "fmt"

// Set at build time with
// -ldflags "-X github.com/getzep/corenlp/config.Version=... -X ...CommitHash=... -X ...BuildTime=..."
var (
	Version       = "dev"
	CommitHash    = "n/a"
	BuildTime     = "n/a"
	VersionString = fmt.Sprintf("corenlp %s-%s (%s)", Version, CommitHash, BuildTime)
)
