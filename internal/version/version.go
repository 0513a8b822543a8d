// Package version holds build metadata, overridden at link time with
// -ldflags "-X github.com/MrSnakeDoc/pnptools/internal/version.Version=...".
package version

import (
	"runtime"
	"time"
)

var (
	Version   = "dev"                           // ex: v0.1.0
	Commit    = "none"                          // ex: abcd123
	BuildDate = time.Now().Format(time.RFC3339) // ex: 2026-10-18T18:42:00Z
	GoVersion = runtime.Version()               // go version
)
