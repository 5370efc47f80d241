// Package version exposes the application name and build metadata.
package version

import (
	"fmt"
	"runtime/debug"
)

const AppName = "teambot"

// Info describes the running build.
type Info struct {
	Version   string
	Revision  string
	GoVersion string
}

// Get reads build metadata embedded by the Go toolchain.
func Get() Info {
	info := Info{Version: "dev"}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	info.GoVersion = bi.GoVersion
	if v := bi.Main.Version; v != "" && v != "(devel)" {
		info.Version = v
	}
	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 7 {
			info.Revision = s.Value[:7]
		}
	}
	return info
}

func (i Info) String() string {
	if i.Revision == "" {
		return fmt.Sprintf("%s %s", AppName, i.Version)
	}
	return fmt.Sprintf("%s %s (%s)", AppName, i.Version, i.Revision)
}
