package compileinfo

import (
	"fmt"
	"runtime/debug"

	log "github.com/sirupsen/logrus"
)

type CompileInfo struct {
	Package    string
	GoVersion  string
	Commit     string
	CommitTime string
	Modified   bool
}

func (c CompileInfo) String() string {
	mod := ""
	if c.Modified {
		mod = " Files in the repo were modified after that commit."
	}

	return fmt.Sprintf("This %s binary was built with %s at commit %v at time %v.%s", c.Package, c.GoVersion, c.Commit, c.CommitTime, mod)
}

// Fields returns the build information as structured log fields. Unknown
// values are omitted.
func (c CompileInfo) Fields() log.Fields {
	fields := log.Fields{}
	if c.Package != "" {
		fields["package"] = c.Package
	}
	if c.GoVersion != "" {
		fields["go"] = c.GoVersion
	}
	if c.Commit != "" {
		fields["commit"] = c.Commit
	}
	if c.CommitTime != "" {
		fields["commit_time"] = c.CommitTime
	}
	if c.Modified {
		fields["modified"] = true
	}

	return fields
}

func Get() CompileInfo {
	out := CompileInfo{}

	z, ok := debug.ReadBuildInfo()
	if !ok {
		return out
	}

	out.GoVersion = z.GoVersion
	out.Package = z.Path
	for _, s := range z.Settings {
		switch s.Key {
		case "vcs.revision":
			out.Commit = s.Value
		case "vcs.time":
			out.CommitTime = s.Value
		case "vcs.modified":
			out.Modified = s.Value == "true"
		}
	}

	return out
}

// Log writes the build information to the standard logger, which logs to
// stderr.
func Log() {
	log.WithFields(Get().Fields()).Info("build info")
}
