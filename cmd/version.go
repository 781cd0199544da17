package cmd

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
)

// Set by the release build with -ldflags "-X".
var (
	Version   = "dev"
	Commit    = ""
	BuildDate = ""
)

// buildVersion fills whatever the linker left empty from the module build
// info, so `go install ...@vX` binaries still report a version and commit.
func buildVersion(info *debug.BuildInfo) (version, commit string) {
	version, commit = Version, Commit
	if info == nil {
		return version, commit
	}
	if version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		version = info.Main.Version
	}
	dirty := false
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if commit == "" {
				commit = s.Value
			}
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if len(commit) > 7 {
		commit = commit[:7]
	}
	if dirty && commit != "" {
		commit += "-dirty"
	}
	return version, commit
}

func versionString(info *debug.BuildInfo) string {
	version, commit := buildVersion(info)
	var b strings.Builder
	b.WriteString("compspec " + version)
	if commit != "" {
		b.WriteString(" (" + commit + ")")
	}
	if BuildDate != "" {
		b.WriteString(" built " + BuildDate)
	}
	if info != nil {
		b.WriteString(" " + info.GoVersion)
	}
	return b.String()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the compspec version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			info, _ := debug.ReadBuildInfo()
			fmt.Fprintln(cmd.OutOrStdout(), versionString(info))
		},
	}
}
