package main

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
)

// Set via -ldflags at release time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the rerun version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), versionLine())
	},
}

func unset(s, placeholder string) bool {
	s = strings.TrimSpace(s)
	return s == "" || s == placeholder
}

// buildStamp returns the commit and date, falling back to the VCS settings
// the go tool embeds when ldflags did not set them.
func buildStamp(settings []debug.BuildSetting) (string, string) {
	c, d := strings.TrimSpace(commit), strings.TrimSpace(date)
	for _, s := range settings {
		v := strings.TrimSpace(s.Value)
		if v == "" {
			continue
		}
		switch s.Key {
		case "vcs.revision":
			if unset(c, "none") {
				c = v
			}
		case "vcs.time":
			if unset(d, "unknown") {
				d = v
			}
		}
	}
	if unset(c, "none") {
		c = ""
	} else if len(c) > 7 {
		c = c[:7]
	}
	if unset(d, "unknown") {
		d = ""
	}
	return c, d
}

func versionLine() string {
	if version != "dev" {
		return "rerun version " + version
	}

	var settings []debug.BuildSetting
	if bi, ok := debug.ReadBuildInfo(); ok {
		settings = bi.Settings
	}
	c, d := buildStamp(settings)

	switch {
	case c == "" && d == "":
		return "rerun version dev"
	case c == "":
		return fmt.Sprintf("rerun version dev (built %s)", d)
	case d == "":
		return fmt.Sprintf("rerun version dev (commit %s)", c)
	}
	return fmt.Sprintf("rerun version dev (commit %s, built %s)", c, d)
}
