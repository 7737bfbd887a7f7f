package cmd

import (
	"fmt"
	"strings"

	"github.com/chainvue/chainvue-cli/internal/output"
)

// Set at build time with -ldflags "-X".
var (
	version = "dev"
	commit  = ""
	date    = ""
)

// VersionString renders the version with whatever build metadata is known,
// e.g. "1.4.0 (abc1234 2026-01-02)".
func VersionString() string {
	v := strings.TrimSpace(version)
	if v == "" {
		v = "dev"
	}

	var meta []string

	for _, s := range []string{commit, date} {
		if s = strings.TrimSpace(s); s != "" {
			meta = append(meta, s)
		}
	}

	if len(meta) == 0 {
		return v
	}

	return fmt.Sprintf("%s (%s)", v, strings.Join(meta, " "))
}

type VersionCmd struct{}

func (c *VersionCmd) Run(flags *RootFlags) error {
	if flags.JSON {
		return output.WriteJSON(stdout, map[string]string{
			"version": strings.TrimSpace(version),
			"commit":  strings.TrimSpace(commit),
			"date":    strings.TrimSpace(date),
		})
	}

	_, err := fmt.Fprintln(stdout, VersionString())

	return err
}
