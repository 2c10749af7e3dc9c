package commands

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlkit/internal/cli/output"
	"github.com/leapstack-labs/sqlkit/pkg/adapter"
	"github.com/leapstack-labs/sqlkit/pkg/dialect"
)

// BuildInfo is the version stamped into the binary at build time.
type BuildInfo struct {
	Version   string `json:"version"`
	BuildDate string `json:"build_date"`
	GitCommit string `json:"git_commit"`
}

type versionReport struct {
	BuildInfo
	Go       string   `json:"go"`
	Platform string   `json:"platform"`
	Dialects []string `json:"dialects"`
	Adapters []string `json:"adapters"`
}

// NewVersionCommand creates the version command.
func NewVersionCommand(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display sqlkit version, build information and the registered dialects and adapters.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := NewCommandContextWithoutRegistry(cmd).Renderer
			report := versionReport{
				BuildInfo: info,
				Go:        runtime.Version(),
				Platform:  runtime.GOOS + "/" + runtime.GOARCH,
				Dialects:  dialect.List(),
				Adapters:  adapter.ListAdapters(),
			}
			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(report)
			}

			r.Println(fmt.Sprintf("sqlkit v%s", info.Version))
			r.Println("Configuration-driven SQL table toolkit")
			r.Println("")
			r.Println(fmt.Sprintf("commit:   %s (%s)", info.GitCommit, info.BuildDate))
			r.Println(fmt.Sprintf("go:       %s %s", report.Go, report.Platform))
			r.Println(fmt.Sprintf("dialects: %s", strings.Join(report.Dialects, ", ")))
			r.Println(fmt.Sprintf("adapters: %s", strings.Join(report.Adapters, ", ")))
			return nil
		},
	}
}
