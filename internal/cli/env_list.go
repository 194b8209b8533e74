package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/drodnitchi/terminus-build-tools-plugin/internal/multidev"
)

// envRow is one row of `env list` output. Created marshals as RFC 3339 in
// JSON mode and renders humanized in the table.
type envRow struct {
	ID      string    `json:"id"`
	Type    string    `json:"type"`
	Created time.Time `json:"created"`
}

// envKind labels an environment id by the deletion rule that would govern
// it: "ci", "pr", or "-" for fixed environments.
func envKind(id string) string {
	switch {
	case multidev.CIPattern().Match(id):
		return "ci"
	case multidev.PRPattern().Match(id):
		return "pr"
	default:
		return "-"
	}
}

func newEnvListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list [site]",
		Aliases: []string{"ls"},
		Short:   "List build environments and their ages",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			site, err := resolveSite(cmd, args)
			if err != nil {
				return err
			}

			pattern, _ := cmd.Flags().GetString("pattern")
			if pattern != "all" && pattern != "ci" && pattern != "pr" {
				return multidev.NewUsageError("invalid --pattern %q (valid: ci, pr, all)", pattern)
			}

			client, err := newPlatformClient()
			if err != nil {
				return err
			}

			envs, err := client.ListEnvironments(cmd.Context(), site)
			if err != nil {
				return err
			}

			rows := make([]envRow, 0, len(envs))
			for _, env := range envs {
				kind := envKind(env.ID)
				if pattern != "all" && kind != pattern {
					continue
				}
				rows = append(rows, envRow{ID: env.ID, Type: kind, Created: env.CreatedAt})
			}

			if jsonEnabled(cmd) {
				return writeJSON(cmd.OutOrStdout(), rows)
			}

			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No environments found") //nolint:errcheck // best-effort output
				return nil
			}

			tw := table.NewWriter()
			tw.SetOutputMirror(cmd.OutOrStdout())
			tw.AppendHeader(table.Row{"ID", "Type", "Created"})
			for _, row := range rows {
				tw.AppendRow(table.Row{row.ID, row.Type, humanize.Time(row.Created)})
			}
			tw.Render()

			slog.Debug("list complete", "site", site, "count", len(rows))
			return nil
		},
	}
	cmd.Flags().String("pattern", "all", "Filter by environment type: ci, pr, or all")
	cmd.Flags().Bool("json", false, "Output as JSON")
	return cmd
}
