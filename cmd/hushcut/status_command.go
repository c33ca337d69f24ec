package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"hushcut/internal/deps"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show tool availability, directories, and queue health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := isTerminal(out)

			printSection(out, "Tools", colorize)
			statuses := deps.CheckBinaries(deps.Requirements(cfg))
			for _, status := range statuses {
				kind := statusOK
				message := status.Command
				if !status.Available {
					kind = statusError
					if status.Optional {
						kind = statusWarn
					}
					message = status.Detail
				}
				fmt.Fprintln(out, renderStatusLine(status.Name, kind, message, colorize))
			}
			if missing := deps.MissingRequired(statuses); len(missing) > 0 {
				fmt.Fprintln(out)
				fmt.Fprintf(out, "Install the missing tools before processing: %v\n", missing)
			}

			fmt.Fprintln(out)
			printSection(out, "Directories", colorize)
			dirs := []struct {
				label string
				path  string
			}{
				{"Inbox", cfg.Paths.InboxDir},
				{"Output", cfg.Paths.OutputDir},
				{"Staging", cfg.Paths.StagingDir},
				{"Logs", cfg.Paths.LogDir},
			}
			for _, dir := range dirs {
				fmt.Fprintln(out, renderStatusLine(dir.label, statusInfo, dir.path, colorize))
			}

			fmt.Fprintln(out)
			printSection(out, "Queue", colorize)
			store, err := ctx.openStore()
			if err != nil {
				fmt.Fprintln(out, renderStatusLine("Database", statusError, err.Error(), colorize))
				return nil
			}
			defer store.Close()

			summary, err := store.Health(cmd.Context())
			if err != nil {
				fmt.Fprintln(out, renderStatusLine("Database", statusError, err.Error(), colorize))
				return nil
			}
			fmt.Fprintln(out, renderStatusLine("Database", statusOK, store.Path(), colorize))
			fmt.Fprintln(out, renderStatusLine("Pending", statusInfo, fmt.Sprintf("%d", summary.Pending), colorize))
			fmt.Fprintln(out, renderStatusLine("Processing", statusInfo, fmt.Sprintf("%d", summary.Processing), colorize))
			failedKind := statusInfo
			if summary.Failed > 0 {
				failedKind = statusWarn
			}
			fmt.Fprintln(out, renderStatusLine("Failed", failedKind, fmt.Sprintf("%d", summary.Failed), colorize))
			fmt.Fprintln(out, renderStatusLine("Completed", statusInfo, fmt.Sprintf("%d", summary.Completed), colorize))
			return nil
		},
	}
}

func printSection(out io.Writer, title string, colorize bool) {
	for _, line := range renderSectionHeader(title, colorize) {
		fmt.Fprintln(out, line)
	}
}
