package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"hushcut/internal/config"
	"hushcut/internal/fileutil"
	"hushcut/internal/queue"
)

func newQueueCommand(ctx *commandContext) *cobra.Command {
	queueCmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect and maintain the processing queue",
	}

	queueCmd.AddCommand(newQueueListCommand(ctx))
	queueCmd.AddCommand(newQueueAddCommand(ctx))
	queueCmd.AddCommand(newQueueRetryCommand(ctx))
	queueCmd.AddCommand(newQueueClearCommand(ctx))
	queueCmd.AddCommand(newQueueHealthCommand(ctx))

	return queueCmd
}

func newQueueListCommand(ctx *commandContext) *cobra.Command {
	var statusFilter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List queue items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			var statuses []queue.Status
			if trimmed := strings.TrimSpace(statusFilter); trimmed != "" {
				status, ok := queue.ParseStatus(trimmed)
				if !ok {
					return fmt.Errorf("unknown status %q", trimmed)
				}
				statuses = append(statuses, status)
			}

			items, err := store.List(cmd.Context(), statuses...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, "Queue is empty.")
				return nil
			}

			titler := cases.Title(language.Und)
			rows := make([][]string, 0, len(items))
			for _, item := range items {
				rows = append(rows, []string{
					strconv.FormatInt(item.ID, 10),
					item.SourcePath,
					titler.String(string(item.Status)),
					fmt.Sprintf("%.0f%%", item.ProgressPercent),
					itemDetail(item),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Source", "Status", "Progress", "Detail"},
				rows, 0, 3,
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&statusFilter, "status", "", "Only show items with this status")
	return cmd
}

func itemDetail(item *queue.Item) string {
	if item.Status == queue.StatusFailed && item.ErrorMessage != "" {
		return item.ErrorMessage
	}
	if item.Status == queue.StatusCompleted {
		return item.OutputPath
	}
	return item.ProgressMessage
}

func newQueueAddCommand(ctx *commandContext) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "add <video>",
		Short: "Enqueue a video for the watch daemon to process",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			if !fileutil.IsVideoFile(path) {
				return fmt.Errorf("unsupported video file %q (supported: %s)", path, strings.Join(fileutil.VideoExtensions(), " "))
			}
			if _, err := os.Stat(path); err != nil {
				return fmt.Errorf("input file: %w", err)
			}

			output := strings.TrimSpace(outputPath)
			if output != "" {
				if output, err = config.ExpandPath(output); err != nil {
					return err
				}
				if !fileutil.ValidOutputPath(output) {
					return fmt.Errorf("output must end in .mp4 or .mkv")
				}
			}

			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			item, err := store.NewFile(cmd.Context(), path, output)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Enqueued %s as item %d\n", path, item.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Destination file for the cleaned video")
	return cmd
}

func newQueueRetryCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "retry",
		Short: "Move failed items back to pending",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			count, err := store.RetryFailed(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Requeued %d failed item(s)\n", count)
			return nil
		},
	}
}

func newQueueClearCommand(ctx *commandContext) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove completed and failed items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			count, err := store.Clear(cmd.Context(), all)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d item(s)\n", count)
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Remove every item, including pending and in-flight ones")
	return cmd
}

func newQueueHealthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show queue counts per lifecycle state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			summary, err := store.Health(cmd.Context())
			if err != nil {
				return err
			}

			rows := [][]string{
				{"Pending", strconv.Itoa(summary.Pending)},
				{"Processing", strconv.Itoa(summary.Processing)},
				{"Completed", strconv.Itoa(summary.Completed)},
				{"Failed", strconv.Itoa(summary.Failed)},
				{"Total", strconv.Itoa(summary.Total)},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"State", "Count"}, rows, 1))
			return nil
		},
	}
}
