package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"hushcut/internal/config"
	"hushcut/internal/fileutil"
	"hushcut/internal/media/probe"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "probe <video>",
		Short: "Inspect a video file and report what processing it needs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

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

			prober := probe.New(cfg.FFprobeBinary(), cfg.Workflow.ProbeTimeout)
			info, err := prober.Inspect(cmd.Context(), path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderProbeTable(info))

			if reasons := info.PreprocessReasons(); len(reasons) > 0 {
				fmt.Fprintf(out, "Preprocessing recommended: %s\n", strings.Join(reasons, ", "))
			} else {
				fmt.Fprintln(out, "No preprocessing needed.")
			}
			return nil
		},
	}
}

func renderProbeTable(info probe.VideoInfo) string {
	titler := cases.Title(language.Und)
	rows := [][]string{
		{"Codec", displayCodec(titler, info.Codec)},
		{"Resolution", info.Resolution()},
		{"Frame rate", fmt.Sprintf("%.2f fps", info.FPS)},
		{"Duration", info.DurationString()},
		{"Bitrate", fmt.Sprintf("%d kbps", info.BitrateKbps)},
		{"Audio", displayCodec(titler, info.AudioCodec)},
		{"Variable frame rate", yesNo(info.VariableFrameRate)},
	}
	return renderTable([]string{"Property", "Value"}, rows)
}

// displayCodec uppercases short codec identifiers and title-cases the rest so
// "h264" renders as "H264" but "unknown" renders as "Unknown".
func displayCodec(titler cases.Caser, codec string) string {
	codec = strings.TrimSpace(codec)
	if codec == "" {
		return "Unknown"
	}
	if len(codec) <= 4 {
		return strings.ToUpper(codec)
	}
	return titler.String(codec)
}
