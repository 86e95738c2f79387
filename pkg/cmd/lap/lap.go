package lap

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/cmd/util"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/report"
)

func NewLapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lap file lapNumber",
		Short: "extracts the telemetry of a single lap from an .ibt file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lap, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid lap number %q: %w", args[1], err)
			}
			return showLap(cmd, args[0], lap)
		},
	}
	return cmd
}

func showLap(cmd *cobra.Command, path string, lap int) error {
	lt, err := util.NewParser().ParseLapTelemetry(cmd.Context(), path, lap)
	if err != nil {
		return err
	}
	return util.WriteResult(os.Stdout, lt, func(w io.Writer) error {
		return report.LapTelemetry(w, lt)
	})
}
