package compare

import (
	"io"
	"os"

	"github.com/aarondl/opt/omit"
	"github.com/spf13/cobra"

	"github.com/mpapenbr/iracelog-telemetry-analyzer/log"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/chart"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/cmd/util"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/compare"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/report"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/service"
)

var (
	driverLap    int
	referenceLap int
	chartFile    string
	bins         int
	maxIssues    int
)

func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare driverFile referenceFile",
		Short: "compares a driver lap against a reference lap",
		Long: `Compares a driver lap against a reference lap.
Without lap numbers the fastest recorded lap of an .ibt file is used.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return compareLaps(cmd, args[0], args[1])
		},
	}
	cmd.Flags().IntVar(&driverLap, "driver-lap", 0,
		"lap of the driver file (.ibt only, default: fastest lap)")
	cmd.Flags().IntVar(&referenceLap, "reference-lap", 0,
		"lap of the reference file (.ibt only, default: fastest lap)")
	cmd.Flags().StringVar(&chartFile, "chart", "",
		"write a speed trace to this file (.png, .svg or .html)")
	cmd.Flags().IntVar(&bins, "bins", compare.DefaultBins,
		"number of distance bins used for alignment")
	cmd.Flags().IntVar(&maxIssues, "max-issues", compare.DefaultMaxIssues,
		"maximum number of reported issues")
	return cmd
}

func compareLaps(cmd *cobra.Command, driverFile, referenceFile string) error {
	svc := service.NewAnalysisService(
		util.NewParser(),
		compare.New(compare.WithBins(bins), compare.WithMaxIssues(maxIssues)))

	driver := service.LapRef{Path: driverFile}
	if cmd.Flags().Changed("driver-lap") {
		driver.Lap = omit.From(driverLap)
	}
	reference := service.LapRef{Path: referenceFile}
	if cmd.Flags().Changed("reference-lap") {
		reference.Lap = omit.From(referenceLap)
	}

	cr, err := svc.CompareLaps(cmd.Context(), driver, reference)
	if err != nil {
		return err
	}
	if chartFile != "" {
		if err := chart.WriteFile(chartFile, cr); err != nil {
			return err
		}
		log.Info("chart written", log.String("file", chartFile))
	}
	return util.WriteResult(os.Stdout, cr, func(w io.Writer) error {
		return report.Comparison(w, cr)
	})
}
