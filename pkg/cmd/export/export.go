package export

import (
	"github.com/spf13/cobra"

	"github.com/mpapenbr/iracelog-telemetry-analyzer/log"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/cmd/util"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/export"
)

var every int

func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export file outFile",
		Short: "writes the decoded telemetry to a json or yaml file",
		Long: `Writes the decoded telemetry to a json or yaml file.
The format is derived from outFile, append .zst to compress the output.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return exportFile(cmd, args[0], args[1])
		},
	}
	cmd.Flags().IntVar(&every, "every", export.DefaultEvery,
		"keep every n-th telemetry sample (1 keeps all)")
	return cmd
}

func exportFile(cmd *cobra.Command, path, outFile string) error {
	pr, err := util.NewParser().ParseFile(cmd.Context(), path)
	if err != nil {
		return err
	}
	data := export.Downsample(pr, every)
	if err := export.WriteFile(outFile, data); err != nil {
		return err
	}
	log.Info("exported",
		log.String("file", outFile),
		log.Int("samples", len(data.Telemetry)))
	return nil
}
