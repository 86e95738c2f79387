package parse

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/cmd/util"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/export"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/report"
)

var every int

func NewParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse file",
		Short: "decodes a telemetry file and prints its metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return parseFile(cmd, args[0])
		},
	}
	cmd.Flags().IntVar(&every, "every", export.DefaultEvery,
		"keep every n-th telemetry sample in json/yaml output")
	return cmd
}

func parseFile(cmd *cobra.Command, path string) error {
	pr, err := util.NewParser().ParseFile(cmd.Context(), path)
	if err != nil {
		return err
	}
	return util.WriteResult(os.Stdout, export.Downsample(pr, every),
		func(w io.Writer) error {
			return report.ParseResult(w, pr)
		})
}
