package version

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/cmd/util"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/version"
)

type info struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit"  yaml:"commit"`
	Date    string `json:"date"    yaml:"date"`
}

func NewVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "prints version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data := info{
				Version: version.Version,
				Commit:  version.Commit,
				Date:    version.Date,
			}
			return util.WriteResult(os.Stdout, data, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, version.FullVersion)
				return err
			})
		},
	}
	return cmd
}
