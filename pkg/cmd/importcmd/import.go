package importcmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/iracelog-telemetry-analyzer/log"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/cmd/util"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/service"
)

func NewImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import file...",
		Short: "stores telemetry files in the database",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return importFiles(cmd.Context(), args)
		},
	}
	return cmd
}

func importFiles(ctx context.Context, files []string) error {
	pool, err := util.OpenDB(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	svc := service.NewImportService(pool, util.NewParser())
	var errs []error
	for _, file := range files {
		stored, err := svc.ImportFile(ctx, file)
		switch {
		case errors.Is(err, service.ErrAlreadyImported):
			log.Warn("skipping file", log.String("file", file), log.ErrorField(err))
		case err != nil:
			log.Error("could not import file", log.String("file", file), log.ErrorField(err))
			errs = append(errs, err)
		default:
			log.Debug("stored", log.String("id", stored.ID.String()))
		}
	}
	return errors.Join(errs...)
}
