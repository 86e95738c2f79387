package migrate

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/iracelog-telemetry-analyzer/log"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/cmd/util"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/config"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/db/migrate"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/utils"
)

func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "performs database migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return startMigration(cmd.Context())
		},
	}
	return cmd
}

func startMigration(ctx context.Context) error {
	// wait for database
	timeout := util.ParseDuration(config.WaitForServices, 60*time.Second)
	postgresAddr := utils.ExtractFromDBURL(config.DB)
	if err := utils.WaitForTCP(ctx, postgresAddr, timeout); err != nil {
		log.Error("database not ready", log.ErrorField(err))
		return err
	}

	if err := migrate.MigrateDb(config.DB); err != nil {
		return err
	}
	version, dirty, err := migrate.Version(config.DB)
	if err != nil {
		return err
	}
	log.Info("Database migrated",
		log.Uint("version", version),
		log.Bool("dirty", dirty))
	return nil
}
