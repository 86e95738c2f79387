package sessions

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/cmd/util"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/model"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/report"
	sessionrepos "github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/repository/session"
)

var (
	track string
	car   string
)

func NewSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "lists imported sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listSessions(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&track, "track", "", "only sessions on this track")
	cmd.Flags().StringVar(&car, "car", "", "only sessions with this car")
	cmd.MarkFlagsRequiredTogether("track", "car")
	return cmd
}

func listSessions(ctx context.Context) error {
	pool, err := util.OpenDB(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	var data []*model.StoredSession
	if track != "" {
		data, err = sessionrepos.LoadByTrackAndCar(ctx, pool, track, car)
	} else {
		data, err = sessionrepos.LoadAll(ctx, pool)
	}
	if err != nil {
		return err
	}
	return util.WriteResult(os.Stdout, data, func(w io.Writer) error {
		return report.Sessions(w, data)
	})
}
