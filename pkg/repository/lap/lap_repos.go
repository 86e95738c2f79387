//nolint:whitespace // can't make both editor and linter happy
package lap

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/model"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/repository"
)

const selector = `select id, session_id, lap, lap_time from telemetry_lap`

// CreateAll stores the laps of a session, returns the number of stored rows
func CreateAll(
	ctx context.Context,
	conn repository.Querier,
	sessionID uuid.UUID,
	laps []model.LapRecord,
) (int, error) {
	count := 0
	for _, l := range laps {
		if _, err := conn.Exec(ctx,
			"insert into telemetry_lap (session_id, lap, lap_time) values ($1,$2,$3)",
			sessionID, l.Lap, l.Time); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// LoadBySessionID returns the laps of a session ordered by lap number
func LoadBySessionID(
	ctx context.Context,
	conn repository.Querier,
	sessionID uuid.UUID,
) ([]*model.StoredLap, error) {
	rows, err := conn.Query(ctx,
		fmt.Sprintf("%s where session_id=$1 order by lap asc", selector), sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := make([]*model.StoredLap, 0)
	for rows.Next() {
		var item model.StoredLap
		if err := scan(&item, rows); err != nil {
			return nil, err
		}
		ret = append(ret, &item)
	}
	return ret, rows.Err()
}

// LoadFastest returns the fastest stored lap of a session
func LoadFastest(
	ctx context.Context,
	conn repository.Querier,
	sessionID uuid.UUID,
) (*model.StoredLap, error) {
	row := conn.QueryRow(ctx,
		fmt.Sprintf("%s where session_id=$1 order by lap_time asc, lap asc limit 1",
			selector),
		sessionID)
	var item model.StoredLap
	if err := scan(&item, row); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNoData
		}
		return nil, err
	}
	return &item, nil
}

// deletes the laps of a session, returns number of rows deleted.
func DeleteBySessionID(
	ctx context.Context,
	conn repository.Querier,
	sessionID uuid.UUID,
) (int, error) {
	cmdTag, err := conn.Exec(ctx, "delete from telemetry_lap where session_id=$1",
		sessionID)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

func scan(e *model.StoredLap, row pgx.Row) error {
	return row.Scan(&e.ID, &e.SessionID, &e.Lap, &e.LapTime)
}
