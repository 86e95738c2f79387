//nolint:whitespace // can't make both editor and linter happy
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/db/mytypes"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/model"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/repository"
)

var selector = `select s.id, s.file_name, s.file_hash, s.format,
	coalesce(s.track,''), coalesce(s.track_short,''), coalesce(s.track_config,''),
	coalesce(s.car,''), coalesce(s.car_path,''), coalesce(s.session_type,''),
	s.best_lap_time, s.sector_times, s.tick_rate, s.duration, s.imported_at
	from telemetry_session s`

// Create stores a new session. ImportedAt is set by the database.
func Create(
	ctx context.Context,
	conn repository.Querier,
	s *model.StoredSession,
) error {
	row := conn.QueryRow(ctx, `
	insert into telemetry_session (
		id, file_name, file_hash, format,
		track, track_short, track_config, car, car_path, session_type,
		best_lap_time, sector_times, tick_rate, duration
	) values (
		$1,$2,$3,$4,
		nullif($5,''),nullif($6,''),nullif($7,''),nullif($8,''),nullif($9,''),
		nullif($10,''),
		$11,$12,$13,$14
	)
	returning imported_at
	`,
		s.ID, s.FileName, s.FileHash, string(s.Format),
		s.Track, s.TrackShort, s.TrackConfig, s.Car, s.CarPath, s.SessionType,
		s.BestLapTime, mytypes.SectorTimes(s.SectorTimes), s.TickRate, s.Duration,
	)
	return row.Scan(&s.ImportedAt)
}

func LoadByID(ctx context.Context, conn repository.Querier, id uuid.UUID) (
	*model.StoredSession, error,
) {
	row := conn.QueryRow(ctx, fmt.Sprintf("%s where s.id=$1", selector), id)
	return readOne(row)
}

func LoadByHash(ctx context.Context, conn repository.Querier, hash string) (
	*model.StoredSession, error,
) {
	row := conn.QueryRow(ctx, fmt.Sprintf("%s where s.file_hash=$1", selector), hash)
	return readOne(row)
}

// LoadAll returns all sessions, most recent import first
func LoadAll(ctx context.Context, conn repository.Querier) (
	[]*model.StoredSession, error,
) {
	return loadMany(ctx, conn,
		fmt.Sprintf("%s order by s.imported_at desc, s.file_name asc", selector))
}

// LoadByTrackAndCar returns the sessions on a track with a car ordered by
// best lap time. Sessions without a lap time are sorted last.
func LoadByTrackAndCar(
	ctx context.Context,
	conn repository.Querier,
	track, car string,
) ([]*model.StoredSession, error) {
	return loadMany(ctx, conn,
		fmt.Sprintf(`%s where s.track=$1 and s.car=$2
		order by (s.best_lap_time <= 0), s.best_lap_time asc`, selector),
		track, car)
}

// deletes an entry from the database, returns number of rows deleted.
func DeleteByID(ctx context.Context, conn repository.Querier, id uuid.UUID) (int, error) {
	cmdTag, err := conn.Exec(ctx, "delete from telemetry_session where id=$1", id)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

func loadMany(ctx context.Context, conn repository.Querier, sql string, args ...any) (
	[]*model.StoredSession, error,
) {
	rows, err := conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := make([]*model.StoredSession, 0)
	for rows.Next() {
		item, err := readData(rows)
		if err != nil {
			return nil, err
		}
		ret = append(ret, item)
	}
	return ret, rows.Err()
}

func readOne(row pgx.Row) (*model.StoredSession, error) {
	item, err := readData(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNoData
	}
	return item, err
}

func readData(row pgx.Row) (*model.StoredSession, error) {
	var item model.StoredSession
	var format string
	var sectors mytypes.SectorTimes
	if err := row.Scan(
		&item.ID,
		&item.FileName,
		&item.FileHash,
		&format,
		&item.Track,
		&item.TrackShort,
		&item.TrackConfig,
		&item.Car,
		&item.CarPath,
		&item.SessionType,
		&item.BestLapTime,
		&sectors,
		&item.TickRate,
		&item.Duration,
		&item.ImportedAt,
	); err != nil {
		return nil, err
	}
	item.Format = model.FormatKind(format)
	item.SectorTimes = sectors
	return &item, nil
}
