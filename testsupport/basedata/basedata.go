package basedata

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/model"
	laprepos "github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/repository/lap"
	sessionrepos "github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/repository/session"
)

var sampleID = uuid.MustParse("7d4a0f5e-4c1b-4b7a-9d0e-2f3c5a6b7c8d")

func TestTime() time.Time {
	t, _ := time.Parse(time.RFC3339, "2024-04-28T11:10:12Z")
	return t
}

func SampleSession() *model.StoredSession {
	return &model.StoredSession{
		ID:          sampleID,
		FileName:    "mx5 mx52016_spa 2024-04-28 11-10-12.ibt",
		FileHash:    "0123456789abcdef",
		Format:      model.FormatIBT,
		Track:       "Circuit de Spa-Francorchamps",
		TrackShort:  "Spa",
		TrackConfig: "Grand Prix Pits",
		Car:         "Mazda MX-5 Cup",
		CarPath:     "mx5 mx52016",
		SessionType: "Practice",
		BestLapTime: 94.799,
		SectorTimes: []float64{31.2, 32.4, 31.199},
		TickRate:    60,
		Duration:    300,
	}
}

func SampleLaps() []model.LapRecord {
	return []model.LapRecord{
		{Lap: 1, Time: 95.123},
		{Lap: 2, Time: 94.8},
		{Lap: 3, Time: 94.799},
	}
}

func CreateSampleSession(db *pgxpool.Pool) *model.StoredSession {
	ctx := context.Background()
	s := SampleSession()
	err := pgx.BeginFunc(ctx, db, func(tx pgx.Tx) error {
		if err := sessionrepos.Create(ctx, tx, s); err != nil {
			return err
		}
		_, err := laprepos.CreateAll(ctx, tx, s.ID, SampleLaps())
		return err
	})
	if err != nil {
		log.Fatalf("createSampleSession: %v\n", err)
	}
	return s
}
