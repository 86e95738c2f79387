//nolint:dupl,funlen // ok for this test code
package session_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/model"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/repository"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/repository/session"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/testsupport/basedata"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/testsupport/testdb"
)

func TestCreate(t *testing.T) {
	pool := testdb.InitTestDb(t)
	basedata.CreateSampleSession(pool)

	tests := []struct {
		name    string
		session *model.StoredSession
		wantErr bool
	}{
		{
			name: "new entry",
			session: &model.StoredSession{
				ID:       uuid.New(),
				FileName: "other.blap",
				FileHash: "fedcba9876543210",
				Format:   model.FormatBLAP,
			},
		},
		{
			name: "duplicate hash",
			session: &model.StoredSession{
				ID:       uuid.New(),
				FileName: "copy.ibt",
				FileHash: basedata.SampleSession().FileHash,
				Format:   model.FormatIBT,
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := session.Create(context.Background(), pool, tt.session)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, repository.IsUniqueViolation(err))
				return
			}
			require.NoError(t, err)
			assert.False(t, tt.session.ImportedAt.IsZero())
		})
	}
}

func TestLoadByID(t *testing.T) {
	pool := testdb.InitTestDb(t)
	sample := basedata.CreateSampleSession(pool)
	ctx := context.Background()

	got, err := session.LoadByID(ctx, pool, sample.ID)
	require.NoError(t, err)
	assert.Equal(t, sample.Track, got.Track)
	assert.Equal(t, sample.Car, got.Car)
	assert.Equal(t, sample.SectorTimes, got.SectorTimes)
	assert.Equal(t, model.FormatIBT, got.Format)
	assert.InDelta(t, sample.BestLapTime, got.BestLapTime, 1e-9)

	_, err = session.LoadByID(ctx, pool, uuid.New())
	assert.ErrorIs(t, err, repository.ErrNoData)
}

func TestUnknownValuesStayEmpty(t *testing.T) {
	pool := testdb.InitTestDb(t)
	ctx := context.Background()
	s := &model.StoredSession{
		ID:       uuid.New(),
		FileName: "lap.olap",
		FileHash: "1111111111111111",
		Format:   model.FormatOLAP,
	}
	require.NoError(t, session.Create(ctx, pool, s))

	got, err := session.LoadByHash(ctx, pool, s.FileHash)
	require.NoError(t, err)
	assert.Empty(t, got.Track)
	assert.Empty(t, got.Car)
	assert.Empty(t, got.SectorTimes)
}

func TestLoadByTrackAndCar(t *testing.T) {
	pool := testdb.InitTestDb(t)
	sample := basedata.CreateSampleSession(pool)
	ctx := context.Background()
	for i, lapTime := range []float64{0, 93.5} {
		s := basedata.SampleSession()
		s.ID = uuid.New()
		s.FileHash = []string{"aaaa", "bbbb"}[i]
		s.BestLapTime = lapTime
		require.NoError(t, session.Create(ctx, pool, s))
	}

	got, err := session.LoadByTrackAndCar(ctx, pool, sample.Track, sample.Car)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.InDelta(t, 93.5, got[0].BestLapTime, 1e-9)
	assert.InDelta(t, sample.BestLapTime, got[1].BestLapTime, 1e-9)
	assert.Zero(t, got[2].BestLapTime)

	all, err := session.LoadAll(ctx, pool)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestDeleteByID(t *testing.T) {
	pool := testdb.InitTestDb(t)
	sample := basedata.CreateSampleSession(pool)
	ctx := context.Background()

	n, err := session.DeleteByID(ctx, pool, sample.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = session.DeleteByID(ctx, pool, sample.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
