package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mpapenbr/iracelog-telemetry-analyzer/log"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/model"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/parser"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/repository"
	laprepos "github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/repository/lap"
	sessionrepos "github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/repository/session"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/utils"
)

var ErrAlreadyImported = errors.New("file already imported")

type ImportService struct {
	pool   *pgxpool.Pool
	parser *parser.Parser
	logger *log.Logger
	newID  func() uuid.UUID
}

func NewImportService(pool *pgxpool.Pool, p *parser.Parser) *ImportService {
	return &ImportService{
		pool:   pool,
		parser: p,
		logger: log.Default().Named("import"),
		newID:  uuid.New,
	}
}

// ImportFile parses the file at path and stores the session with its laps.
// ErrAlreadyImported is returned if a file with the same content exists.
func (s *ImportService) ImportFile(ctx context.Context, path string) (
	*model.StoredSession, error,
) {
	hash, err := utils.HashFile(path)
	if err != nil {
		return nil, err
	}
	if _, err := sessionrepos.LoadByHash(ctx, s.pool, hash); err == nil {
		return nil, fmt.Errorf("%s: %w", path, ErrAlreadyImported)
	} else if !errors.Is(err, repository.ErrNoData) {
		return nil, err
	}

	pr, err := s.parser.ParseFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return s.Store(ctx, hash, pr)
}

// Store persists an already parsed file
func (s *ImportService) Store(ctx context.Context, hash string, pr *model.ParseResult) (
	*model.StoredSession, error,
) {
	stored := model.NewStoredSession(s.newID(), hash, pr)
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if err := sessionrepos.Create(ctx, tx, stored); err != nil {
			if repository.IsUniqueViolation(err) {
				return fmt.Errorf("%s: %w", stored.FileName, ErrAlreadyImported)
			}
			return err
		}
		_, err := laprepos.CreateAll(ctx, tx, stored.ID, pr.Metadata.LapTimes)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("imported file",
		log.String("file", stored.FileName),
		log.String("id", stored.ID.String()),
		log.Int("laps", len(pr.Metadata.LapTimes)))
	return stored, nil
}
