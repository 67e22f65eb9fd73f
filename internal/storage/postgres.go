package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"bizfinder/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const schema = `
CREATE TABLE IF NOT EXISTS businesses (
	search_id    TEXT             NOT NULL,
	position     INT              NOT NULL,
	name         TEXT             NOT NULL,
	lat          DOUBLE PRECISION NOT NULL,
	lon          DOUBLE PRECISION NOT NULL,
	phone        TEXT,
	address      TEXT,
	city         TEXT,
	state        TEXT,
	country      TEXT,
	postal_code  TEXT,
	website      TEXT,
	provider_ids JSONB            NOT NULL,
	rating       DOUBLE PRECISION,
	categories   TEXT[],
	record       JSONB            NOT NULL,
	updated_at   TIMESTAMPTZ      NOT NULL DEFAULT now(),
	PRIMARY KEY (search_id, position)
)`

const upsertBusiness = `
INSERT INTO businesses (
	search_id, position, name, lat, lon, phone, address, city, state, country,
	postal_code, website, provider_ids, rating, categories, record
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
ON CONFLICT (search_id, position) DO UPDATE SET
	name = EXCLUDED.name,
	lat = EXCLUDED.lat,
	lon = EXCLUDED.lon,
	phone = EXCLUDED.phone,
	address = EXCLUDED.address,
	city = EXCLUDED.city,
	state = EXCLUDED.state,
	country = EXCLUDED.country,
	postal_code = EXCLUDED.postal_code,
	website = EXCLUDED.website,
	provider_ids = EXCLUDED.provider_ids,
	rating = EXCLUDED.rating,
	categories = EXCLUDED.categories,
	record = EXCLUDED.record,
	updated_at = now()`

// DB is the part of *pgxpool.Pool the store uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// PostgresStore keeps one row per business of every search result.
type PostgresStore struct {
	db     DB
	logger *zap.Logger
}

// NewPostgresPool opens a connection pool for databaseURL and checks it.
func NewPostgresPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach postgres: %w", err)
	}
	return pool, nil
}

func NewPostgresStore(db DB, logger *zap.Logger) *PostgresStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostgresStore{db: db, logger: logger}
}

// EnsureSchema creates the businesses table when it is missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// UpsertResult writes every business of result in one batch. Rows are keyed
// by search id and position, so storing a result twice is harmless.
func (s *PostgresStore) UpsertResult(ctx context.Context, result *models.SearchResult) error {
	if len(result.Businesses) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for i, b := range result.Businesses {
		args, err := businessRow(result.SearchID, i, b)
		if err != nil {
			return err
		}
		batch.Queue(upsertBusiness, args...)
	}

	br := s.db.SendBatch(ctx, batch)
	for range result.Businesses {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("upserting businesses of search %s: %w", result.SearchID, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("closing batch: %w", err)
	}

	s.logger.Debug("upserted businesses",
		zap.String("search_id", result.SearchID),
		zap.Int("rows", len(result.Businesses)),
	)
	return nil
}

func businessRow(searchID string, position int, b *models.Business) ([]any, error) {
	ids, err := json.Marshal(b.IDs)
	if err != nil {
		return nil, fmt.Errorf("encoding provider ids: %w", err)
	}
	record, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("encoding business %q: %w", b.Name, err)
	}
	var rating *float64
	if r, ok := b.AverageRating(); ok {
		rating = &r
	}
	return []any{
		searchID, position, b.Name, b.Coordinates.Lat, b.Coordinates.Lon,
		nullable(b.Phone), nullable(b.Address), nullable(b.City), nullable(b.State), nullable(b.Country),
		nullable(b.PostalCode), nullable(b.Website), ids, rating, b.FlattenedCategories(), record,
	}, nil
}

// nullable maps the empty string to SQL NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
