package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"ConstructionWatch/internal/domain"
	"ConstructionWatch/internal/ports"
)

// Schema creates the suggestions table used by PostgresStore.
const Schema = `CREATE TABLE IF NOT EXISTS suggestions (
    id                TEXT PRIMARY KEY,
    type              TEXT NOT NULL,
    status            TEXT NOT NULL,
    proposed_data     JSONB NOT NULL,
    proposed_geometry JSONB,
    content_hash      TEXT NOT NULL UNIQUE,
    source_confidence DOUBLE PRECISION NOT NULL,
    created_at        TIMESTAMPTZ NOT NULL,
    updated_at        TIMESTAMPTZ NOT NULL
)`

const suggestionsTable = "suggestions"

var suggestionColumns = []string{
	"id", "type", "status", "proposed_data", "proposed_geometry",
	"content_hash", "source_confidence", "created_at", "updated_at",
}

// PostgresStore persists suggestions into Postgres.
type PostgresStore struct {
	db  *sql.DB
	qb  sq.StatementBuilderType
	now func() time.Time
}

var _ ports.SuggestionStore = (*PostgresStore)(nil)

// NewPostgresStore wires a sql.DB implementation.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{
		db:  db,
		qb:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		now: time.Now,
	}
}

// OpenPostgres opens a lib/pq connection and verifies it.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// EnsureSchema creates the table when missing.
func (r *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// FindExistingHashes returns the subset of hashes already stored.
func (r *PostgresStore) FindExistingHashes(ctx context.Context, hashes []string) (map[string]struct{}, error) {
	result := make(map[string]struct{})
	if len(hashes) == 0 {
		return result, nil
	}

	query, args, err := r.qb.Select("content_hash").
		From(suggestionsTable).
		Where("content_hash = ANY(?)", pq.Array(hashes)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query hashes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var hash string
		if err := rows.Scan(&hash); err != nil {
			return nil, fmt.Errorf("scan hash: %w", err)
		}
		result[hash] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return result, nil
}

// CreateSuggestion inserts s and returns the stored record.
func (r *PostgresStore) CreateSuggestion(ctx context.Context, s domain.NewSuggestion) (domain.Suggestion, error) {
	data, err := json.Marshal(s.ProposedData)
	if err != nil {
		return domain.Suggestion{}, fmt.Errorf("encode proposed data: %w", err)
	}
	// A nil interface is the only value lib/pq sends as NULL.
	var geometry any
	if s.ProposedGeometry != nil {
		encoded, err := json.Marshal(s.ProposedGeometry)
		if err != nil {
			return domain.Suggestion{}, fmt.Errorf("encode geometry: %w", err)
		}
		geometry = encoded
	}

	now := r.now().UTC()
	created := domain.Suggestion{
		ID:               uuid.NewString(),
		Type:             s.Type,
		Status:           s.Status,
		ProposedData:     s.ProposedData,
		ProposedGeometry: s.ProposedGeometry,
		ContentHash:      s.ContentHash,
		SourceConfidence: s.SourceConfidence,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	query, args, err := r.qb.Insert(suggestionsTable).
		Columns(suggestionColumns...).
		Values(created.ID, string(created.Type), string(created.Status), data, geometry,
			created.ContentHash, created.SourceConfidence, now, now).
		ToSql()
	if err != nil {
		return domain.Suggestion{}, fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return domain.Suggestion{}, fmt.Errorf("insert suggestion: %w", err)
	}
	return created, nil
}

// GetSuggestion returns ports.ErrNotFound for unknown ids.
func (r *PostgresStore) GetSuggestion(ctx context.Context, id string) (domain.Suggestion, error) {
	query, args, err := r.qb.Select(suggestionColumns...).
		From(suggestionsTable).
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return domain.Suggestion{}, fmt.Errorf("build query: %w", err)
	}

	var (
		s             domain.Suggestion
		typ, status   string
		data, geoJSON []byte
	)
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&s.ID, &typ, &status, &data, &geoJSON,
		&s.ContentHash, &s.SourceConfidence, &s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Suggestion{}, fmt.Errorf("suggestion %s: %w", id, ports.ErrNotFound)
	}
	if err != nil {
		return domain.Suggestion{}, fmt.Errorf("query suggestion: %w", err)
	}

	s.Type = domain.SuggestionType(typ)
	s.Status = domain.SuggestionStatus(status)
	if err := json.Unmarshal(data, &s.ProposedData); err != nil {
		return domain.Suggestion{}, fmt.Errorf("decode proposed data: %w", err)
	}
	if len(geoJSON) > 0 {
		var g domain.PointGeometry
		if err := json.Unmarshal(geoJSON, &g); err != nil {
			return domain.Suggestion{}, fmt.Errorf("decode geometry: %w", err)
		}
		s.ProposedGeometry = &g
	}
	return s, nil
}

// UpdateSuggestionStatus performs a compare-and-set on the status column.
func (r *PostgresStore) UpdateSuggestionStatus(ctx context.Context, id string, from, to domain.SuggestionStatus) error {
	query, args, err := r.qb.Update(suggestionsTable).
		Set("status", string(to)).
		Set("updated_at", r.now().UTC()).
		Where("id = ? AND status = ?", id, string(from)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected > 0 {
		return nil
	}

	if _, err := r.GetSuggestion(ctx, id); err != nil {
		return err
	}
	return fmt.Errorf("suggestion %s is no longer %s: %w", id, from, ports.ErrStatusConflict)
}
