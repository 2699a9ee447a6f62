package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ysalama/plantdoc/internal/domain"
)

// HistoryStore persists the per-session detection history.
type HistoryStore struct {
	db *sql.DB
}

func NewHistoryStore(db *sql.DB) *HistoryStore {
	return &HistoryStore{db: db}
}

func (s *HistoryStore) Create(ctx context.Context, sessionID, plantName, scientificName, kind, disease string) (*domain.DetectionRecord, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO detections (session_id, plant_name, scientific_name, kind, disease)
		VALUES (?, ?, ?, ?, ?)
	`, sessionID, plantName, scientificName, kind, disease)
	if err != nil {
		return nil, fmt.Errorf("failed to create detection record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *HistoryStore) GetByID(ctx context.Context, id int64) (*domain.DetectionRecord, error) {
	rec := &domain.DetectionRecord{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, session_id, plant_name, scientific_name, kind, disease, created_at
		FROM detections WHERE id = ?
	`, id).Scan(&rec.ID, &rec.SessionID, &rec.PlantName, &rec.ScientificName, &rec.Kind, &rec.Disease, &rec.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get detection record: %w", err)
	}
	return rec, nil
}

// ListBySession returns the session's history, most recent first.
func (s *HistoryStore) ListBySession(ctx context.Context, sessionID string) ([]*domain.DetectionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, plant_name, scientific_name, kind, disease, created_at
		FROM detections WHERE session_id = ?
		ORDER BY created_at DESC, id DESC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list detection records: %w", err)
	}
	defer rows.Close()

	records := make([]*domain.DetectionRecord, 0)
	for rows.Next() {
		rec := &domain.DetectionRecord{}
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.PlantName, &rec.ScientificName, &rec.Kind, &rec.Disease, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan detection record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read detection records: %w", err)
	}
	return records, nil
}

// ClearBySession deletes the session's history (explicit user action only).
func (s *HistoryStore) ClearBySession(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM detections WHERE session_id = ?`, sessionID)
	if err != nil {
		return fmt.Errorf("failed to clear detection history: %w", err)
	}
	return nil
}
