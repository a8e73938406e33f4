package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/t2dm-treatment-advisor/internal/domain"
)

// EvaluationRepository persists evaluation audit records. Only the record
// hash and the fired rule identifiers are stored, never patient attributes.
type EvaluationRepository struct {
	db  *pgxpool.Pool
	log *logrus.Logger
}

// NewEvaluationRepository creates a new evaluation audit repository
func NewEvaluationRepository(db *pgxpool.Pool, logger *logrus.Logger) *EvaluationRepository {
	return &EvaluationRepository{
		db:  db,
		log: logger,
	}
}

// Save inserts an evaluation audit record
func (r *EvaluationRepository) Save(ctx context.Context, record *domain.EvaluationRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO evaluations (
			id, record_hash, fired_rule_ids, fallback_only, duration_us, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6
		)`

	_, err := r.db.Exec(ctx, query,
		record.ID,
		record.RecordHash,
		record.FiredRuleIDs,
		record.FallbackOnly,
		record.Duration.Microseconds(),
		record.CreatedAt,
	)

	if err != nil {
		r.log.WithFields(logrus.Fields{
			"evaluation_id": record.ID,
			"record_hash":   record.RecordHash,
			"error":         err,
		}).Error("Failed to save evaluation record")
		return fmt.Errorf("saving evaluation record: %w", err)
	}

	r.log.WithFields(logrus.Fields{
		"evaluation_id": record.ID,
		"fired_rules":   len(record.FiredRuleIDs),
		"fallback_only": record.FallbackOnly,
	}).Debug("Evaluation record saved")

	return nil
}

// ListRecent returns the most recent evaluation records, newest first
func (r *EvaluationRepository) ListRecent(ctx context.Context, limit int) ([]*domain.EvaluationRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, record_hash, fired_rule_ids, fallback_only, duration_us, created_at
		FROM evaluations
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"limit": limit,
			"error": err,
		}).Error("Failed to list evaluation records")
		return nil, fmt.Errorf("listing evaluation records: %w", err)
	}
	defer rows.Close()

	var records []*domain.EvaluationRecord
	for rows.Next() {
		var record domain.EvaluationRecord
		var durationUS int64

		if err := rows.Scan(
			&record.ID,
			&record.RecordHash,
			&record.FiredRuleIDs,
			&record.FallbackOnly,
			&durationUS,
			&record.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning evaluation record: %w", err)
		}

		record.Duration = time.Duration(durationUS) * time.Microsecond
		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating evaluation records: %w", err)
	}

	return records, nil
}

// CountSince returns the number of evaluations recorded since the given time
func (r *EvaluationRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		"SELECT COUNT(*) FROM evaluations WHERE created_at >= $1", since,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting evaluation records: %w", err)
	}
	return count, nil
}
