package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"health_service/internal/domain/model"
)

type ClassificationRecorder interface {
	SaveClassification(ctx context.Context, record model.ClassificationRecord) error
}

type PostgresClassificationRecorder struct {
	db *sqlx.DB
}

func NewPostgresClassificationRecorder(db *sqlx.DB) *PostgresClassificationRecorder {
	return &PostgresClassificationRecorder{db: db}
}

func (r *PostgresClassificationRecorder) SaveClassification(ctx context.Context, record model.ClassificationRecord) error {
	const query = `
		INSERT INTO classifications (
			id, imc, pasos, cluster_id, label, recorded_at
		) VALUES (
			:id, :imc, :pasos, :cluster_id, :label, :recorded_at
		)`

	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("failed to insert classification: %w", err)
	}
	return nil
}

// NopRecorder drops every record. It is used when recording is disabled.
type NopRecorder struct{}

func (NopRecorder) SaveClassification(context.Context, model.ClassificationRecord) error {
	return nil
}
