package repository

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"growsense/internal/models"
)

// SignupRepository appends one signup row to the external store. Append is not
// idempotent: calling it twice with the same record writes two rows.
type SignupRepository interface {
	Append(ctx context.Context, record *models.SignupRecord) error
}

type InMemorySignupRepository struct {
	mu     sync.RWMutex
	rows   [][]string
	tracer trace.Tracer
}

func NewInMemorySignupRepository() *InMemorySignupRepository {
	return &InMemorySignupRepository{
		rows:   make([][]string, 0),
		tracer: otel.Tracer("signup-repository"),
	}
}

func (r *InMemorySignupRepository) Append(ctx context.Context, record *models.SignupRecord) error {
	_, span := r.tracer.Start(ctx, "signup.repository.append",
		trace.WithAttributes(
			attribute.String("operation", "memory.write"),
			attribute.String("signup.timestamp", record.Timestamp),
		))
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.rows = append(r.rows, []string{record.Timestamp, record.Name, record.Email, record.Message})

	span.SetAttributes(
		attribute.Int("rows.total", len(r.rows)),
		attribute.Bool("success", true),
	)
	return nil
}

// Rows returns a copy of every appended row in append order.
func (r *InMemorySignupRepository) Rows() [][]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := make([][]string, len(r.rows))
	for i, row := range r.rows {
		rows[i] = append([]string(nil), row...)
	}
	return rows
}
