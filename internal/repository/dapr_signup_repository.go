package repository

import (
	"context"
	"encoding/json"
	"fmt"

	dapr "github.com/dapr/go-sdk/client"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"growsense/internal/models"
)

// BindingInvoker is the part of dapr.Client the repository needs.
type BindingInvoker interface {
	InvokeOutputBinding(ctx context.Context, in *dapr.InvokeBindingRequest) error
}

// DaprSignupRepository hands each row to a Dapr output binding, for
// deployments where the sidecar fronts the signup sink.
type DaprSignupRepository struct {
	client      BindingInvoker
	tracer      trace.Tracer
	bindingName string
}

func NewDaprSignupRepository(client BindingInvoker, bindingName string) *DaprSignupRepository {
	return &DaprSignupRepository{
		client:      client,
		tracer:      otel.Tracer("dapr.repository"),
		bindingName: bindingName,
	}
}

func (r *DaprSignupRepository) Append(ctx context.Context, record *models.SignupRecord) error {
	ctx, span := r.tracer.Start(ctx, "signup.repository.append",
		trace.WithAttributes(
			attribute.String("operation", "binding.write"),
			attribute.String("dapr.binding", r.bindingName),
			attribute.String("signup.timestamp", record.Timestamp),
		))
	defer span.End()

	data, err := json.Marshal(record.Row())
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to marshal signup row: %w", err)
	}

	err = r.client.InvokeOutputBinding(ctx, &dapr.InvokeBindingRequest{
		Name:      r.bindingName,
		Operation: "create",
		Data:      data,
		Metadata: map[string]string{
			"contentType": "application/json",
		},
	})
	if err != nil {
		err = fmt.Errorf("failed to invoke dapr binding %s: %w: %w", r.bindingName, models.ErrRemoteService, err)
		span.RecordError(err)
		return err
	}

	span.SetAttributes(attribute.Bool("success", true))
	return nil
}
