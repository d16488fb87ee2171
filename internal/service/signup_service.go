package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"growsense/internal/logging"
	"growsense/internal/metrics"
	"growsense/internal/models"
	"growsense/internal/repository"
)

// signupInput is the trimmed form of a request. Whitespace-only values count
// as blank.
type signupInput struct {
	Name  string `validate:"required"`
	Email string `validate:"required"`
}

type SignupService struct {
	repo     repository.SignupRepository
	logger   *logging.ContextLogger
	metrics  *metrics.Metrics
	validate *validator.Validate
	tracer   trace.Tracer
	now      func() time.Time
}

type Option func(*SignupService)

// WithClock replaces time.Now as the source of row timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *SignupService) {
		s.now = now
	}
}

func NewSignupService(repo repository.SignupRepository, logger *logging.ContextLogger, m *metrics.Metrics, opts ...Option) *SignupService {
	s := &SignupService{
		repo:     repo,
		logger:   logger,
		metrics:  m,
		validate: validator.New(),
		tracer:   otel.Tracer("signup-service"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit validates the request and appends one row to the signup store. It
// returns a *models.ValidationError without touching the store when name or
// email is blank; remote failures wrap models.ErrAuthentication or
// models.ErrRemoteService.
func (s *SignupService) Submit(ctx context.Context, submissionID uuid.UUID, req *models.SignupRequest) (*models.SignupRecord, error) {
	ctx, span := s.tracer.Start(ctx, "signup.service.submit",
		trace.WithAttributes(
			attribute.String("submission.id", submissionID.String()),
		))
	defer span.End()

	input := signupInput{
		Name:  strings.TrimSpace(req.Name),
		Email: strings.TrimSpace(req.Email),
	}

	if err := s.check(input); err != nil {
		s.logger.WarnWithTracing(ctx, "Rejected signup with missing fields", logrus.Fields{
			"submission_id": submissionID.String(),
			"fields":        err.Fields,
		})
		span.SetAttributes(
			attribute.String("signup.outcome", string(models.OutcomeInvalid)),
			attribute.StringSlice("signup.missing_fields", err.Fields),
		)
		s.metrics.RecordSubmission(ctx, string(models.OutcomeInvalid), "")
		return nil, err
	}

	record := models.NewSignupRecord(s.now(), input.Name, input.Email, req.Message)

	s.logger.InfoWithTracing(ctx, "Appending signup", logrus.Fields{
		"submission_id": submissionID.String(),
		"email":         record.Email,
		"timestamp":     record.Timestamp,
	})

	if err := s.repo.Append(ctx, record); err != nil {
		reason := models.FailureReason(err)
		s.logger.ErrorWithTracing(ctx, "Failed to append signup", err, logrus.Fields{
			"submission_id": submissionID.String(),
			"email":         record.Email,
			"reason":        reason,
		})
		span.RecordError(err)
		span.SetAttributes(
			attribute.String("signup.outcome", string(models.OutcomeFailed)),
			attribute.String("signup.failure_reason", reason),
		)
		s.metrics.RecordSubmission(ctx, string(models.OutcomeFailed), reason)
		return nil, err
	}

	s.logger.InfoWithTracing(ctx, "Successfully recorded signup", logrus.Fields{
		"submission_id": submissionID.String(),
		"email":         record.Email,
	})

	span.SetAttributes(
		attribute.String("signup.outcome", string(models.OutcomeSuccess)),
		attribute.Bool("success", true),
	)
	s.metrics.RecordSubmission(ctx, string(models.OutcomeSuccess), "")

	return record, nil
}

func (s *SignupService) check(input signupInput) *models.ValidationError {
	err := s.validate.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &models.ValidationError{Fields: []string{"name", "email"}}
	}

	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, strings.ToLower(fe.Field()))
	}
	return &models.ValidationError{Fields: fields}
}
