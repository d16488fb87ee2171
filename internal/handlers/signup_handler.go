package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"growsense/internal/logging"
	"growsense/internal/models"
	"growsense/internal/pages"
	"growsense/internal/service"
)

// MessageUnreadableForm is shown when the posted form cannot be decoded at all.
const MessageUnreadableForm = "Sorry, we could not read your submission. Please try again."

type SignupResponse struct {
	SubmissionID string               `json:"submission_id"`
	Outcome      models.Outcome       `json:"outcome"`
	Message      string               `json:"message"`
	Record       *models.SignupRecord `json:"record,omitempty"`
}

type SignupHandler struct {
	service *service.SignupService
	site    pages.Site
	logger  *logging.ContextLogger
	tracer  trace.Tracer
}

func NewSignupHandler(service *service.SignupService, site pages.Site, logger *logging.ContextLogger) *SignupHandler {
	return &SignupHandler{
		service: service,
		site:    site,
		logger:  logger,
		tracer:  otel.Tracer("signup-handler"),
	}
}

func statusFor(outcome models.Outcome) int {
	switch outcome {
	case models.OutcomeSuccess:
		return http.StatusCreated
	case models.OutcomeInvalid:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

func noticeFor(outcome models.Outcome) *pages.Notice {
	kind := "error"
	switch outcome {
	case models.OutcomeSuccess:
		kind = "success"
	case models.OutcomeInvalid:
		kind = "warning"
	}
	return &pages.Notice{Kind: kind, Text: outcome.Message()}
}

func (h *SignupHandler) registerView() pages.View {
	page, _ := pages.Lookup("register")
	return pages.NewView(h.site, page)
}

// ShowForm renders the empty register page.
func (h *SignupHandler) ShowForm(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", h.registerView())
}

// SubmitForm handles the HTML form post and re-renders the register page with
// the outcome. Field values are kept unless the signup was recorded.
func (h *SignupHandler) SubmitForm(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "signup.handler.submit_form")
	defer span.End()

	submissionID := uuid.New()
	span.SetAttributes(attribute.String("submission.id", submissionID.String()))

	var req models.SignupRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.ErrorWithTracing(ctx, "Invalid form payload", err, logrus.Fields{
			"submission_id": submissionID.String(),
			"endpoint":      "POST /register",
		})
		span.RecordError(err)
		view := h.registerView()
		view.Notice = &pages.Notice{Kind: "error", Text: MessageUnreadableForm}
		c.HTML(http.StatusBadRequest, "register.html", view)
		return
	}

	h.logger.DebugWithTracing(ctx, "Received register form", logrus.Fields{
		"submission_id": submissionID.String(),
		"endpoint":      "POST /register",
	})

	_, err := h.service.Submit(ctx, submissionID, &req)
	outcome := models.OutcomeFor(err)

	view := h.registerView()
	view.Notice = noticeFor(outcome)
	if outcome != models.OutcomeSuccess {
		view.Form = pages.FormValues{Name: req.Name, Email: req.Email, Message: req.Message}
	}

	span.SetAttributes(attribute.String("signup.outcome", string(outcome)))

	status := http.StatusOK
	if outcome != models.OutcomeSuccess {
		status = statusFor(outcome)
	}
	c.HTML(status, "register.html", view)
}

// CreateSignup is the JSON variant of SubmitForm.
func (h *SignupHandler) CreateSignup(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "signup.handler.create")
	defer span.End()

	submissionID := uuid.New()
	span.SetAttributes(attribute.String("submission.id", submissionID.String()))

	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.ErrorWithTracing(ctx, "Invalid request payload", err, logrus.Fields{
			"submission_id": submissionID.String(),
			"endpoint":      "POST /api/v1/signups",
		})
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.logger.InfoWithTracing(ctx, "Received signup request", logrus.Fields{
		"submission_id": submissionID.String(),
		"email":         req.Email,
		"endpoint":      "POST /api/v1/signups",
	})

	record, err := h.service.Submit(ctx, submissionID, &req)
	outcome := models.OutcomeFor(err)

	span.SetAttributes(
		attribute.String("signup.outcome", string(outcome)),
		attribute.Bool("success", outcome == models.OutcomeSuccess),
	)

	c.JSON(statusFor(outcome), SignupResponse{
		SubmissionID: submissionID.String(),
		Outcome:      outcome,
		Message:      outcome.Message(),
		Record:       record,
	})
}
