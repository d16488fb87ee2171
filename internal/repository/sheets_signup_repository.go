package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/sheets/v4"

	"growsense/internal/cache"
	"growsense/internal/models"
)

const sheetTitleTTL = 10 * time.Minute

// SheetsSignupRepository appends signup rows to one spreadsheet identified by
// its stable ID. When no tab is configured the first sheet is used.
type SheetsSignupRepository struct {
	service       *sheets.Service
	spreadsheetID string
	tab           string
	titles        cache.Cache
	tracer        trace.Tracer
}

func NewSheetsSignupRepository(service *sheets.Service, spreadsheetID, tab string, titles cache.Cache) *SheetsSignupRepository {
	return &SheetsSignupRepository{
		service:       service,
		spreadsheetID: spreadsheetID,
		tab:           tab,
		titles:        titles,
		tracer:        otel.Tracer("sheets.repository"),
	}
}

func (r *SheetsSignupRepository) Append(ctx context.Context, record *models.SignupRecord) error {
	ctx, span := r.tracer.Start(ctx, "signup.repository.append",
		trace.WithAttributes(
			attribute.String("operation", "sheets.append"),
			attribute.String("spreadsheet.id", r.spreadsheetID),
			attribute.String("signup.timestamp", record.Timestamp),
		))
	defer span.End()

	tab, err := r.sheetTitle(ctx)
	if err != nil {
		span.RecordError(err)
		return err
	}
	span.SetAttributes(attribute.String("spreadsheet.tab", tab))

	values := &sheets.ValueRange{
		MajorDimension: "ROWS",
		Values:         [][]interface{}{record.Row()},
	}

	// RAW keeps visitor input from being evaluated as a formula.
	resp, err := r.service.Spreadsheets.Values.
		Append(r.spreadsheetID, appendRange(tab), values).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		err = classifyGoogleError("failed to append signup row", err)
		span.RecordError(err)
		r.forgetSheetTitle(ctx)
		return err
	}

	if resp.Updates != nil {
		span.SetAttributes(
			attribute.String("spreadsheet.updated_range", resp.Updates.UpdatedRange),
			attribute.Int64("spreadsheet.updated_rows", resp.Updates.UpdatedRows),
		)
	}
	span.SetAttributes(attribute.Bool("success", true))
	return nil
}

func (r *SheetsSignupRepository) sheetTitle(ctx context.Context) (string, error) {
	if r.tab != "" {
		return r.tab, nil
	}

	key := cache.SheetTitleKey(r.spreadsheetID)
	if title, err := r.titles.Get(ctx, key); err == nil {
		return title, nil
	}

	ctx, span := r.tracer.Start(ctx, "signup.repository.first_sheet",
		trace.WithAttributes(
			attribute.String("operation", "sheets.read"),
			attribute.String("spreadsheet.id", r.spreadsheetID),
		))
	defer span.End()

	spreadsheet, err := r.service.Spreadsheets.
		Get(r.spreadsheetID).
		Fields("sheets.properties(title,index)").
		Context(ctx).
		Do()
	if err != nil {
		err = classifyGoogleError("failed to read spreadsheet metadata", err)
		span.RecordError(err)
		return "", err
	}

	title, ok := firstSheetTitle(spreadsheet)
	if !ok {
		err := fmt.Errorf("spreadsheet %s has no sheets: %w", r.spreadsheetID, models.ErrRemoteService)
		span.RecordError(err)
		return "", err
	}

	if err := r.titles.Set(ctx, key, title, sheetTitleTTL); err != nil {
		span.RecordError(err)
	}
	span.SetAttributes(attribute.String("spreadsheet.tab", title))
	return title, nil
}

// forgetSheetTitle drops the cached first-tab title so the next append
// re-reads it. A renamed or reordered first tab otherwise stays stale until
// the entry expires.
func (r *SheetsSignupRepository) forgetSheetTitle(ctx context.Context) {
	if r.tab != "" {
		return
	}
	if err := r.titles.Delete(ctx, cache.SheetTitleKey(r.spreadsheetID)); err != nil {
		trace.SpanFromContext(ctx).RecordError(err)
	}
}

func firstSheetTitle(spreadsheet *sheets.Spreadsheet) (string, bool) {
	var first *sheets.SheetProperties
	for _, s := range spreadsheet.Sheets {
		if s == nil || s.Properties == nil {
			continue
		}
		if first == nil || s.Properties.Index < first.Index {
			first = s.Properties
		}
	}
	if first == nil {
		return "", false
	}
	return first.Title, true
}

// appendRange addresses columns A:D of a tab, quoting the title in A1 notation.
func appendRange(tab string) string {
	return "'" + strings.ReplaceAll(tab, "'", "''") + "'!A:D"
}

// quotaReasons are the 403 reasons Google uses for rate and quota limits.
var quotaReasons = map[string]bool{
	"rateLimitExceeded":     true,
	"userRateLimitExceeded": true,
	"quotaExceeded":         true,
	"dailyLimitExceeded":    true,
	"RATE_LIMIT_EXCEEDED":   true,
}

func classifyGoogleError(msg string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusUnauthorized:
			return fmt.Errorf("%s: %w: %w", msg, models.ErrAuthentication, err)
		case apiErr.Code == http.StatusForbidden && !isQuotaError(apiErr):
			return fmt.Errorf("%s: %w: %w", msg, models.ErrAuthentication, err)
		}
	}

	var tokenErr *oauth2.RetrieveError
	if errors.As(err, &tokenErr) {
		return fmt.Errorf("%s: %w: %w", msg, models.ErrAuthentication, err)
	}

	return fmt.Errorf("%s: %w: %w", msg, models.ErrRemoteService, err)
}

func isQuotaError(apiErr *googleapi.Error) bool {
	for _, item := range apiErr.Errors {
		if quotaReasons[item.Reason] {
			return true
		}
	}
	return false
}
