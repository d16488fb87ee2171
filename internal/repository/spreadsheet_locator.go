package repository

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/api/drive/v3"

	"growsense/internal/models"
)

const spreadsheetMimeType = "application/vnd.google-apps.spreadsheet"

// LocateSpreadsheet resolves a spreadsheet ID from its exact name. It runs once
// at startup and fails unless exactly one spreadsheet carries the name.
func LocateSpreadsheet(ctx context.Context, service *drive.Service, name string) (string, error) {
	ctx, span := otel.Tracer("drive.locator").Start(ctx, "spreadsheet.locate",
		trace.WithAttributes(
			attribute.String("operation", "drive.read"),
			attribute.String("spreadsheet.name", name),
		))
	defer span.End()

	query := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false",
		escapeQueryValue(name), spreadsheetMimeType)

	list, err := service.Files.List().
		Q(query).
		Fields("files(id, name)").
		PageSize(10).
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		err = classifyGoogleError("failed to search drive for spreadsheet", err)
		span.RecordError(err)
		return "", err
	}

	span.SetAttributes(attribute.Int("spreadsheet.matches", len(list.Files)))

	switch len(list.Files) {
	case 0:
		err = fmt.Errorf("no spreadsheet named %q is shared with the service account: %w", name, models.ErrRemoteService)
	case 1:
		span.SetAttributes(attribute.String("spreadsheet.id", list.Files[0].Id))
		return list.Files[0].Id, nil
	default:
		err = fmt.Errorf("%d spreadsheets are named %q, configure sheets.spreadsheet_id instead", len(list.Files), name)
	}
	span.RecordError(err)
	return "", err
}

func escapeQueryValue(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	return strings.ReplaceAll(v, `'`, `\'`)
}
