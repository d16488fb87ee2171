package main

import (
	"context"
	"fmt"

	dapr "github.com/dapr/go-sdk/client"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"growsense/internal/cache"
	"growsense/internal/config"
	"growsense/internal/credentials"
	"growsense/internal/logging"
	"growsense/internal/repository"
)

// newRepository builds the signup store selected by store.driver. The returned
// func releases whatever the store holds open.
func newRepository(ctx context.Context, cfg *config.Config, logger *logging.ContextLogger) (repository.SignupRepository, func(), error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		logger.Warn("Using in-memory signup store, rows are lost on restart")
		return repository.NewInMemorySignupRepository(), func() {}, nil

	case config.DriverDapr:
		client, err := dapr.NewClient()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to dapr sidecar: %w", err)
		}
		logger.WithField("binding", cfg.Dapr.BindingName).Info("Appending signups through dapr binding")
		return repository.NewDaprSignupRepository(client, cfg.Dapr.BindingName), client.Close, nil

	case config.DriverSheets:
		return newSheetsRepository(ctx, cfg, logger)

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

func newSheetsRepository(ctx context.Context, cfg *config.Config, logger *logging.ContextLogger) (repository.SignupRepository, func(), error) {
	creds, err := credentials.Load(ctx, cfg.Google)
	if err != nil {
		return nil, nil, err
	}

	spreadsheetID := cfg.Sheets.SpreadsheetID
	if spreadsheetID == "" {
		driveService, err := drive.NewService(ctx, option.WithCredentials(creds))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create drive client: %w", err)
		}
		spreadsheetID, err = repository.LocateSpreadsheet(ctx, driveService, cfg.Sheets.SpreadsheetName)
		if err != nil {
			return nil, nil, err
		}
		logger.WithFields(logrus.Fields{
			"spreadsheet_name": cfg.Sheets.SpreadsheetName,
			"spreadsheet_id":   spreadsheetID,
		}).Info("Resolved spreadsheet by name, set sheets.spreadsheet_id to skip the lookup")
	}

	sheetsService, err := sheets.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create sheets client: %w", err)
	}

	titles := cache.NewInMemoryCache()
	logger.WithFields(logrus.Fields{
		"spreadsheet_id": spreadsheetID,
		"tab":            cfg.Sheets.Tab,
	}).Info("Appending signups to google sheets")

	return repository.NewSheetsSignupRepository(sheetsService, spreadsheetID, cfg.Sheets.Tab, titles), titles.Close, nil
}
