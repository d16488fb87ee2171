// Package credentials loads the Google service account used to append signups.
package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/sheets/v4"

	"growsense/internal/config"
)

// Scopes grants spreadsheet read/write and Drive file access, the latter for
// resolving a spreadsheet by name.
var Scopes = []string{sheets.SpreadsheetsScope, drive.DriveScope}

type serviceAccountKey struct {
	Type        string `json:"type"`
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
}

// Load reads the credential once from inline JSON or, failing that, from the
// configured file. The result is shared read-only for the process lifetime.
func Load(ctx context.Context, cfg config.GoogleConfig) (*google.Credentials, error) {
	data := []byte(cfg.CredentialsJSON)
	if len(data) == 0 {
		if cfg.CredentialsFile == "" {
			return nil, errors.New("no service account credential configured")
		}
		var err error
		data, err = os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read credentials file: %w", err)
		}
	}
	return FromJSON(ctx, data)
}

func FromJSON(ctx context.Context, data []byte) (*google.Credentials, error) {
	var key serviceAccountKey
	if err := json.Unmarshal(data, &key); err != nil {
		return nil, fmt.Errorf("failed to parse service account credential: %w", err)
	}
	if key.Type != "service_account" {
		return nil, fmt.Errorf("credential type %q is not a service account", key.Type)
	}
	if key.ClientEmail == "" || key.PrivateKey == "" {
		return nil, errors.New("service account credential is missing client_email or private_key")
	}

	creds, err := google.CredentialsFromJSON(ctx, data, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to build google credentials: %w", err)
	}
	return creds, nil
}
