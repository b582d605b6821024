package backend

import (
	"context"
	"fmt"
	"log/slog"

	goption "google.golang.org/api/option"

	"commissions/internal/sheets/google"
	"commissions/internal/sheets/memory"
)

type DefaultFactory struct {
	logger        *slog.Logger
	googleOptions []goption.ClientOption
}

// NewFactory returns a Factory. googleOptions are passed to the Sheets
// client, which lets tests point it at a fake endpoint.
func NewFactory(logger *slog.Logger, googleOptions ...goption.ClientOption) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger, googleOptions: googleOptions}
}

func (f *DefaultFactory) CreateMirror(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case GoogleMirror:
		return f.createGoogleMirror(ctx, config)
	case MemoryMirror:
		return f.createMemoryMirror()
	default:
		return nil, fmt.Errorf("unsupported mirror type: %s", config.Type)
	}
}

func (f *DefaultFactory) createGoogleMirror(ctx context.Context, config Config) (*Result, error) {
	client, err := google.New(ctx, google.Config{
		SpreadsheetID:   config.GoogleSpreadsheetID,
		SheetName:       config.GoogleSheetName,
		CredentialsFile: config.GoogleServiceAccountFile,
		CredentialsJSON: config.GoogleServiceAccountJSON,
	}, f.googleOptions...)
	if err != nil {
		return nil, fmt.Errorf("initialize Google Sheets client: %w", err)
	}

	f.logger.Info("Initialized Google Sheets mirror",
		"spreadsheet_id", config.GoogleSpreadsheetID,
		"sheet", config.GoogleSheetName)

	return &Result{
		Mirror:  client,
		Cleanup: func() error { return nil },
	}, nil
}

func (f *DefaultFactory) createMemoryMirror() (*Result, error) {
	f.logger.Warn("Using in-memory mirror, synced sales are not persisted anywhere")
	return &Result{
		Mirror:  memory.New(),
		Cleanup: func() error { return nil },
	}, nil
}
