package backend

import (
	"fmt"

	"commissions/internal/config"
)

// FromAppConfig extracts the mirror settings from the application config.
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	mirrorType := MirrorType(appConfig.MirrorBackend)
	if !mirrorType.IsValid() {
		return Config{}, fmt.Errorf("invalid mirror backend in config: %s", appConfig.MirrorBackend)
	}

	return Config{
		Type:                     mirrorType,
		GoogleSpreadsheetID:      appConfig.GoogleSpreadsheetID,
		GoogleSheetName:          appConfig.GoogleSheetName,
		GoogleServiceAccountFile: appConfig.GoogleServiceAccountFile,
		GoogleServiceAccountJSON: appConfig.GoogleServiceAccountJSON,
	}, nil
}

func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid mirror type: %s", c.Type)
	}

	if c.Type == GoogleMirror {
		if c.GoogleSpreadsheetID == "" {
			return fmt.Errorf("Google spreadsheet ID is required for the google mirror")
		}
		if c.GoogleServiceAccountFile == "" && c.GoogleServiceAccountJSON == "" {
			return fmt.Errorf("either a service account file or inline JSON must be provided for the google mirror")
		}
	}
	return nil
}

// MirrorTypes returns every supported mirror type.
func MirrorTypes() []MirrorType {
	return []MirrorType{GoogleMirror, MemoryMirror}
}
