package logger

import (
	"go.uber.org/zap"
)

// New builds the application logger. Production JSON output by default,
// human-readable when APP_ENV=development.
func New(env string) (*zap.Logger, error) {
	if env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
