package testutil

import (
	"io"
	"log/slog"

	"github.com/salescribe/salescribe-server/internal/logger"
)

func MakeNoopLogger() *logger.Logger {
	return &logger.Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))}
}
