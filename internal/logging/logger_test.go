package logging_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/viewcraft/viewcraft/internal/logging"
)

func TestNewLevelParsing(t *testing.T) {
	cases := map[string]zerolog.Level{
		"debug":    zerolog.DebugLevel,
		"info":     zerolog.InfoLevel,
		"warn":     zerolog.WarnLevel,
		"error":    zerolog.ErrorLevel,
		"":         zerolog.InfoLevel,
		"nonsense": zerolog.InfoLevel,
	}
	for level, want := range cases {
		logger := logging.New(logging.Config{Level: level})
		assert.Equal(t, want, logger.GetLevel(), "level %q", level)
	}
}

func TestRequestIDContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, logging.RequestIDFromContext(ctx))

	ctx = logging.WithRequestID(ctx, "req-42")
	assert.Equal(t, "req-42", logging.RequestIDFromContext(ctx))
}
