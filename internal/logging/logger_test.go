package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"INFO":    zerolog.InfoLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"bogus":   zerolog.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "ParseLevel(%q)", in)
	}
}

func TestSetupFiltersByLevel(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.GlobalLevel())

	buf := &bytes.Buffer{}
	logger := Setup(Config{Level: "warn", Output: buf})

	logger.Info().Msg("fetch")
	assert.Empty(t, buf.String())

	logger.Warn().Int("status_code", 429).Msg("status code was not 200")
	assert.Contains(t, buf.String(), `"status_code":429`)
	assert.Contains(t, buf.String(), "status code was not 200")
}

func TestNewLoggerAddsComponent(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.GlobalLevel())

	buf := &bytes.Buffer{}
	Setup(Config{Level: "debug", Output: buf})

	l := NewLogger("crawler")
	l.Debug().Msg("hello")
	assert.Contains(t, buf.String(), `"component":"crawler"`)
}
