package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		" warn ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log, closer, err := New(Options{Level: "warn", Output: &buf})
	require.NoError(t, err)
	defer closer.Close()

	log.Info().Msg("hidden")
	log.Warn().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_ErrorLogReceivesOnlyErrors(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer

	log, closer, err := New(Options{Level: "debug", Output: &buf, ErrorLogDir: dir})
	require.NoError(t, err)

	log.Info().Msg("routine event")
	log.Error().Str("path", "/api/v1/notes").Msg("boom")
	require.NoError(t, closer.Close())

	assert.Contains(t, buf.String(), "routine event")
	assert.Contains(t, buf.String(), "boom")

	files, err := filepath.Glob(filepath.Join(dir, "errors.*.log"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	content, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(content), "boom")
	assert.NotContains(t, string(content), "routine event")
}
