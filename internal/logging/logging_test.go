package logging

import (
	"bytes"
	"testing"

	"github.com/Project-Sylos/Cabinet/internal/types"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupWriter(t *testing.T) {
	defer func(l zerolog.Logger) { log.Logger = l }(log.Logger)

	var buf bytes.Buffer
	require.NoError(t, SetupWriter(types.LogConfig{Level: "warn", Format: "json"}, &buf))

	log.Info().Msg("hidden")
	log.Warn().Str("key", "value").Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"message":"shown"`)
	assert.Contains(t, out, `"key":"value"`)
}

func TestSetupWriterRejectsUnknownLevel(t *testing.T) {
	defer func(l zerolog.Logger) { log.Logger = l }(log.Logger)

	var buf bytes.Buffer
	assert.Error(t, SetupWriter(types.LogConfig{Level: "chatty"}, &buf))
}

func TestBadgerLogger(t *testing.T) {
	defer func(l zerolog.Logger) { log.Logger = l }(log.Logger)

	var buf bytes.Buffer
	require.NoError(t, SetupWriter(types.LogConfig{Level: "debug", Format: "json"}, &buf))

	l := &BadgerLogger{}
	l.Warningf("value log %d rotated\n", 3)

	assert.Contains(t, buf.String(), `"component":"badger"`)
	assert.Contains(t, buf.String(), `"message":"value log 3 rotated"`)
}
