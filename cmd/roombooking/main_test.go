package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/navikt/roombooking/internal/config"
	"github.com/navikt/roombooking/internal/repository/memory"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type closeRecorder struct {
	*memory.Repository
	closed int
	err    error
}

func (c *closeRecorder) Close() error {
	c.closed++
	return c.err
}

func TestCloseRepository(t *testing.T) {
	repo := &closeRecorder{Repository: memory.NewRepository()}
	closeRepository(repo, zerolog.Nop())
	assert.Equal(t, 1, repo.closed)
}

func TestCloseRepository_LogsError(t *testing.T) {
	var buf bytes.Buffer
	repo := &closeRecorder{Repository: memory.NewRepository(), err: errors.New("already closed")}

	closeRepository(repo, zerolog.New(&buf))

	assert.Equal(t, 1, repo.closed)
	assert.Contains(t, buf.String(), "already closed")
}

func TestNewLogger_FallsBackToInfo(t *testing.T) {
	previous := zerolog.GlobalLevel()
	defer zerolog.SetGlobalLevel(previous)

	newLogger(config.LogConfig{Level: "nonsense", Format: "json"})
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())

	newLogger(config.LogConfig{Level: "debug", Format: "console"})
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}
