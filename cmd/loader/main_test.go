package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRun_InvalidConfig(t *testing.T) {
	t.Setenv("WRITE_RETRIES", "0")
	assert.Equal(t, 1, run())
}

func TestRun_StoreNotConfigured(t *testing.T) {
	t.Setenv("SNAPSHOT_DIR", t.TempDir())
	t.Setenv("STORE_BACKEND", "postgres")
	t.Setenv("DB_PASSWORD", "")
	assert.Equal(t, 1, run())
}
