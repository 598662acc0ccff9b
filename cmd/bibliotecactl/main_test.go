package main

import (
	"bytes"
	"fmt"
	"path/filepath"
	"testing"

	"biblioteca/dbroute/auth"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqliteEnv(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("DB_FIS_TYPE", "sqlite")
	t.Setenv("DB_FIS_NAME", filepath.Join(dir, "fis.db"))
	t.Setenv("DB_FIQA_TYPE", "sqlite")
	t.Setenv("DB_FIQA_NAME", filepath.Join(dir, "fiqa.db"))
	t.Setenv("LOG_LEVEL", "error")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := execute(&out, args)
	return out.String(), err
}

func TestNodesAndProbe(t *testing.T) {
	sqliteEnv(t)

	out, err := run(t, "nodes")
	require.NoError(t, err)
	assert.Contains(t, out, "WIN-PHDDNKD39M9")
	assert.Contains(t, out, "Slim")

	out, err = run(t, "probe")
	require.NoError(t, err)
	assert.Contains(t, out, "connected to FIS")
	assert.Contains(t, out, "connected to FIQA")
}

func TestProbeReportsUnreachableNode(t *testing.T) {
	sqliteEnv(t)
	t.Setenv("DB_FIQA_NAME", filepath.Join(t.TempDir(), "missing", "fiqa.db"))

	out, err := run(t, "probe")
	assert.EqualError(t, err, "1 of 2 nodes unreachable")
	assert.Contains(t, out, "connected to FIS")
}

func TestFailuresPrintDiagnostic(t *testing.T) {
	sqliteEnv(t)

	_, err := run(t, "aisles", "add", "--library", "03", "--number", "2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert aisle failed")
	assert.Contains(t, err.Error(), "unknown fragment key")

	_, err = run(t, "books", "update", "--isbn", "X-1", "--title", "Química", "--node", "FIQA")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "update book failed")

	_, err = run(t, "loans", "add", "--library", "01", "--date", "02/05/2024")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "YYYY-MM-DD")
}

func TestAuthorization(t *testing.T) {
	sqliteEnv(t)
	hash, err := auth.HashPassword("fiqa123")
	require.NoError(t, err)
	t.Setenv("AUTH_ACCOUNTS", fmt.Sprintf(`[{"username": "gestor_fiqa", "password_hash": %q, "role": "gestor_fiqa", "node": "FIQA"}]`, hash))

	_, err = run(t, "-u", "gestor_fiqa", "-p", "fiqa123", "aisles", "add", "--library", "01", "--number", "2")
	assert.True(t, errors.Is(err, auth.ErrForbidden), "got %v", err)

	// the key redirects the write to FIQA, which this account may edit
	_, err = run(t, "-u", "gestor_fiqa", "-p", "fiqa123", "--node", "FIS", "aisles", "add", "--library", "02", "--number", "2")
	require.Error(t, err)
	assert.False(t, errors.Is(err, auth.ErrForbidden), "got %v", err)
	assert.Contains(t, err.Error(), "insert aisle failed")

	// user writes land on the primary and need user management
	_, err = run(t, "-u", "gestor_fiqa", "-p", "fiqa123", "users", "add", "--library", "02", "--cedula", "1",
		"--first", "Ana", "--last", "Pérez")
	assert.True(t, errors.Is(err, auth.ErrForbidden), "got %v", err)

	_, err = run(t, "-u", "gestor_fiqa", "-p", "wrong", "views")
	assert.True(t, errors.Is(err, auth.ErrBadCredentials), "got %v", err)
}

func TestViewsList(t *testing.T) {
	sqliteEnv(t)

	out, err := run(t, "views")
	require.NoError(t, err)
	assert.Contains(t, out, "v_Prestamo")
	assert.Contains(t, out, "v_Usuario")
}
