package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the CLI against a database in dir and returns stdout.
func execute(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--db", filepath.Join(dir, "flights.db")}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func newTestHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	return dir
}

func TestSearch_ListsBusiestFirst(t *testing.T) {
	dir := newTestHome(t)

	out, err := execute(t, dir, "search", "seattle")
	require.NoError(t, err)
	assert.Contains(t, out, "SEA")
	assert.Contains(t, out, "Passengers")
}

func TestSearch_NoMatches(t *testing.T) {
	dir := newTestHome(t)

	out, err := execute(t, dir, "search", "zzzz")
	require.NoError(t, err)
	assert.Contains(t, out, "No matching airports.")
}

func TestSearch_BlankIsAnError(t *testing.T) {
	dir := newTestHome(t)

	_, err := execute(t, dir, "search", "  ")
	require.Error(t, err)
}

func TestFavorites_AddListRemove(t *testing.T) {
	dir := newTestHome(t)

	out, err := execute(t, dir, "favorites", "add", "sea", "lax")
	require.NoError(t, err)
	assert.Contains(t, out, "Starred SEA → LAX")

	_, err = execute(t, dir, "favorites", "add", "SEA", "LAX")
	require.NoError(t, err, "adding twice is not an error")

	out, err = execute(t, dir, "favorites")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "LAX"), "duplicate add should keep one row:\n%s", out)

	out, err = execute(t, dir, "routes", "SEA")
	require.NoError(t, err)
	assert.Contains(t, out, "Flights from SEA")
	assert.Contains(t, out, "★")

	out, err = execute(t, dir, "favorites", "rm", "SEA", "LAX")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed SEA → LAX")

	out, err = execute(t, dir, "favorites")
	require.NoError(t, err)
	assert.Contains(t, out, "No favorite routes.")
}

func TestFavorites_UnknownAirport(t *testing.T) {
	dir := newTestHome(t)

	_, err := execute(t, dir, "favorites", "add", "SEA", "ZZZ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "airport not found")
}

func TestFavorites_SameAirportRejected(t *testing.T) {
	dir := newTestHome(t)

	_, err := execute(t, dir, "favorites", "add", "SEA", "sea")
	require.Error(t, err)
}

func TestSeed_FromFile(t *testing.T) {
	dir := newTestHome(t)
	csvPath := filepath.Join(dir, "airports.csv")
	require.NoError(t, writeFile(csvPath, "iata_code,name,passengers\nzzz,Nowhere Regional,12\n"))

	out, err := execute(t, dir, "seed", "--file", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Loaded 1 airports")

	out, err = execute(t, dir, "search", "nowhere")
	require.NoError(t, err)
	assert.Contains(t, out, "ZZZ")
}

func TestSeed_MissingFile(t *testing.T) {
	dir := newTestHome(t)

	_, err := execute(t, dir, "seed", "--file", filepath.Join(dir, "missing.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open seed file")
}

func TestLogs_PrintsSessionLog(t *testing.T) {
	dir := newTestHome(t)
	logPath := filepath.Join(dir, "fs.log")
	cfgPath := filepath.Join(dir, "config.toml")
	require.NoError(t, writeFile(cfgPath, "log_path = \""+logPath+"\"\n"))
	require.NoError(t, writeFile(logPath,
		`{"level":"info","time":"2026-01-02T03:04:05Z","message":"session ended"}`+"\n"))

	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", cfgPath, "logs", "-n", "10"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "session ended")
}
