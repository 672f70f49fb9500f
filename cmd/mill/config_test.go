package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mill.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	path := writeTempConfig(t, "plugins: [trim, upper]\neof_newline: true\nlong_line_limit: 80\n")
	cfg, err := loadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"trim", "upper"}, cfg.Plugins)
	assert.True(t, cfg.EOFNewline)
	assert.Equal(t, 80, cfg.LongLineLimit)
}

func TestLoadConfig_MissingPathIsEmpty(t *testing.T) {
	t.Parallel()

	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Empty(t, cfg.Plugins)
}

func TestLoadConfig_BadFile(t *testing.T) {
	t.Parallel()

	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = loadConfig(writeTempConfig(t, "plugins: [unterminated"))
	assert.Error(t, err)
}

func TestResolveConfig_FlagsWinOverFile(t *testing.T) {
	t.Parallel()

	path := writeTempConfig(t, "plugins: [trim]\nlong_line_limit: 80\n")
	cfg, err := resolveConfig(path, &Config{Plugins: []string{"upper"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"upper"}, cfg.Plugins)
	assert.Equal(t, 80, cfg.LongLineLimit)
}

func TestBuildProcessor(t *testing.T) {
	t.Parallel()

	proc, err := buildProcessor(&Config{Plugins: []string{"trim", "squeeze"}, LongLineLimit: 10, EOFNewline: true})
	require.NoError(t, err)
	assert.Equal(t, 3, proc.Transforms())
	assert.Equal(t, true, proc.Compiler.Table["eofNewline"])

	_, err = buildProcessor(&Config{Plugins: []string{"nonsense"}})
	assert.Error(t, err)
}

func TestRouter_Process(t *testing.T) {
	t.Parallel()

	router := newRouter(&Config{})

	body, err := json.Marshal(processRequest{Text: "hello  \nworld", Plugins: []string{"trim", "upper"}})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/process", bytes.NewReader(body))
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp processResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "HELLO\nWORLD", resp.Output)
	assert.NotEmpty(t, resp.FileID)
}

func TestRouter_BadRequests(t *testing.T) {
	t.Parallel()

	router := newRouter(&Config{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/process", bytes.NewReader([]byte(`{}`))))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	body := []byte(`{"text":"x","plugins":["nonsense"]}`)
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/process", bytes.NewReader(body)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_Healthz(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	newRouter(&Config{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
