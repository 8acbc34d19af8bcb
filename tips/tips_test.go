package tips

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"spinnertip/facts"
	"spinnertip/logger"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile_TOML(t *testing.T) {
	path := writeFile(t, "facts.toml", `facts = ["Vanilla is a base note.", "  ", "Citrus fades first."]`)

	list, err := LoadFile(path)

	require.NoError(t, err)
	assert.Equal(t, []string{"Vanilla is a base note.", "Citrus fades first."}, list)
}

func TestLoadFile_JSON(t *testing.T) {
	path := writeFile(t, "facts.json", `["Oud comes from agarwood."]`)

	list, err := LoadFile(path)

	require.NoError(t, err)
	assert.Equal(t, []string{"Oud comes from agarwood."}, list)
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = LoadFile(writeFile(t, "facts.yaml", "facts: []"))
	assert.ErrorContains(t, err, "unsupported facts file type")

	_, err = LoadFile(writeFile(t, "empty.json", `[]`))
	assert.ErrorIs(t, err, facts.ErrNoFacts)

	_, err = LoadFile(writeFile(t, "broken.toml", `facts = [`))
	assert.ErrorContains(t, err, "parse facts file")
}

func TestLoad_FallsBackToDefaults(t *testing.T) {
	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, len(facts.Default), s.Len())

	s, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
	assert.Equal(t, len(facts.Default), s.Len())
}

func TestStore_EmptyListKeepsFallback(t *testing.T) {
	s := NewStore(nil)

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, facts.Fallback, s.Random())
}

func TestStore_RandomUsesPicker(t *testing.T) {
	s := NewStore([]string{"a", "b", "c"})
	s.pick = func(n int) int { return n - 1 }

	assert.Equal(t, "c", s.Random())
}

func TestHandler_ServesFact(t *testing.T) {
	s := NewStore([]string{"only fact"})
	rec := httptest.NewRecorder()

	Handler(s, logger.Discard())(rec, httptest.NewRequest(http.MethodGet, facts.DefaultEndpoint, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var body factResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, factResponse{Fact: "only fact", Status: "success"}, body)
}

func TestHandler_RejectsPost(t *testing.T) {
	rec := httptest.NewRecorder()

	Handler(NewStore(nil), logger.Discard())(rec, httptest.NewRequest(http.MethodPost, facts.DefaultEndpoint, nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandler_WorksWithFactsClient(t *testing.T) {
	srv := httptest.NewServer(Handler(NewStore([]string{"a", "b"}), logger.Discard()))
	defer srv.Close()

	list, err := facts.NewClient(srv.URL, facts.WithPreload(20)).Facts(context.Background())

	require.NoError(t, err)
	assert.Subset(t, []string{"a", "b"}, list)
	assert.NotEmpty(t, list)
}

func TestRateLimit_RejectsOnceBurstIsSpent(t *testing.T) {
	h := RateLimit(rate.NewLimiter(rate.Every(time.Hour), 2), logger.Discard(), Handler(NewStore([]string{"x"}), logger.Discard()))

	codes := make([]int, 0, 3)
	for range 3 {
		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, facts.DefaultEndpoint, nil))
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimit_LimitedRequestsFailTheClient(t *testing.T) {
	srv := httptest.NewServer(RateLimit(rate.NewLimiter(rate.Every(time.Hour), 1), logger.Discard(), Handler(NewStore([]string{"x"}), logger.Discard())))
	defer srv.Close()
	c := facts.NewClient(srv.URL)

	_, err := c.Fetch(context.Background())
	require.NoError(t, err)

	_, err = c.Fetch(context.Background())
	var status *facts.StatusError
	require.ErrorAs(t, err, &status)
	assert.Equal(t, http.StatusTooManyRequests, status.Code)
}

func TestPreview_CutsOnRuneBoundary(t *testing.T) {
	assert.Equal(t, "short", preview("short", 50))
	assert.Equal(t, "향수는...", preview("향수는 시간에 따라 변합니다", 3))

	long := strings.Repeat("향", 60)
	got := preview(long, 50)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("향", 50)+"...", got)
}
