package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	domainstats "github.com/corderos/corderos-go/internal/domain/stats"
	apperrors "github.com/corderos/corderos-go/internal/errors"
)

// stubStats fails every board fetch.
type stubStats struct {
	err error
}

func (s stubStats) Season() string { return "2025-26" }

func (s stubStats) TopTeams(context.Context) ([]domainstats.TeamForm, error) {
	return nil, s.err
}

func (s stubStats) MVPLadder(context.Context) ([]domainstats.PlayerLine, error) {
	return nil, s.err
}

func (s stubStats) ROYLadder(context.Context) ([]domainstats.PlayerLine, error) {
	return nil, s.err
}

func (s stubStats) RefreshAll(context.Context) error { return s.err }

func TestStatsHandlers_TrackerUpstreamFailure(t *testing.T) {
	h := &StatsHandlers{Svc: stubStats{err: apperrors.Unavailable("stats upstream unreachable")}}

	req := httptest.NewRequest(http.MethodGet, "/nba/tracker", nil)
	rec := httptest.NewRecorder()
	h.Tracker(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "unavailable")
}

func TestStatsHandlers_RefreshFailure(t *testing.T) {
	h := &StatsHandlers{Svc: stubStats{err: assert.AnError}}

	req := httptest.NewRequest(http.MethodPost, "/nba/refresh", nil)
	rec := httptest.NewRecorder()
	h.Refresh(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "refresh_failed")
}
