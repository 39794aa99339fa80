package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	domainstats "github.com/corderos/corderos-go/internal/domain/stats"
)

// StatsServiceInterface defines the tracker board operations.
type StatsServiceInterface interface {
	Season() string
	TopTeams(ctx context.Context) ([]domainstats.TeamForm, error)
	MVPLadder(ctx context.Context) ([]domainstats.PlayerLine, error)
	ROYLadder(ctx context.Context) ([]domainstats.PlayerLine, error)
	RefreshAll(ctx context.Context) error
}

// StatsHandlers provides HTTP handlers for the NBA tracker.
type StatsHandlers struct {
	Svc    StatsServiceInterface
	Logger *slog.Logger
}

func (h *StatsHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Tracker aggregates the three boards, fetched concurrently.
// GET /nba/tracker.
func (h *StatsHandlers) Tracker(w http.ResponseWriter, r *http.Request) {
	var (
		teams []domainstats.TeamForm
		mvp   []domainstats.PlayerLine
		roy   []domainstats.PlayerLine
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		teams, err = h.Svc.TopTeams(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		mvp, err = h.Svc.MVPLadder(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		roy, err = h.Svc.ROYLadder(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		h.logger().ErrorContext(r.Context(), "tracker aggregation failed", "error", err)
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"season":     h.Svc.Season(),
		"team_form":  teams,
		"mvp_ladder": mvp,
		"roy_ladder": roy,
	})
}

// Refresh drops the cached boards so the next read refetches upstream.
// POST /nba/refresh.
func (h *StatsHandlers) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.RefreshAll(r.Context()); err != nil {
		h.logger().ErrorContext(r.Context(), "tracker refresh failed", "error", err)
		WriteError(w, ErrorParams{
			Code:    http.StatusServiceUnavailable,
			ErrCode: "refresh_failed",
			Err:     errors.New("cache refresh failed"),
		})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "refreshed", "season": h.Svc.Season()})
}
