package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	domainstats "github.com/corderos/corderos-go/internal/domain/stats"
	"github.com/corderos/corderos-go/internal/ports"
)

const (
	boardLimit = 10

	// Stale copies outlive the freshness window so a flaky upstream degrades
	// to slightly old boards instead of empty ones.
	staleTTL = 24 * time.Hour
)

// StatsServiceOptions configures a StatsService.
type StatsServiceOptions struct {
	Source   ports.StatsSource
	Cache    ports.StatsCache
	Season   string
	CacheTTL time.Duration
	Logger   *slog.Logger
}

// StatsService computes the tracker boards: team form ranked by net rating
// and the MVP and ROY ladders ranked by composite z-scores.
type StatsService struct {
	source   ports.StatsSource
	cache    ports.StatsCache
	season   string
	cacheTTL time.Duration
	logger   *slog.Logger
}

// NewStatsService creates a StatsService.
func NewStatsService(opts StatsServiceOptions) *StatsService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &StatsService{
		source:   opts.Source,
		cache:    opts.Cache,
		season:   opts.Season,
		cacheTTL: ttl,
		logger:   logger,
	}
}

// Season returns the configured season string, e.g. "2025-26".
func (s *StatsService) Season() string {
	return s.season
}

// TopTeams returns the top ten teams by net rating.
func (s *StatsService) TopTeams(ctx context.Context) ([]domainstats.TeamForm, error) {
	return cachedBoard(ctx, s, s.boardKey("team_adv"), func(ctx context.Context) ([]domainstats.TeamForm, error) {
		teams, err := s.source.TeamAdvanced(ctx, s.season)
		if err != nil {
			return nil, err
		}
		sort.SliceStable(teams, func(i, j int) bool {
			return teams[i].NetRating > teams[j].NetRating
		})
		if len(teams) > boardLimit {
			teams = teams[:boardLimit]
		}
		return teams, nil
	})
}

// MVPLadder returns the top ten MVP candidates. The composite blends
// individual production with team success:
//
//	score = z(PTS) + 1.2*z(AST) + 0.8*z(REB) + 1.5*z(TS%) + 1.8*z(TEAM_W_PCT)
func (s *StatsService) MVPLadder(ctx context.Context) ([]domainstats.PlayerLine, error) {
	return cachedBoard(ctx, s, s.boardKey("mvp"), func(ctx context.Context) ([]domainstats.PlayerLine, error) {
		players, err := s.source.PlayerAdvanced(ctx, s.season, false)
		if err != nil {
			return nil, err
		}
		standings, err := s.source.Standings(ctx, s.season)
		if err != nil {
			return nil, err
		}

		for i := range players {
			wpct, ok := standings[players[i].TeamID]
			if !ok {
				// Unknown team context stays neutral rather than dragging
				// the score down.
				wpct = 0.5
			}
			players[i].TeamWinPct = wpct
		}

		zPts := zscores(players, func(p domainstats.PlayerLine) float64 { return p.Points })
		zAst := zscores(players, func(p domainstats.PlayerLine) float64 { return p.Assists })
		zReb := zscores(players, func(p domainstats.PlayerLine) float64 { return p.Rebounds })
		zTS := zscores(players, func(p domainstats.PlayerLine) float64 { return p.TrueShootingPct })
		zWin := zscores(players, func(p domainstats.PlayerLine) float64 { return p.TeamWinPct })

		for i := range players {
			players[i].Score = zPts[i] + 1.2*zAst[i] + 0.8*zReb[i] + 1.5*zTS[i] + 1.8*zWin[i]
		}
		return topByScore(players), nil
	})
}

// ROYLadder returns the top ten rookies. Team win percentage is deliberately
// left out so rookies on bad teams are not penalized for context:
//
//	score = z(PTS) + z(AST) + z(REB) + 1.2*z(TS%)
func (s *StatsService) ROYLadder(ctx context.Context) ([]domainstats.PlayerLine, error) {
	return cachedBoard(ctx, s, s.boardKey("roy"), func(ctx context.Context) ([]domainstats.PlayerLine, error) {
		rookies, err := s.source.PlayerAdvanced(ctx, s.season, true)
		if err != nil {
			return nil, err
		}

		zPts := zscores(rookies, func(p domainstats.PlayerLine) float64 { return p.Points })
		zAst := zscores(rookies, func(p domainstats.PlayerLine) float64 { return p.Assists })
		zReb := zscores(rookies, func(p domainstats.PlayerLine) float64 { return p.Rebounds })
		zTS := zscores(rookies, func(p domainstats.PlayerLine) float64 { return p.TrueShootingPct })

		for i := range rookies {
			rookies[i].Score = zPts[i] + zAst[i] + zReb[i] + 1.2*zTS[i]
		}
		return topByScore(rookies), nil
	})
}

// RefreshAll drops every cached board so the next read refetches upstream.
func (s *StatsService) RefreshAll(ctx context.Context) error {
	keys := make([]string, 0, 6)
	for _, board := range []string{"team_adv", "mvp", "roy"} {
		key := s.boardKey(board)
		keys = append(keys, key, staleKey(key))
	}
	return s.cache.Delete(ctx, keys...)
}

func (s *StatsService) boardKey(board string) string {
	return fmt.Sprintf("%s_%s", board, s.season)
}

func staleKey(key string) string {
	return "stale_" + key
}

// cachedBoard serves a board from cache, recomputing on miss. A failed
// recompute falls back to the stale copy; only when both are unavailable does
// the caller see an empty board.
func cachedBoard[T any](ctx context.Context, s *StatsService, key string, compute func(context.Context) ([]T, error)) ([]T, error) {
	var cached []T
	if found, err := s.cache.Get(ctx, key, &cached); err != nil {
		s.logger.Warn("stats cache read failed", "key", key, "error", err)
	} else if found {
		return cached, nil
	}

	board, err := compute(ctx)
	if err != nil {
		s.logger.Warn("stats fetch failed, serving stale board", "key", key, "error", err)
		var stale []T
		if found, cacheErr := s.cache.Get(ctx, staleKey(key), &stale); cacheErr == nil && found {
			return stale, nil
		}
		return []T{}, nil
	}

	if err := s.cache.Set(ctx, key, board, s.cacheTTL); err != nil {
		s.logger.Warn("stats cache write failed", "key", key, "error", err)
	}
	if err := s.cache.Set(ctx, staleKey(key), board, staleTTL); err != nil {
		s.logger.Warn("stats stale-cache write failed", "key", key, "error", err)
	}
	return board, nil
}

// zscores standardizes one metric across the slice using population standard
// deviation. A constant column yields all zeros.
func zscores(players []domainstats.PlayerLine, metric func(domainstats.PlayerLine) float64) []float64 {
	n := len(players)
	out := make([]float64, n)
	if n == 0 {
		return out
	}

	var sum float64
	for _, p := range players {
		sum += metric(p)
	}
	mean := sum / float64(n)

	var variance float64
	for _, p := range players {
		d := metric(p) - mean
		variance += d * d
	}
	std := math.Sqrt(variance / float64(n))
	if std == 0 {
		return out
	}

	for i, p := range players {
		out[i] = (metric(p) - mean) / std
	}
	return out
}

func topByScore(players []domainstats.PlayerLine) []domainstats.PlayerLine {
	sort.SliceStable(players, func(i, j int) bool {
		return players[i].Score > players[j].Score
	})
	if len(players) > boardLimit {
		players = players[:boardLimit]
	}
	return players
}
