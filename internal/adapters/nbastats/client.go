package nbastats

// Package nbastats fetches advanced statistics from the public stats.nba.com
// API. Responses arrive as a resultSets envelope: parallel header and rowSet
// arrays that have to be joined positionally by column name.

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	domainstats "github.com/corderos/corderos-go/internal/domain/stats"
	apperrors "github.com/corderos/corderos-go/internal/errors"
	"github.com/corderos/corderos-go/internal/ports"
)

var _ ports.StatsSource = (*Client)(nil)

const (
	endpointTeamStats   = "leaguedashteamstats"
	endpointPlayerStats = "leaguedashplayerstats"
	endpointStandings   = "leaguestandingsv3"
)

// defaultHeaders mirrors what the nba.com stats frontend sends. The upstream
// rejects requests without a realistic user agent and the x-nba-stats-* pair.
var defaultHeaders = map[string]string{
	"User-Agent": "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
	"Accept":             "application/json, text/plain, */*",
	"Accept-Language":    "en-US,en;q=0.9",
	"Origin":             "https://www.nba.com",
	"Referer":            "https://www.nba.com/stats/",
	"x-nba-stats-token":  "true",
	"x-nba-stats-origin": "stats",
}

// Client talks to stats.nba.com over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient creates a stats.nba.com client. baseURL is the API root without a
// trailing slash, e.g. "https://stats.nba.com/stats".
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 6 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// envelope is the stats.nba.com response shape.
type envelope struct {
	ResultSets []resultSet `json:"resultSets"`
}

type resultSet struct {
	Name    string            `json:"name"`
	Headers []string          `json:"headers"`
	RowSet  [][]json.RawMessage `json:"rowSet"`
}

// TeamAdvanced fetches advanced per-game metrics for every team.
func (c *Client) TeamAdvanced(ctx context.Context, season string) ([]domainstats.TeamForm, error) {
	params := url.Values{
		"Season":      {season},
		"SeasonType":  {"Regular Season"},
		"MeasureType": {"Advanced"},
		"PerMode":     {"PerGame"},
		"LeagueID":    {"00"},
	}

	rs, err := c.fetchFirstResultSet(ctx, endpointTeamStats, params)
	if err != nil {
		return nil, err
	}

	cols, err := rs.columnIndex("TEAM_ID", "TEAM_NAME", "GP", "W", "L", "W_PCT",
		"OFF_RATING", "DEF_RATING", "NET_RATING", "PACE", "TS_PCT", "EFG_PCT")
	if err != nil {
		return nil, err
	}

	teams := make([]domainstats.TeamForm, 0, len(rs.RowSet))
	for _, row := range rs.RowSet {
		teams = append(teams, domainstats.TeamForm{
			TeamID:          cols.int64(row, "TEAM_ID"),
			TeamName:        cols.str(row, "TEAM_NAME"),
			Games:           int(cols.int64(row, "GP")),
			Wins:            int(cols.int64(row, "W")),
			Losses:          int(cols.int64(row, "L")),
			WinPct:          cols.float(row, "W_PCT"),
			OffRating:       cols.float(row, "OFF_RATING"),
			DefRating:       cols.float(row, "DEF_RATING"),
			NetRating:       cols.float(row, "NET_RATING"),
			Pace:            cols.float(row, "PACE"),
			TrueShootingPct: cols.float(row, "TS_PCT"),
			EffectiveFGPct:  cols.float(row, "EFG_PCT"),
		})
	}
	return teams, nil
}

// PlayerAdvanced fetches advanced per-game metrics for players, optionally
// restricted to rookies.
func (c *Client) PlayerAdvanced(ctx context.Context, season string, rookiesOnly bool) ([]domainstats.PlayerLine, error) {
	params := url.Values{
		"Season":      {season},
		"SeasonType":  {"Regular Season"},
		"MeasureType": {"Advanced"},
		"PerMode":     {"PerGame"},
		"LeagueID":    {"00"},
	}
	if rookiesOnly {
		params.Set("PlayerExperience", "Rookie")
	}

	rs, err := c.fetchFirstResultSet(ctx, endpointPlayerStats, params)
	if err != nil {
		return nil, err
	}

	cols, err := rs.columnIndex("PLAYER_ID", "PLAYER_NAME", "TEAM_ID",
		"TEAM_ABBREVIATION", "GP", "PTS", "AST", "REB", "TS_PCT")
	if err != nil {
		return nil, err
	}

	players := make([]domainstats.PlayerLine, 0, len(rs.RowSet))
	for _, row := range rs.RowSet {
		players = append(players, domainstats.PlayerLine{
			PlayerID:        cols.int64(row, "PLAYER_ID"),
			PlayerName:      cols.str(row, "PLAYER_NAME"),
			TeamID:          cols.int64(row, "TEAM_ID"),
			TeamAbbr:        cols.str(row, "TEAM_ABBREVIATION"),
			Games:           int(cols.int64(row, "GP")),
			Points:          cols.float(row, "PTS"),
			Assists:         cols.float(row, "AST"),
			Rebounds:        cols.float(row, "REB"),
			TrueShootingPct: cols.float(row, "TS_PCT"),
		})
	}
	return players, nil
}

// Standings returns each team's win percentage keyed by team ID.
func (c *Client) Standings(ctx context.Context, season string) (map[int64]float64, error) {
	params := url.Values{
		"Season":     {season},
		"SeasonType": {"Regular Season"},
		"LeagueID":   {"00"},
	}

	rs, err := c.fetchFirstResultSet(ctx, endpointStandings, params)
	if err != nil {
		return nil, err
	}

	cols, err := rs.columnIndex("TeamID", "WinPCT")
	if err != nil {
		return nil, err
	}

	standings := make(map[int64]float64, len(rs.RowSet))
	for _, row := range rs.RowSet {
		standings[cols.int64(row, "TeamID")] = cols.float(row, "WinPCT")
	}
	return standings, nil
}

func (c *Client) fetchFirstResultSet(ctx context.Context, endpoint string, params url.Values) (*resultSet, error) {
	u := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "build stats request")
	}
	for k, v := range defaultHeaders {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrCodeUnavailable, "stats fetch %s", endpoint)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		c.logger.WarnContext(ctx, "stats upstream returned non-200",
			"endpoint", endpoint, "status", resp.StatusCode)
		return nil, apperrors.Unavailable(
			fmt.Sprintf("stats fetch %s: unexpected status %d", endpoint, resp.StatusCode))
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrCodeUnavailable, "decode stats response %s", endpoint)
	}
	if len(env.ResultSets) == 0 {
		return nil, apperrors.Unavailable(
			fmt.Sprintf("stats response %s: no result sets", endpoint))
	}
	return &env.ResultSets[0], nil
}

// columnIndex maps the named columns to their positions in the result set.
type columnIndex map[string]int

func (rs *resultSet) columnIndex(names ...string) (columnIndex, error) {
	byName := make(map[string]int, len(rs.Headers))
	for i, h := range rs.Headers {
		byName[h] = i
	}

	idx := make(columnIndex, len(names))
	for _, name := range names {
		pos, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("stats result set %q: missing column %q", rs.Name, name)
		}
		idx[name] = pos
	}
	return idx, nil
}

// Row cells can be numbers, strings, or null depending on the column; the
// accessors below tolerate all three and fall back to the zero value.

func (idx columnIndex) float(row []json.RawMessage, name string) float64 {
	raw := idx.cell(row, name)
	if raw == nil {
		return 0
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err == nil {
		return v
	}
	// Standings serves WinPCT as a quoted decimal on some season types.
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		var parsed float64
		if _, err := fmt.Sscanf(s, "%g", &parsed); err == nil {
			return parsed
		}
	}
	return 0
}

func (idx columnIndex) int64(row []json.RawMessage, name string) int64 {
	return int64(idx.float(row, name))
}

func (idx columnIndex) str(row []json.RawMessage, name string) string {
	raw := idx.cell(row, name)
	if raw == nil {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func (idx columnIndex) cell(row []json.RawMessage, name string) json.RawMessage {
	pos, ok := idx[name]
	if !ok || pos >= len(row) {
		return nil
	}
	raw := row[pos]
	if string(raw) == "null" {
		return nil
	}
	return raw
}
