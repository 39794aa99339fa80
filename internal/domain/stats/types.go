package stats

// Package stats contains domain types for the NBA tracker boards.

// TeamForm is one row of the team board: advanced per-game metrics for a
// single team, ranked by net rating.
type TeamForm struct {
	TeamID          int64   `json:"team_id"`
	TeamName        string  `json:"team_name"`
	Games           int     `json:"gp"`
	Wins            int     `json:"w"`
	Losses          int     `json:"l"`
	WinPct          float64 `json:"w_pct"`
	OffRating       float64 `json:"off_rating"`
	DefRating       float64 `json:"def_rating"`
	NetRating       float64 `json:"net_rating"`
	Pace            float64 `json:"pace"`
	TrueShootingPct float64 `json:"ts_pct"`
	EffectiveFGPct  float64 `json:"efg_pct"`
}

// PlayerLine is one row of the MVP or ROY ladder. TeamWinPct is zero for the
// rookie ladder, which deliberately ignores team context. Score is the
// composite z-score the ladder is ranked by.
type PlayerLine struct {
	PlayerID        int64   `json:"player_id"`
	PlayerName      string  `json:"player_name"`
	TeamID          int64   `json:"-"`
	TeamAbbr        string  `json:"team_abbreviation"`
	Games           int     `json:"gp"`
	Points          float64 `json:"pts"`
	Assists         float64 `json:"ast"`
	Rebounds        float64 `json:"reb"`
	TrueShootingPct float64 `json:"ts_pct"`
	TeamWinPct      float64 `json:"team_w_pct,omitempty"`
	Score           float64 `json:"score"`
}
