// Package types contains common types used across the application
package types

// Entry represents a leaderboard entry
type Entry struct {
	Rank   int     `json:"rank"`
	Actor  string  `json:"actor"`
	Hits   int     `json:"hits"`
	Points float64 `json:"points"`
	Cut    float64 `json:"cut"`
}

// SummaryRow is the JSON shape of one actor's summary.
type SummaryRow struct {
	Actor    string            `json:"actor"`
	Hits     int               `json:"hits"`
	Buckets  map[string]string `json:"buckets"`
	FirstTen string            `json:"first_ten"`
	Base     float64           `json:"base_points"`
	Penalty  float64           `json:"penalty_points"`
	Bonus    float64           `json:"chain_bonus"`
	Points   float64           `json:"total_points"`
	Cut      float64           `json:"cut"`
}

// Summary is the JSON shape of the distributed summary.
type Summary struct {
	RunID       string       `json:"run_id"`
	WarID       string       `json:"war_id"`
	Opposing    string       `json:"opposing_faction"`
	Actors      []SummaryRow `json:"actors"`
	GroupPoints float64      `json:"group_points"`
	GroupCut    float64      `json:"group_cut"`
	TotalHits   int          `json:"total_hits"`
	TotalPoints float64      `json:"total_points"`
}

// Penalty is the JSON shape of a milestone penalty record.
type Penalty struct {
	ChainID      string `json:"chain_id"`
	Actor        string `json:"actor"`
	ChainCounter int    `json:"chain_counter"`
	HitNumber    int    `json:"hit_number"`
	Timestamp    int64  `json:"timestamp"`
	Time         string `json:"time"`
}
