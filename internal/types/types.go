package types

// RaceResult is one race's result as returned by the results feed.
// Built by ingestion, read-only afterwards, never persisted.
type RaceResult struct {
	ID      string   `json:"race_id"`
	Course  string   `json:"course"`
	Off     string   `json:"off"`
	Region  string   `json:"region"`
	Runners []Runner `json:"runners"`
}

// Runner is a single finisher within a RaceResult. Position is kept in its
// textual feed form and parsed where it is consumed. SP and SPDec are two
// alternate representations of the starting price; either or both may be
// empty.
type Runner struct {
	Position string `json:"position"`
	Horse    string `json:"horse"`
	SP       string `json:"sp"`
	SPDec    string `json:"sp_dec"`
}
