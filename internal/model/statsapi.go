package model

// StatsResponse matches the JSON shape returned by stats.nba.com endpoints.
//
// Example:
//
//	{
//	  "resource": "playergamelog",
//	  "resultSets": [
//	    {"name": "PlayerGameLog", "headers": ["SEASON_ID", "Player_ID", ...], "rowSet": [[...], ...]}
//	  ]
//	}
type StatsResponse struct {
	Resource   string      `json:"resource"`
	ResultSets []ResultSet `json:"resultSets"`
}

// ResultSet is one named table inside a StatsResponse.
type ResultSet struct {
	Name    string   `json:"name"`
	Headers []string `json:"headers"`
	RowSet  [][]any  `json:"rowSet"`
}

// Find returns the result set with the given name, or nil.
func (r *StatsResponse) Find(name string) *ResultSet {
	if r == nil {
		return nil
	}
	for i := range r.ResultSets {
		if r.ResultSets[i].Name == name {
			return &r.ResultSets[i]
		}
	}
	return nil
}

// First returns the first result set, or nil when the response carries none.
func (r *StatsResponse) First() *ResultSet {
	if r == nil || len(r.ResultSets) == 0 {
		return nil
	}
	return &r.ResultSets[0]
}
