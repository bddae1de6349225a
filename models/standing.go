package models

type TeamStanding struct {
	Rank            int    `json:"rank"`
	Team            string `json:"team"`
	Rating          int    `json:"rating"`
	RemainingBudget int    `json:"remaining_budget"`
	RemainingCr     string `json:"remaining_cr"`
}

// SquadSummary is the per-team breakdown shown next to a roster.
type SquadSummary struct {
	Team            string `json:"team"`
	PlayerCount     int    `json:"player_count"`
	TotalSpend      int    `json:"total_spend"`
	TotalSpendCr    string `json:"total_spend_cr"`
	RemainingBudget int    `json:"remaining_budget"`
	RemainingCr     string `json:"remaining_cr"`
	TotalRating     int    `json:"total_rating"`

	Batters       int `json:"batters"`
	Bowlers       int `json:"bowlers"`
	Allrounders   int `json:"allrounders"`
	Wicketkeepers int `json:"wicketkeepers"`
	Indian        int `json:"indian"`
	Foreign       int `json:"foreign"`
}
