package models

type EventKind string

const (
	EventRewardIncreased EventKind = "reward_increased"
	EventCoinsIncreased  EventKind = "coins_increased"
)

// Event is a celebration signal raised by a successful update.
type Event struct {
	Kind    EventKind `json:"kind"`
	Total   int       `json:"total"`
	Message string    `json:"message,omitempty"`
}

// MonthlyTotals mixes month-scoped money/score with lifetime coins and gems.
type MonthlyTotals struct {
	Year         int `json:"year"`
	Month        int `json:"month"`
	TotalEarned  int `json:"totalEarned"`
	CurrentScore int `json:"currentScore"`
	MaxScore     int `json:"maxScore"`
	TotalCoins   int `json:"totalCoins"`
	TotalGems    int `json:"totalGems"`
}

// WeekStatus is one Monday-first calendar row; empty strings pad days
// outside the month.
type WeekStatus struct {
	Days     []string `json:"days"`
	Complete bool     `json:"complete"`
}

type VocabEntry struct {
	Word    string `json:"word"`
	Meaning string `json:"meaning"`
	Day     int    `json:"day,omitempty"`
}

// ReviewWeek groups the month's learned words into day ranges 1-7, 8-14,
// 15-21 and 22 to month end.
type ReviewWeek struct {
	Week    int          `json:"week"`
	FromDay int          `json:"fromDay"`
	ToDay   int          `json:"toDay"`
	Entries []VocabEntry `json:"entries"`
}
