package models

import "time"

// Identity is the authenticated account a session writes to the remote store under.
type Identity struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL"`
}

// StudentSummary is the per-account rollup consumed by admin reporting.
// It is always rebuilt from the day-map, never edited directly.
type StudentSummary struct {
	UID         string     `json:"uid"`
	DisplayName string     `json:"displayName"`
	Email       string     `json:"email"`
	PhotoURL    string     `json:"photoURL"`
	LastActive  time.Time  `json:"lastActive"`
	LastLogin   *time.Time `json:"lastLogin,omitempty"`

	CurrentMonthScore int `json:"currentMonthScore"`
	CurrentMonthCoins int `json:"currentMonthCoins"`
	CurrentMonthGems  int `json:"currentMonthGems"`

	PrevMonthMoney int `json:"prevMonthMoney"`
	PrevMonthCoins int `json:"prevMonthCoins"`
	PrevMonthGems  int `json:"prevMonthGems"`

	TotalStudyMinutes int `json:"totalStudyMinutes"`
}
