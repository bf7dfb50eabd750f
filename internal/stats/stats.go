// Package stats folds a day-map into monthly, weekly and per-account totals.
// Every function recomputes from the day-map; nothing is maintained incrementally.
package stats

import (
	"fmt"
	"strings"
	"time"

	"github.com/vytor/dailyenglish/internal/dailylog"
	"github.com/vytor/dailyenglish/internal/logicalday"
	"github.com/vytor/dailyenglish/internal/models"
)

// MonthlyTotals sums money and score over the month's keys. Coins and gems
// are summed over the whole map regardless of month.
func MonthlyTotals(logs models.LogsMap, year int, month time.Month) models.MonthlyTotals {
	prefix := logicalday.MonthPrefix(year, month) + "-"
	out := models.MonthlyTotals{
		Year:     year,
		Month:    int(month),
		MaxScore: logicalday.DaysInMonth(year, month) * len(dailylog.Tasks),
	}
	for key, l := range logs {
		if strings.HasPrefix(key, prefix) {
			out.TotalEarned += l.TotalMoney
			out.CurrentScore += l.TotalMoney / dailylog.MoneyPerTask
		}
		out.TotalCoins += l.DailyCoins
		out.TotalGems += l.DailyGems
	}
	return out
}

// WeekComplete reports whether a calendar row has at least one real day and
// every real day earned the full daily amount. Empty keys are padding.
func WeekComplete(logs models.LogsMap, weekKeys []string) bool {
	days := 0
	for _, key := range weekKeys {
		if key == "" {
			continue
		}
		days++
		if logs[key].TotalMoney != dailylog.MaxDailyMoney {
			return false
		}
	}
	return days > 0
}

// CalendarWeeks lays the month out in Monday-first rows of seven keys,
// padding the first and last rows with "".
func CalendarWeeks(year int, month time.Month) [][]string {
	lead := logicalday.FirstWeekdayIndex(year, month)
	days := logicalday.DaysInMonth(year, month)
	prefix := logicalday.MonthPrefix(year, month)

	cells := make([]string, lead, lead+days+6)
	for d := 1; d <= days; d++ {
		cells = append(cells, fmt.Sprintf("%s-%02d", prefix, d))
	}
	for len(cells)%7 != 0 {
		cells = append(cells, "")
	}

	weeks := make([][]string, 0, len(cells)/7)
	for i := 0; i < len(cells); i += 7 {
		weeks = append(weeks, cells[i:i+7])
	}
	return weeks
}

func WeekStatuses(logs models.LogsMap, year int, month time.Month) []models.WeekStatus {
	weeks := CalendarWeeks(year, month)
	out := make([]models.WeekStatus, 0, len(weeks))
	for _, w := range weeks {
		out = append(out, models.WeekStatus{Days: w, Complete: WeekComplete(logs, w)})
	}
	return out
}

// BuildStudentSummary rebuilds the account rollup as of asOfKey's month.
// LastActive is stamped with now; LastLogin is left nil so an upsert keeps
// the stored value.
func BuildStudentSummary(logs models.LogsMap, id models.Identity, asOfKey string, now time.Time) (models.StudentSummary, error) {
	year, month, err := logicalday.KeyMonth(asOfKey)
	if err != nil {
		return models.StudentSummary{}, err
	}
	curPrefix := logicalday.MonthPrefix(year, month) + "-"
	py, pm := logicalday.PrevMonth(year, month)
	prevPrefix := logicalday.MonthPrefix(py, pm) + "-"

	s := models.StudentSummary{
		UID:         id.UID,
		DisplayName: id.DisplayName,
		Email:       id.Email,
		PhotoURL:    id.PhotoURL,
		LastActive:  now,
	}
	for key, l := range logs {
		switch {
		case strings.HasPrefix(key, curPrefix):
			s.CurrentMonthScore += l.TotalMoney
			s.CurrentMonthCoins += l.DailyCoins
			s.CurrentMonthGems += l.DailyGems
		case strings.HasPrefix(key, prevPrefix):
			s.PrevMonthMoney += l.TotalMoney
			s.PrevMonthCoins += l.DailyCoins
			s.PrevMonthGems += l.DailyGems
		}
		s.TotalStudyMinutes += l.StudyMinutes
	}
	return s, nil
}
