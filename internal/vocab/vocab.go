// Package vocab assembles the word pools the mini-games and the monthly
// review are built from.
package vocab

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/vytor/dailyenglish/internal/logicalday"
	"github.com/vytor/dailyenglish/internal/models"
)

const (
	// WindowDays is how far back Sample looks from its anchor date.
	WindowDays = 28
	// MinWordLength drops words too short to be useful in the games.
	MinWordLength  = 3
	DefaultMinimum = 30
)

// Fallback tops up pools for learners who have not logged enough words yet.
var Fallback = []models.VocabEntry{
	{Word: "FAMILY", Meaning: "Gia đình"},
	{Word: "FRIEND", Meaning: "Bạn bè"},
	{Word: "SCHOOL", Meaning: "Trường học"},
	{Word: "TEACHER", Meaning: "Giáo viên"},
	{Word: "STUDENT", Meaning: "Học sinh"},
	{Word: "DOCTOR", Meaning: "Bác sĩ"},
	{Word: "HOUSE", Meaning: "Ngôi nhà"},
	{Word: "GARDEN", Meaning: "Khu vườn"},
	{Word: "WATER", Meaning: "Nước"},
	{Word: "MONEY", Meaning: "Tiền"},
	{Word: "HAPPY", Meaning: "Hạnh phúc"},
	{Word: "SMILE", Meaning: "Nụ cười"},
	{Word: "FUTURE", Meaning: "Tương lai"},
	{Word: "DREAM", Meaning: "Giấc mơ"},
	{Word: "TRAVEL", Meaning: "Du lịch"},
	{Word: "MUSIC", Meaning: "Âm nhạc"},
	{Word: "MOVIE", Meaning: "Phim ảnh"},
	{Word: "BOOK", Meaning: "Sách"},
	{Word: "COMPUTER", Meaning: "Máy tính"},
	{Word: "PHONE", Meaning: "Điện thoại"},
	{Word: "INTERNET", Meaning: "Mạng internet"},
	{Word: "COFFEE", Meaning: "Cà phê"},
	{Word: "BREAKFAST", Meaning: "Bữa sáng"},
	{Word: "DINNER", Meaning: "Bữa tối"},
	{Word: "SUMMER", Meaning: "Mùa hè"},
	{Word: "WINTER", Meaning: "Mùa đông"},
	{Word: "NATURE", Meaning: "Thiên nhiên"},
	{Word: "ANIMAL", Meaning: "Động vật"},
	{Word: "SUCCESS", Meaning: "Thành công"},
	{Word: "EFFORT", Meaning: "Nỗ lực"},
	{Word: "CHALLENGE", Meaning: "Thử thách"},
	{Word: "GOAL", Meaning: "Mục tiêu"},
	{Word: "HABIT", Meaning: "Thói quen"},
	{Word: "HEALTH", Meaning: "Sức khỏe"},
	{Word: "EXERCISE", Meaning: "Thể dục"},
}

// Shuffler is satisfied by *rand.Rand from math/rand and math/rand/v2.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

type globalShuffler struct{}

func (globalShuffler) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

// Sample collects the learner's words from completed vocabulary days in
// [anchor-28d, anchor], uppercased and deduplicated, then tops the pool up
// to minCount from the shuffled fallback list. User words come out in date
// order, so only the fallback portion varies between calls.
func Sample(logs models.LogsMap, anchorKey string, minCount int, rng Shuffler) ([]models.VocabEntry, error) {
	cutoff, err := logicalday.AddDays(anchorKey, -WindowDays)
	if err != nil {
		return nil, err
	}
	if rng == nil {
		rng = globalShuffler{}
	}

	keys := make([]string, 0, len(logs))
	for key := range logs {
		if key >= cutoff && key <= anchorKey {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	seen := make(map[string]struct{})
	var out []models.VocabEntry
	add := func(word, meaning string) {
		word = strings.ToUpper(strings.TrimSpace(word))
		if utf8.RuneCountInString(word) < MinWordLength {
			return
		}
		if _, dup := seen[word]; dup {
			return
		}
		seen[word] = struct{}{}
		out = append(out, models.VocabEntry{Word: word, Meaning: meaning})
	}

	for _, key := range keys {
		l := logs[key]
		if !l.VocabDone {
			continue
		}
		add(l.Vocab1Word, l.Vocab1Meaning)
		add(l.Vocab2Word, l.Vocab2Meaning)
	}

	if len(out) >= minCount {
		return out, nil
	}

	fallback := make([]models.VocabEntry, len(Fallback))
	copy(fallback, Fallback)
	rng.Shuffle(len(fallback), func(i, j int) { fallback[i], fallback[j] = fallback[j], fallback[i] })
	for _, e := range fallback {
		if len(out) >= minCount {
			break
		}
		add(e.Word, e.Meaning)
	}
	return out, nil
}

// ReviewByWeek lists the words of the month's completed vocabulary days,
// bucketed into days 1-7, 8-14, 15-21 and 22 to month end.
func ReviewByWeek(logs models.LogsMap, year int, month time.Month) []models.ReviewWeek {
	last := logicalday.DaysInMonth(year, month)
	weeks := []models.ReviewWeek{
		{Week: 1, FromDay: 1, ToDay: 7},
		{Week: 2, FromDay: 8, ToDay: 14},
		{Week: 3, FromDay: 15, ToDay: 21},
		{Week: 4, FromDay: 22, ToDay: last},
	}
	prefix := logicalday.MonthPrefix(year, month)

	for day := 1; day <= last; day++ {
		l, ok := logs[fmt.Sprintf("%s-%02d", prefix, day)]
		if !ok || !l.VocabDone {
			continue
		}
		w := &weeks[min((day-1)/7, 3)]
		if strings.TrimSpace(l.Vocab1Word) != "" {
			w.Entries = append(w.Entries, models.VocabEntry{Word: l.Vocab1Word, Meaning: l.Vocab1Meaning, Day: day})
		}
		if strings.TrimSpace(l.Vocab2Word) != "" {
			w.Entries = append(w.Entries, models.VocabEntry{Word: l.Vocab2Word, Meaning: l.Vocab2Meaning, Day: day})
		}
	}
	return weeks
}
