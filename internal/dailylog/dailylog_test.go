package dailylog_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vytor/dailyenglish/internal/dailylog"
	"github.com/vytor/dailyenglish/internal/models"
)

func readyVocab() models.DailyLog {
	return models.DailyLog{
		Vocab1Meaning: "nhà", Vocab1Word: "house", Vocab1Method: "my house is big",
		Vocab2Meaning: "xe", Vocab2Word: "car", Vocab2Method: "a red car",
	}
}

func TestCountWords(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"   \t\n ", 0},
		{"one", 1},
		{"  two   words ", 2},
		{"line\nbreak\ttab", 3},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.in), func(t *testing.T) {
			assert.Equal(t, tt.want, dailylog.CountWords(tt.in))
		})
	}
}

func TestTotalMoney_AllFlagCombinations(t *testing.T) {
	for mask := 0; mask < 16; mask++ {
		l := models.DailyLog{
			VocabDone:     mask&1 != 0,
			SpeakingDone:  mask&2 != 0,
			ListeningDone: mask&4 != 0,
			WritingDone:   mask&8 != 0,
		}
		want := 0
		for bit := 0; bit < 4; bit++ {
			if mask&(1<<bit) != 0 {
				want += 10
			}
		}

		first := dailylog.TotalMoney(l)
		assert.Equal(t, want, first, "mask %04b", mask)
		assert.Equal(t, first, dailylog.TotalMoney(l), "mask %04b should be stable", mask)
	}
}

func TestIsVocabReady(t *testing.T) {
	assert.True(t, dailylog.IsVocabReady(readyVocab()))

	missingWord := readyVocab()
	missingWord.Vocab2Word = "   "
	assert.False(t, dailylog.IsVocabReady(missingWord))

	shortMethod := readyVocab()
	shortMethod.Vocab1Method = "house"
	assert.False(t, dailylog.IsVocabReady(shortMethod))

	ok, reason := dailylog.Readiness(shortMethod, dailylog.TaskVocab)
	assert.False(t, ok)
	assert.Contains(t, reason, "at least 2 words")
}

func TestIsSpeakingReady(t *testing.T) {
	assert.False(t, dailylog.IsSpeakingReady(models.DailyLog{SpeakingTopic: "travel"}))
	assert.True(t, dailylog.IsSpeakingReady(models.DailyLog{SpeakingTopic: "travel", SpeakingVocab: "journey"}))
}

func TestIsListeningReady_LinkOptional(t *testing.T) {
	l := models.DailyLog{ListeningTopic: "podcast", ListeningVocab: "episode"}
	assert.True(t, dailylog.IsListeningReady(l))

	l.ListeningVocab = ""
	l.ListeningLink = "https://youtube.com/watch?v=x"
	assert.False(t, dailylog.IsListeningReady(l))
}

func TestIsWritingReady(t *testing.T) {
	l := models.DailyLog{WritingContent: strings.Repeat("word ", 29)}
	assert.False(t, dailylog.IsWritingReady(l))

	ok, reason := dailylog.Readiness(l, dailylog.TaskWriting)
	assert.False(t, ok)
	assert.Equal(t, "You need at least 30 words. Current: 29 words.", reason)

	l.WritingContent += "thirty"
	assert.True(t, dailylog.IsWritingReady(l))
}

func TestApplyPatch_OnlyTouchesSetFields(t *testing.T) {
	base := readyVocab()
	base.StudyMinutes = 12

	got := dailylog.ApplyPatch(base, models.Patch{
		Vocab1Word:      models.Ptr("home"),
		DailyCoins:      models.Ptr(5),
		Challenge2Words: &[6]string{"a", "b", "c", "d", "e", "f"},
	})

	assert.Equal(t, "home", got.Vocab1Word)
	assert.Equal(t, "nhà", got.Vocab1Meaning)
	assert.Equal(t, 12, got.StudyMinutes)
	assert.Equal(t, 5, got.DailyCoins)
	assert.Equal(t, "f", got.Challenge2Words[5])
	assert.Equal(t, "house", base.Vocab1Word, "input record must not be modified")
}

func TestCompletions(t *testing.T) {
	p := models.Patch{
		VocabDone:    models.Ptr(true),
		WritingDone:  models.Ptr(false),
		SpeakingDone: models.Ptr(true),
	}
	assert.Equal(t, []dailylog.Task{dailylog.TaskVocab, dailylog.TaskSpeaking}, dailylog.Completions(p))
	assert.Empty(t, dailylog.Completions(models.Patch{}))
}

func TestNextWordStreak(t *testing.T) {
	tests := []struct {
		name       string
		yesterday  models.DailyLog
		wantStreak int
		wantCoins  int
	}{
		{"no record yesterday", dailylog.Default(), 1, 0},
		{"yesterday just completed a cycle", models.DailyLog{Challenge2Done: true, Challenge2Streak: 0}, 1, 0},
		{"second day", models.DailyLog{Challenge2Done: true, Challenge2Streak: 1}, 2, 0},
		{"third day pays out", models.DailyLog{Challenge2Done: true, Challenge2Streak: 2}, 0, 20},
		{"stale streak without done flag", models.DailyLog{Challenge2Streak: 2}, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			streak, coins := dailylog.NextWordStreak(tt.yesterday)
			assert.Equal(t, tt.wantStreak, streak)
			assert.Equal(t, tt.wantCoins, coins)
		})
	}
}
