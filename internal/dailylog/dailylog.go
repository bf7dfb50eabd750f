// Package dailylog holds the pure rules over a single day's record:
// readiness predicates, money derivation and patch application.
package dailylog

import (
	"fmt"
	"strings"

	"github.com/vytor/dailyenglish/internal/models"
)

const (
	MoneyPerTask          = 10
	MaxDailyMoney         = 4 * MoneyPerTask
	MinMethodWords        = 2
	MinWritingWords       = 30
	ChallengeWordCount    = 6
	PaperChallengeCoins   = 5
	SpeakChallengeCoins   = 10
	WordStreakCoins       = 20
	WordStreakTargetDays  = 3
	MatchingGameDailyGems = 20
)

// Task identifies one of the four daily study tasks.
type Task string

const (
	TaskVocab     Task = "vocab"
	TaskSpeaking  Task = "speaking"
	TaskListening Task = "listening"
	TaskWriting   Task = "writing"
)

var Tasks = []Task{TaskVocab, TaskSpeaking, TaskListening, TaskWriting}

// Default returns the all-empty record used for days that were never written.
func Default() models.DailyLog {
	return models.DailyLog{}
}

// CountWords counts whitespace-separated tokens.
func CountWords(s string) int {
	return len(strings.Fields(s))
}

func filled(s string) bool {
	return strings.TrimSpace(s) != ""
}

func IsVocabReady(l models.DailyLog) bool {
	return filled(l.Vocab1Meaning) && filled(l.Vocab1Word) && CountWords(l.Vocab1Method) >= MinMethodWords &&
		filled(l.Vocab2Meaning) && filled(l.Vocab2Word) && CountWords(l.Vocab2Method) >= MinMethodWords
}

func IsSpeakingReady(l models.DailyLog) bool {
	return filled(l.SpeakingTopic) && filled(l.SpeakingVocab)
}

// IsListeningReady does not look at ListeningLink; the link is informational.
func IsListeningReady(l models.DailyLog) bool {
	return filled(l.ListeningTopic) && filled(l.ListeningVocab)
}

func IsWritingReady(l models.DailyLog) bool {
	return CountWords(l.WritingContent) >= MinWritingWords
}

// Readiness reports whether task may be marked done on l, and if not, a
// message telling the learner what is missing.
func Readiness(l models.DailyLog, task Task) (bool, string) {
	switch task {
	case TaskVocab:
		if IsVocabReady(l) {
			return true, ""
		}
		return false, "Please fill in all fields. Memorization/Examples must be at least 2 words."
	case TaskSpeaking:
		if IsSpeakingReady(l) {
			return true, ""
		}
		return false, "Please enter both the topic and the vocabulary learned."
	case TaskListening:
		if IsListeningReady(l) {
			return true, ""
		}
		return false, "Please enter both the topic and the vocabulary learned."
	case TaskWriting:
		if IsWritingReady(l) {
			return true, ""
		}
		return false, fmt.Sprintf("You need at least %d words. Current: %d words.", MinWritingWords, CountWords(l.WritingContent))
	default:
		return false, fmt.Sprintf("unknown task %q", task)
	}
}

// Done reports the completion flag of task.
func Done(l models.DailyLog, task Task) bool {
	switch task {
	case TaskVocab:
		return l.VocabDone
	case TaskSpeaking:
		return l.SpeakingDone
	case TaskListening:
		return l.ListeningDone
	case TaskWriting:
		return l.WritingDone
	}
	return false
}

// SetTimestamp writes the display-only completion stamp of task.
func SetTimestamp(l *models.DailyLog, task Task, stamp string) {
	switch task {
	case TaskVocab:
		l.VocabTimestamp = stamp
	case TaskSpeaking:
		l.SpeakingTimestamp = stamp
	case TaskListening:
		l.ListeningTimestamp = stamp
	case TaskWriting:
		l.WritingTimestamp = stamp
	}
}

// TotalMoney is 10 for every completed task.
func TotalMoney(l models.DailyLog) int {
	total := 0
	for _, t := range Tasks {
		if Done(l, t) {
			total += MoneyPerTask
		}
	}
	return total
}

// ApplyPatch overwrites every non-nil field of p onto l. TotalMoney is not
// recomputed here.
func ApplyPatch(l models.DailyLog, p models.Patch) models.DailyLog {
	setString(&l.Vocab1Meaning, p.Vocab1Meaning)
	setString(&l.Vocab1Word, p.Vocab1Word)
	setString(&l.Vocab1Method, p.Vocab1Method)
	setString(&l.Vocab2Meaning, p.Vocab2Meaning)
	setString(&l.Vocab2Word, p.Vocab2Word)
	setString(&l.Vocab2Method, p.Vocab2Method)
	setBool(&l.VocabDone, p.VocabDone)
	setString(&l.VocabTimestamp, p.VocabTimestamp)

	setString(&l.SpeakingTopic, p.SpeakingTopic)
	setString(&l.SpeakingVocab, p.SpeakingVocab)
	setBool(&l.SpeakingDone, p.SpeakingDone)
	setString(&l.SpeakingTimestamp, p.SpeakingTimestamp)
	setInt(&l.SpeakingDuration, p.SpeakingDuration)

	setString(&l.ListeningTopic, p.ListeningTopic)
	setString(&l.ListeningLink, p.ListeningLink)
	setString(&l.ListeningVocab, p.ListeningVocab)
	setBool(&l.ListeningDone, p.ListeningDone)
	setString(&l.ListeningTimestamp, p.ListeningTimestamp)
	setInt(&l.ListeningDuration, p.ListeningDuration)

	setString(&l.WritingContent, p.WritingContent)
	setBool(&l.WritingDone, p.WritingDone)
	setString(&l.WritingTimestamp, p.WritingTimestamp)
	setInt(&l.WritingDuration, p.WritingDuration)

	setInt(&l.StudyMinutes, p.StudyMinutes)
	setInt(&l.DailyCoins, p.DailyCoins)
	setInt(&l.DailyGems, p.DailyGems)
	setInt(&l.Game1Earnings, p.Game1Earnings)
	setInt(&l.Game3Earnings, p.Game3Earnings)

	setBool(&l.Challenge1Done, p.Challenge1Done)
	setBool(&l.Challenge2Done, p.Challenge2Done)
	setInt(&l.Challenge2Streak, p.Challenge2Streak)
	if p.Challenge2Words != nil {
		l.Challenge2Words = *p.Challenge2Words
	}
	setBool(&l.Challenge3Done, p.Challenge3Done)
	return l
}

// Completions lists the tasks whose done flag p sets to true.
func Completions(p models.Patch) []Task {
	var out []Task
	if p.VocabDone != nil && *p.VocabDone {
		out = append(out, TaskVocab)
	}
	if p.SpeakingDone != nil && *p.SpeakingDone {
		out = append(out, TaskSpeaking)
	}
	if p.ListeningDone != nil && *p.ListeningDone {
		out = append(out, TaskListening)
	}
	if p.WritingDone != nil && *p.WritingDone {
		out = append(out, TaskWriting)
	}
	return out
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

// NextWordStreak derives today's six-word streak from yesterday's record.
// Only yesterday is consulted, so any gap restarts the streak at 1. Reaching
// the target pays WordStreakCoins and wraps the streak back to 0.
func NextWordStreak(yesterday models.DailyLog) (streak int, coins int) {
	streak = 1
	if yesterday.Challenge2Done {
		streak = yesterday.Challenge2Streak + 1
	}
	if streak >= WordStreakTargetDays {
		return 0, WordStreakCoins
	}
	return streak, 0
}
