package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/vytor/dailyenglish/internal/dailylog"
	"github.com/vytor/dailyenglish/internal/errors"
	"github.com/vytor/dailyenglish/internal/logicalday"
	"github.com/vytor/dailyenglish/internal/models"
)

// CompletePaperChallenge marks challenge 1 done and pays its coins.
func (t *Tracker) CompletePaperChallenge(ctx context.Context, dateKey string) (models.DailyLog, []models.Event, error) {
	return t.update(ctx, dateKey, func(current models.DailyLog) (models.Patch, error) {
		if current.Challenge1Done {
			return models.Patch{}, errors.NewAlreadyDoneError("paper challenge")
		}
		return models.Patch{
			Challenge1Done: models.Ptr(true),
			DailyCoins:     models.Ptr(current.DailyCoins + dailylog.PaperChallengeCoins),
		}, nil
	})
}

// CompleteSpeakingChallenge marks challenge 3 done and pays its coins.
func (t *Tracker) CompleteSpeakingChallenge(ctx context.Context, dateKey string) (models.DailyLog, []models.Event, error) {
	return t.update(ctx, dateKey, func(current models.DailyLog) (models.Patch, error) {
		if current.Challenge3Done {
			return models.Patch{}, errors.NewAlreadyDoneError("speaking challenge")
		}
		return models.Patch{
			Challenge3Done: models.Ptr(true),
			DailyCoins:     models.Ptr(current.DailyCoins + dailylog.SpeakChallengeCoins),
		}, nil
	})
}

// SubmitWordStreak records today's six words and advances the streak from
// yesterday's record only.
func (t *Tracker) SubmitWordStreak(ctx context.Context, dateKey string, words [dailylog.ChallengeWordCount]string) (models.DailyLog, []models.Event, error) {
	var cleaned [dailylog.ChallengeWordCount]string
	for i, w := range words {
		cleaned[i] = strings.TrimSpace(w)
		if cleaned[i] == "" {
			return models.DailyLog{}, nil, errors.NewValidationError("words", fmt.Sprintf("all %d words are required", dailylog.ChallengeWordCount))
		}
	}

	yesterdayKey, err := logicalday.YesterdayKey(dateKey)
	if err != nil {
		return models.DailyLog{}, nil, errors.NewValidationError("date", err.Error())
	}

	return t.update(ctx, dateKey, func(current models.DailyLog) (models.Patch, error) {
		if current.Challenge2Done {
			return models.Patch{}, errors.NewAlreadyDoneError("word streak challenge")
		}
		// Called under the tracker lock.
		streak, coins := dailylog.NextWordStreak(t.logs[yesterdayKey])
		return models.Patch{
			Challenge2Done:   models.Ptr(true),
			Challenge2Streak: models.Ptr(streak),
			Challenge2Words:  &cleaned,
			DailyCoins:       models.Ptr(current.DailyCoins + coins),
		}, nil
	})
}
