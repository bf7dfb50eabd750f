package engine

import (
	"context"
	"fmt"

	"github.com/vytor/dailyenglish/internal/dailylog"
	"github.com/vytor/dailyenglish/internal/errors"
	"github.com/vytor/dailyenglish/internal/models"
)

// Game is one of the vocabulary mini-games that pay gems.
type Game string

const (
	GameMatching Game = "matching"
	GameFalling  Game = "falling"
	GameBuilder  Game = "builder"
)

// ParseGame validates a game name.
func ParseGame(s string) (Game, error) {
	switch g := Game(s); g {
	case GameMatching, GameFalling, GameBuilder:
		return g, nil
	}
	return "", errors.NewValidationError("game", fmt.Sprintf("unknown game %q", s))
}

// AwardGems credits amount gems earned in game to dateKey. Matching game
// awards are clamped to what is left of its daily allowance.
func (t *Tracker) AwardGems(ctx context.Context, dateKey string, game Game, amount int) (models.DailyLog, []models.Event, error) {
	if amount <= 0 {
		return models.DailyLog{}, nil, errors.NewValidationError("amount", "must be greater than 0")
	}
	if _, err := ParseGame(string(game)); err != nil {
		return models.DailyLog{}, nil, err
	}

	return t.update(ctx, dateKey, func(current models.DailyLog) (models.Patch, error) {
		patch := models.Patch{}
		switch game {
		case GameMatching:
			remaining := dailylog.MatchingGameDailyGems - current.Game1Earnings
			if remaining <= 0 {
				return models.Patch{}, errors.NewAlreadyDoneError("matching game reward")
			}
			amount = min(amount, remaining)
			patch.Game1Earnings = models.Ptr(current.Game1Earnings + amount)
		case GameBuilder:
			patch.Game3Earnings = models.Ptr(current.Game3Earnings + amount)
		}
		patch.DailyGems = models.Ptr(current.DailyGems + amount)
		return patch, nil
	})
}
