package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/dailyenglish/internal/logger"
	"github.com/vytor/dailyenglish/internal/models"
	"github.com/vytor/dailyenglish/internal/repository"
)

var summaryColumns = []string{
	"uid", "display_name", "email", "photo_url", "last_active", "last_login",
	"current_month_score", "current_month_coins", "current_month_gems",
	"prev_month_money", "prev_month_coins", "prev_month_gems",
	"total_study_minutes",
}

type summaryRepository struct {
	db *sql.DB
}

// NewSummaryRepository creates a new SummaryRepository implementation
func NewSummaryRepository(db *sql.DB) repository.SummaryRepository {
	return &summaryRepository{db: db}
}

func (r *summaryRepository) UpsertSummary(ctx context.Context, s models.StudentSummary) error {
	log := logger.FromContext(ctx).WithPrefix("summary_repo")
	log.Debug("upserting summary: uid=%s", s.UID)

	query, args, err := sqlBuilder.
		Insert("student_summaries").
		Columns(summaryColumns...).
		Values(
			s.UID, s.DisplayName, s.Email, s.PhotoURL, s.LastActive, s.LastLogin,
			s.CurrentMonthScore, s.CurrentMonthCoins, s.CurrentMonthGems,
			s.PrevMonthMoney, s.PrevMonthCoins, s.PrevMonthGems,
			s.TotalStudyMinutes,
		).
		Suffix(`ON CONFLICT(uid) DO UPDATE SET
    display_name = excluded.display_name,
    email = excluded.email,
    photo_url = excluded.photo_url,
    last_active = excluded.last_active,
    last_login = COALESCE(excluded.last_login, student_summaries.last_login),
    current_month_score = excluded.current_month_score,
    current_month_coins = excluded.current_month_coins,
    current_month_gems = excluded.current_month_gems,
    prev_month_money = excluded.prev_month_money,
    prev_month_coins = excluded.prev_month_coins,
    prev_month_gems = excluded.prev_month_gems,
    total_study_minutes = excluded.total_study_minutes`).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to upsert summary: %v", err)
		return err
	}
	return nil
}

func (r *summaryRepository) TouchLogin(ctx context.Context, id models.Identity, at time.Time) error {
	log := logger.FromContext(ctx).WithPrefix("summary_repo")
	log.Debug("touching login: uid=%s", id.UID)

	return tx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO student_summaries (uid, display_name, email, photo_url)
VALUES (?, ?, ?, ?)
ON CONFLICT(uid) DO NOTHING
`, id.UID, id.DisplayName, id.Email, id.PhotoURL); err != nil {
			log.Error("failed to create summary for uid=%s: %v", id.UID, err)
			return err
		}

		query, args, err := sqlBuilder.
			Update("student_summaries").
			Set("last_login", at).
			Where(squirrel.Eq{"uid": id.UID}).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			log.Error("failed to stamp last_login for uid=%s: %v", id.UID, err)
			return err
		}
		return nil
	})
}

func (r *summaryRepository) GetSummary(ctx context.Context, uid string) (*models.StudentSummary, error) {
	log := logger.FromContext(ctx).WithPrefix("summary_repo")
	log.Debug("getting summary: uid=%s", uid)

	query, args, err := sqlBuilder.
		Select(summaryColumns...).
		From("student_summaries").
		Where(squirrel.Eq{"uid": uid}).
		ToSql()
	if err != nil {
		return nil, err
	}

	s, err := scanSummary(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("summary not found: uid=%s", uid)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get summary: %v", err)
		return nil, err
	}
	return &s, nil
}

func (r *summaryRepository) ListSummaries(ctx context.Context) ([]models.StudentSummary, error) {
	log := logger.FromContext(ctx).WithPrefix("summary_repo")
	log.Debug("listing summaries")

	query, args, err := sqlBuilder.
		Select(summaryColumns...).
		From("student_summaries").
		OrderBy("last_active DESC", "uid ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list summaries: %v", err)
		return nil, err
	}
	defer rows.Close()

	var summaries []models.StudentSummary
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			log.Error("failed to scan summary row: %v", err)
			return nil, err
		}
		summaries = append(summaries, s)
	}

	log.Debug("found %d summaries", len(summaries))
	return summaries, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSummary(row rowScanner) (models.StudentSummary, error) {
	var s models.StudentSummary
	var lastActive *time.Time
	err := row.Scan(
		&s.UID, &s.DisplayName, &s.Email, &s.PhotoURL, &lastActive, &s.LastLogin,
		&s.CurrentMonthScore, &s.CurrentMonthCoins, &s.CurrentMonthGems,
		&s.PrevMonthMoney, &s.PrevMonthCoins, &s.PrevMonthGems,
		&s.TotalStudyMinutes,
	)
	if err != nil {
		return models.StudentSummary{}, err
	}
	if lastActive != nil {
		s.LastActive = *lastActive
	}
	return s, nil
}
