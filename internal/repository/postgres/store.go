// Package postgres is the server-grade remote store, backed by a pgx pool.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vytor/dailyenglish/internal/logger"
	"github.com/vytor/dailyenglish/internal/models"
	"github.com/vytor/dailyenglish/internal/repository"
)

type store struct {
	pool *pgxpool.Pool
}

// NewStore creates a Store on top of an already migrated pool.
func NewStore(pool *pgxpool.Pool) repository.Store {
	return &store{pool: pool}
}

func (s *store) ListDayLogs(ctx context.Context, uid string) (models.LogsMap, error) {
	log := logger.FromContext(ctx).WithPrefix("pg_day_log_repo")
	log.Debug("listing day logs: uid=%s", uid)

	rows, err := s.pool.Query(ctx, `
		SELECT date_key, doc
		FROM day_logs
		WHERE user_id = $1
		ORDER BY date_key
	`, uid)
	if err != nil {
		log.Error("failed to list day logs: %v", err)
		return nil, fmt.Errorf("list day logs (uid=%s): %w", uid, err)
	}
	defer rows.Close()

	logs := make(models.LogsMap)
	for rows.Next() {
		var key string
		var doc []byte
		if err := rows.Scan(&key, &doc); err != nil {
			return nil, fmt.Errorf("scan day log: %w", err)
		}
		var l models.DailyLog
		if err := json.Unmarshal(doc, &l); err != nil {
			return nil, fmt.Errorf("decode day log %s: %w", key, err)
		}
		logs[key] = l
	}
	return logs, rows.Err()
}

func (s *store) SaveDayLog(ctx context.Context, uid, dateKey string, l models.DailyLog) error {
	doc, err := json.Marshal(l)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO day_logs (user_id, date_key, doc)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, date_key) DO UPDATE
		SET doc = EXCLUDED.doc, updated_at = NOW()
	`, uid, dateKey, doc)
	if err != nil {
		return fmt.Errorf("save day log (uid=%s, date=%s): %w", uid, dateKey, err)
	}
	return nil
}

func (s *store) UpsertSummary(ctx context.Context, sum models.StudentSummary) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO student_summaries (uid, display_name, email, photo_url, last_active, last_login,
		                               current_month_score, current_month_coins, current_month_gems,
		                               prev_month_money, prev_month_coins, prev_month_gems,
		                               total_study_minutes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (uid) DO UPDATE
		SET display_name = EXCLUDED.display_name,
		    email = EXCLUDED.email,
		    photo_url = EXCLUDED.photo_url,
		    last_active = EXCLUDED.last_active,
		    last_login = COALESCE(EXCLUDED.last_login, student_summaries.last_login),
		    current_month_score = EXCLUDED.current_month_score,
		    current_month_coins = EXCLUDED.current_month_coins,
		    current_month_gems = EXCLUDED.current_month_gems,
		    prev_month_money = EXCLUDED.prev_month_money,
		    prev_month_coins = EXCLUDED.prev_month_coins,
		    prev_month_gems = EXCLUDED.prev_month_gems,
		    total_study_minutes = EXCLUDED.total_study_minutes
	`,
		sum.UID, sum.DisplayName, sum.Email, sum.PhotoURL, sum.LastActive, sum.LastLogin,
		sum.CurrentMonthScore, sum.CurrentMonthCoins, sum.CurrentMonthGems,
		sum.PrevMonthMoney, sum.PrevMonthCoins, sum.PrevMonthGems,
		sum.TotalStudyMinutes,
	)
	if err != nil {
		return fmt.Errorf("upsert summary (uid=%s): %w", sum.UID, err)
	}
	return nil
}

func (s *store) TouchLogin(ctx context.Context, id models.Identity, at time.Time) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO student_summaries (uid, display_name, email, photo_url, last_login)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (uid) DO UPDATE SET last_login = EXCLUDED.last_login
	`, id.UID, id.DisplayName, id.Email, id.PhotoURL, at)
	if err != nil {
		return fmt.Errorf("touch login (uid=%s): %w", id.UID, err)
	}
	return nil
}

const summarySelect = `
	SELECT uid, display_name, email, photo_url, last_active, last_login,
	       current_month_score, current_month_coins, current_month_gems,
	       prev_month_money, prev_month_coins, prev_month_gems,
	       total_study_minutes
	FROM student_summaries
`

func (s *store) GetSummary(ctx context.Context, uid string) (*models.StudentSummary, error) {
	sum, err := scanSummary(s.pool.QueryRow(ctx, summarySelect+` WHERE uid = $1`, uid))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get summary (uid=%s): %w", uid, err)
	}
	return &sum, nil
}

func (s *store) ListSummaries(ctx context.Context) ([]models.StudentSummary, error) {
	rows, err := s.pool.Query(ctx, summarySelect+` ORDER BY last_active DESC NULLS LAST, uid`)
	if err != nil {
		return nil, fmt.Errorf("list summaries: %w", err)
	}
	defer rows.Close()

	var out []models.StudentSummary
	for rows.Next() {
		sum, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

func scanSummary(row pgx.Row) (models.StudentSummary, error) {
	var sum models.StudentSummary
	var lastActive *time.Time
	err := row.Scan(
		&sum.UID, &sum.DisplayName, &sum.Email, &sum.PhotoURL, &lastActive, &sum.LastLogin,
		&sum.CurrentMonthScore, &sum.CurrentMonthCoins, &sum.CurrentMonthGems,
		&sum.PrevMonthMoney, &sum.PrevMonthCoins, &sum.PrevMonthGems,
		&sum.TotalStudyMinutes,
	)
	if err != nil {
		return models.StudentSummary{}, err
	}
	if lastActive != nil {
		sum.LastActive = *lastActive
	}
	return sum, nil
}
