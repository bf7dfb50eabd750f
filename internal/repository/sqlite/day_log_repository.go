package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/vytor/dailyenglish/internal/logger"
	"github.com/vytor/dailyenglish/internal/models"
	"github.com/vytor/dailyenglish/internal/repository"
)

type dayLogRepository struct {
	db *sql.DB
}

// NewDayLogRepository creates a new DayLogRepository implementation
func NewDayLogRepository(db *sql.DB) repository.DayLogRepository {
	return &dayLogRepository{db: db}
}

func (r *dayLogRepository) ListDayLogs(ctx context.Context, uid string) (models.LogsMap, error) {
	log := logger.FromContext(ctx).WithPrefix("day_log_repo")
	log.Debug("listing day logs: uid=%s", uid)

	query, args, err := sqlBuilder.
		Select("date_key", "doc").
		From("day_logs").
		Where("user_id = ?", uid).
		OrderBy("date_key ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list day logs: %v", err)
		return nil, err
	}
	defer rows.Close()

	logs := make(models.LogsMap)
	for rows.Next() {
		var key, doc string
		if err := rows.Scan(&key, &doc); err != nil {
			log.Error("failed to scan day log row: %v", err)
			return nil, err
		}
		var l models.DailyLog
		if err := json.Unmarshal([]byte(doc), &l); err != nil {
			log.Error("corrupt day log document: uid=%s date=%s: %v", uid, key, err)
			return nil, fmt.Errorf("decode day log %s: %w", key, err)
		}
		logs[key] = l
	}

	log.Debug("found %d day logs", len(logs))
	return logs, rows.Err()
}

func (r *dayLogRepository) SaveDayLog(ctx context.Context, uid, dateKey string, l models.DailyLog) error {
	log := logger.FromContext(ctx).WithPrefix("day_log_repo")
	log.Debug("saving day log: uid=%s date=%s", uid, dateKey)

	doc, err := json.Marshal(l)
	if err != nil {
		return err
	}

	query, args, err := sqlBuilder.
		Insert("day_logs").
		Columns("user_id", "date_key", "doc").
		Values(uid, dateKey, string(doc)).
		Suffix("ON CONFLICT(user_id, date_key) DO UPDATE SET doc = excluded.doc, updated_at = CURRENT_TIMESTAMP").
		ToSql()
	if err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to save day log: %v", err)
		return err
	}
	return nil
}
