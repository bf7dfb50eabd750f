package sqlite

import (
	"database/sql"

	"github.com/vytor/dailyenglish/internal/repository"
)

type store struct {
	repository.DayLogRepository
	repository.SummaryRepository
}

// NewStore bundles the SQLite day-log and summary repositories into one remote Store.
func NewStore(db *sql.DB) repository.Store {
	return &store{
		DayLogRepository:  NewDayLogRepository(db),
		SummaryRepository: NewSummaryRepository(db),
	}
}
