package persistence

import (
	"github.com/backoffice/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// withinRange restricts column to r, bounds inclusive. Open bounds add no condition.
func withinRange(column string, r shared.DateRange) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if r.Start != nil {
			db = db.Where(column+" >= ?", r.Start.UTC())
		}
		if r.End != nil {
			db = db.Where(column+" <= ?", r.End.UTC())
		}
		return db
	}
}
