package database

import (
	"gorm.io/gorm"

	"github.com/yukikurage/fest-registration-api/internal/utils"
)

// Paginate applies pagination to a GORM query
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}

// ContainsFold matches any of the columns against a pattern built by
// utils.SearchPattern. An empty pattern leaves the query untouched.
func ContainsFold(pattern string, columns ...string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if pattern == "" || len(columns) == 0 {
			return db
		}
		cond := db.Session(&gorm.Session{NewDB: true})
		for i, col := range columns {
			expr := "LOWER(" + col + ") LIKE ? ESCAPE '" + utils.LikeEscape + "'"
			if i == 0 {
				cond = cond.Where(expr, pattern)
			} else {
				cond = cond.Or(expr, pattern)
			}
		}
		return db.Where(cond)
	}
}
