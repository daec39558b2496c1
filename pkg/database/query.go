package database

import (
	"strings"

	"gorm.io/gorm"
)

// Scope is a reusable query fragment for gorm's Scopes.
type Scope = func(*gorm.DB) *gorm.DB

// MatchAny ORs a case-insensitive substring match of search over columns.
// An empty search leaves the query untouched.
func MatchAny(search string, columns ...string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		search = strings.TrimSpace(search)
		if search == "" || len(columns) == 0 {
			return db
		}

		pattern := "%" + strings.ToLower(search) + "%"
		clauses := make([]string, len(columns))
		args := make([]any, len(columns))
		for i, col := range columns {
			clauses[i] = "LOWER(" + col + ") LIKE ?"
			args[i] = pattern
		}
		return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
}

// Paginate applies a 1-based page window.
func Paginate(page, limit int) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset((page - 1) * limit).Limit(limit)
	}
}
