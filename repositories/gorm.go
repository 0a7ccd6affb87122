package repositories

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// isDuplicate reports whether err is a uniqueness violation from the driver.
// Conflict detection happens at write time so the loser of a concurrent
// insert race gets a CONFLICT error instead of silently overwriting.
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "Duplicate entry")
}

// likePattern builds the case-insensitive substring pattern for keyword
// matching. The trailing/leading %% make it a contains-match.
func likePattern(keyword string) string {
	return "%" + strings.ToLower(keyword) + "%"
}

// prefixPattern builds the pattern for name suggestions.
func prefixPattern(prefix string) string {
	return strings.ToLower(prefix) + "%"
}

// orderClause renders a validated sort into SQL. Sort fields are whitelisted
// by the service layer before they reach a repository.
func orderClause(sort Sort) string {
	dir := "ASC"
	if sort.Descending {
		dir = "DESC"
	}
	return fmt.Sprintf("%s %s", sort.Field, dir)
}
