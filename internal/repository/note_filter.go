package repository

import (
	"fmt"
	"strings"
)

// NoteFilter narrows note reads. Every read path funnels through whereClause
// so the soft-delete filter cannot be forgotten in an individual query:
// unless IncludeInactive is set explicitly, is_active = TRUE is always part
// of the predicate.
type NoteFilter struct {
	UserID          int
	ReferenceType   string
	ReferenceID     string
	Bookmarked      *bool
	Favourite       *bool
	Tags            []string
	IncludeInactive bool
}

// whereClause renders the filter as a WHERE clause with positional args.
func (f NoteFilter) whereClause() (string, []interface{}) {
	conds := []string{"user_id = $1"}
	args := []interface{}{f.UserID}

	if !f.IncludeInactive {
		conds = append(conds, "is_active = TRUE")
	}
	if f.ReferenceType != "" {
		args = append(args, f.ReferenceType)
		conds = append(conds, fmt.Sprintf("reference_type = $%d", len(args)))
	}
	if f.ReferenceID != "" {
		args = append(args, f.ReferenceID)
		conds = append(conds, fmt.Sprintf("reference_id = $%d", len(args)))
	}
	if f.Bookmarked != nil {
		args = append(args, *f.Bookmarked)
		conds = append(conds, fmt.Sprintf("is_bookmarked = $%d", len(args)))
	}
	if f.Favourite != nil {
		args = append(args, *f.Favourite)
		conds = append(conds, fmt.Sprintf("is_favourite = $%d", len(args)))
	}
	if len(f.Tags) > 0 {
		args = append(args, f.Tags)
		conds = append(conds, fmt.Sprintf("tags @> $%d", len(args)))
	}

	return "WHERE " + strings.Join(conds, " AND "), args
}
