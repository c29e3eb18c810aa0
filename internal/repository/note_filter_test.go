package repository

import (
	"reflect"
	"strings"
	"testing"
)

func TestNoteFilterAlwaysScopesUserAndActive(t *testing.T) {
	where, args := NoteFilter{UserID: 42}.whereClause()

	if where != "WHERE user_id = $1 AND is_active = TRUE" {
		t.Errorf("where = %q", where)
	}
	if !reflect.DeepEqual(args, []interface{}{42}) {
		t.Errorf("args = %v", args)
	}
}

func TestNoteFilterIncludeInactive(t *testing.T) {
	where, _ := NoteFilter{UserID: 1, IncludeInactive: true}.whereClause()

	if strings.Contains(where, "is_active") {
		t.Errorf("explicit IncludeInactive must drop the active predicate: %q", where)
	}
	if !strings.Contains(where, "user_id = $1") {
		t.Errorf("user scope must never be dropped: %q", where)
	}
}

func TestNoteFilterFullPredicate(t *testing.T) {
	yes := true
	no := false
	where, args := NoteFilter{
		UserID:        7,
		ReferenceType: "pdf",
		ReferenceID:   "doc-9",
		Bookmarked:    &yes,
		Favourite:     &no,
		Tags:          []string{"contract", "tort"},
	}.whereClause()

	want := "WHERE user_id = $1 AND is_active = TRUE AND reference_type = $2" +
		" AND reference_id = $3 AND is_bookmarked = $4 AND is_favourite = $5 AND tags @> $6"
	if where != want {
		t.Errorf("where = %q\nwant    %q", where, want)
	}

	if len(args) != 6 {
		t.Fatalf("len(args) = %d, want 6", len(args))
	}
	if args[3] != true || args[4] != false {
		t.Errorf("flag args = %v, %v", args[3], args[4])
	}
	if !reflect.DeepEqual(args[5], []string{"contract", "tort"}) {
		t.Errorf("tags arg = %v", args[5])
	}
}

func TestNoteFilterArgPositionsStayAligned(t *testing.T) {
	// Skipping optional conditions must not leave gaps in the placeholders.
	where, args := NoteFilter{UserID: 1, Tags: []string{"evidence"}}.whereClause()

	if !strings.Contains(where, "tags @> $2") {
		t.Errorf("tags placeholder should be $2 when no other condition is set: %q", where)
	}
	if len(args) != 2 {
		t.Errorf("len(args) = %d, want 2", len(args))
	}
}
