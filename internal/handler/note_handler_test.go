package handler

import (
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/gin-gonic/gin"
)

func newQueryContext(t *testing.T, target string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", target, nil)
	return c
}

func TestNoteFilterFromQueryFlags(t *testing.T) {
	c := newQueryContext(t, "/notes?is_bookmarked=true")
	filter := noteFilterFromQuery(c, 7)

	if filter.UserID != 7 {
		t.Fatalf("UserID = %d, want 7", filter.UserID)
	}
	if filter.Bookmarked == nil || !*filter.Bookmarked {
		t.Fatalf("Bookmarked = %v, want true", filter.Bookmarked)
	}
	if filter.Favourite != nil {
		t.Fatalf("Favourite = %v, want nil", filter.Favourite)
	}

	c = newQueryContext(t, "/notes?is_favourite=false")
	filter = noteFilterFromQuery(c, 7)
	if filter.Favourite == nil || *filter.Favourite {
		t.Fatalf("Favourite = %v, want false", filter.Favourite)
	}
	if filter.Bookmarked != nil {
		t.Fatalf("Bookmarked = %v, want nil", filter.Bookmarked)
	}
}

func TestNoteFilterFromQueryCombined(t *testing.T) {
	c := newQueryContext(t, "/notes?reference_type=quiz&reference_id=q1&is_bookmarked=1&is_favourite=true&tags=%20contract%20,tort,")
	filter := noteFilterFromQuery(c, 3)

	if filter.ReferenceType != "quiz" || filter.ReferenceID != "q1" {
		t.Fatalf("reference = %q/%q, want quiz/q1", filter.ReferenceType, filter.ReferenceID)
	}
	if filter.Bookmarked == nil || !*filter.Bookmarked {
		t.Fatalf("Bookmarked = %v, want true", filter.Bookmarked)
	}
	if filter.Favourite == nil || !*filter.Favourite {
		t.Fatalf("Favourite = %v, want true", filter.Favourite)
	}
	if want := []string{"contract", "tort"}; !reflect.DeepEqual(filter.Tags, want) {
		t.Fatalf("Tags = %v, want %v", filter.Tags, want)
	}
}

func TestNoteFilterFromQueryIgnoresJunkFlags(t *testing.T) {
	c := newQueryContext(t, "/notes?is_bookmarked=maybe&is_favourite=")
	filter := noteFilterFromQuery(c, 1)

	if filter.Bookmarked != nil {
		t.Fatalf("Bookmarked = %v, want nil for an unparseable value", filter.Bookmarked)
	}
	if filter.Favourite != nil {
		t.Fatalf("Favourite = %v, want nil for an empty value", filter.Favourite)
	}
}
