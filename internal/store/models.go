package store

import (
	"time"

	"github.com/google/uuid"
)

// List is a single grocery list. One identifier = one shared list.
type List struct {
	ID        uuid.UUID
	Name      string
	Archived  bool
	Position  int
	CreatedAt time.Time
}

// ListSummary pairs a list with item counts for index views.
type ListSummary struct {
	List
	ItemsCount   int
	ItemsChecked int
}

// Section is a store aisle category. The slug catalog is fixed at seed time;
// labels and positions may be edited.
type Section struct {
	ID       int64
	Slug     string
	Label    string
	Position int
}

// KeywordRule maps a normalized keyword to a section for rule-based
// classification.
type KeywordRule struct {
	ID          int64
	Keyword     string
	SectionID   int64
	SectionSlug string
}

// Item is one entry on a grocery list. It always belongs to a section;
// position is only meaningful within its list and section.
type Item struct {
	ID        uuid.UUID
	ListID    uuid.UUID
	Name      string
	SectionID int64
	Quantity  string
	Notes     string
	Checked   bool
	Position  int
}

// AccessToken is a secret granting access to the app. Revoking it blocks new
// connections only.
type AccessToken struct {
	ID        int64
	Token     string
	Label     string
	Revoked   bool
	CreatedAt time.Time
}
