package models

type Review struct {
	BaseModel
	RecipientID string `gorm:"not null;index" json:"recipient_id"`
	// AuthorID is nil for anonymous reviews. Service code works with
	// ReviewAuthor instead of inspecting the pointer directly.
	AuthorID        *string `gorm:"index" json:"author_id,omitempty"`
	Professionalism int     `gorm:"not null;check:professionalism >= 1 AND professionalism <= 5" json:"professionalism"`
	Reliability     int     `gorm:"not null;check:reliability >= 1 AND reliability <= 5" json:"reliability"`
	Communication   int     `gorm:"not null;check:communication >= 1 AND communication <= 5" json:"communication"`
	Comment         string  `json:"comment"`
	Anonymous       bool    `gorm:"default:false" json:"anonymous"`
	Status          string  `gorm:"default:'visible'" json:"status"`

	// Relations
	Recipient *User            `gorm:"foreignKey:RecipientID" json:"-"`
	Author    *User            `gorm:"foreignKey:AuthorID" json:"-"`
	Favorites []FavoriteReview `gorm:"foreignKey:ReviewID" json:"-"`
}

const (
	ReviewStatusVisible = "visible"
	ReviewStatusHidden  = "hidden"
)

// ReviewAuthor is the explicit representation of review authorship:
// either an identified user or anonymous. It keeps the null-author
// convention out of the rest of the codebase.
type ReviewAuthor struct {
	userID string
}

// IdentifiedAuthor tags a review as written by a known user.
func IdentifiedAuthor(userID string) ReviewAuthor {
	return ReviewAuthor{userID: userID}
}

// AnonymousAuthor tags a review as anonymous.
func AnonymousAuthor() ReviewAuthor {
	return ReviewAuthor{}
}

// IsAnonymous reports whether the author identity is withheld.
func (a ReviewAuthor) IsAnonymous() bool {
	return a.userID == ""
}

// UserID returns the author's user id and whether one is present.
func (a ReviewAuthor) UserID() (string, bool) {
	if a.userID == "" {
		return "", false
	}
	return a.userID, true
}

// ColumnValue returns the value persisted in the author_id column.
func (a ReviewAuthor) ColumnValue() *string {
	if a.userID == "" {
		return nil
	}
	id := a.userID
	return &id
}

// AuthorOf reconstructs the tagged author from a stored review row.
func AuthorOf(r *Review) ReviewAuthor {
	if r.AuthorID == nil {
		return AnonymousAuthor()
	}
	return IdentifiedAuthor(*r.AuthorID)
}
