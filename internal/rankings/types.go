package rankings

import "github.com/google/uuid"

// Kind names one ranking dimension.
type Kind string

const (
	KindVisits    Kind = "visits"
	KindReviews   Kind = "reviews"
	KindFollowers Kind = "followers"
)

const (
	// DefaultSummaryLimit is the discovery-page teaser size.
	DefaultSummaryLimit = 3
	// DefaultBoardLimit is the full leaderboard page size.
	DefaultBoardLimit = 20
)

// Entry is one leaderboard row. Count is the ranked dimension: visits,
// reviews or followers depending on the board.
type Entry struct {
	UserID   uuid.UUID `json:"user_id"`
	UserName string    `json:"user_name"`
	ImageURL *string   `json:"user_image_url,omitempty"`
	Count    int64     `json:"count"`
}

// SummaryDTO bundles the three teaser boards for the discovery page.
type SummaryDTO struct {
	TopReviewers []Entry `json:"top_reviewers"`
	TopExplorers []Entry `json:"top_explorers"`
	TopFollowed  []Entry `json:"top_followed"`
}
