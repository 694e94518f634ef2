package discovery

import (
	"github.com/google/uuid"

	pkgerrors "github.com/beanpass/beanpass-backend/pkg/errors"
	"github.com/beanpass/beanpass-backend/pkg/types"
)

// VisitedState narrows results by the viewer's check-in history.
type VisitedState string

const (
	VisitedAll     VisitedState = "all"
	VisitedOnly    VisitedState = "visited"
	VisitedMissing VisitedState = "missing"
)

// ParseVisitedState maps a query param to a state. Empty means all.
func ParseVisitedState(raw string) (VisitedState, error) {
	switch VisitedState(raw) {
	case "", VisitedAll:
		return VisitedAll, nil
	case VisitedOnly:
		return VisitedOnly, nil
	case VisitedMissing:
		return VisitedMissing, nil
	default:
		return "", pkgerrors.New(pkgerrors.CodeValidation, "visited must be one of all, visited, missing")
	}
}

// Filter is the shop search input. FeatureIDs use AND semantics: a shop
// matches only when it carries every requested feature.
type Filter struct {
	Page       int
	Limit      int
	Visited    VisitedState
	FeatureIDs []uuid.UUID
	TextQuery  string
}

// ResultDTO is one annotated search hit.
type ResultDTO struct {
	ID            uuid.UUID             `json:"id"`
	Name          string                `json:"name"`
	Latitude      float64               `json:"latitude"`
	Longitude     float64               `json:"longitude"`
	ImageURL      *string               `json:"image_url,omitempty"`
	Rating        types.RatingAggregate `json:"rating"`
	FollowerCount int64                 `json:"follower_count"`
	Visited       bool                  `json:"visited"`
	Follows       bool                  `json:"follows"`
}

// PageDTO is a page of search hits. HasMore is a heuristic: a full page
// means there is probably another one, without a second count query.
type PageDTO struct {
	Results []ResultDTO `json:"results"`
	Page    int         `json:"page"`
	Limit   int         `json:"limit"`
	HasMore bool        `json:"has_more"`
}
