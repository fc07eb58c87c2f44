package model

import "time"

// Comment statuses used by the moderation queue.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Comment is a user review of a location.
type Comment struct {
	ID         ID
	LocationID ID
	UserName   string
	Rating     int
	Text       string
	CreatedAt  time.Time // from created_at, falling back to date
	Status     string
	Images     []ImageRef
	IconIDs    IconSet // union of comment_icon_ids and comment_icons
}

// CountsTowardAggregate reports whether the comment feeds a location's
// public rating and icon set.  Comments without a status are trusted, since
// the public endpoint only returns published comments.
func (c Comment) CountsTowardAggregate() bool {
	return c.Status == "" || c.Status == StatusApproved
}

// NewComment is what the comment form submits.  Files are attached
// separately by the API client.
type NewComment struct {
	LocationID ID
	UserName   string
	Rating     int
	Text       string
	CreatedAt  time.Time
}
