// Package queue carries moderation decisions over RabbitMQ.
package queue

import (
	"time"

	"github.com/iliyamo/campus-access-map/internal/model"
)

// ModerationQueue is the durable queue moderation events go to.
const ModerationQueue = "comment.moderated"

// ModerationEvent is published after the API accepted an approve or reject.
type ModerationEvent struct {
	EventID     string   `json:"event_id"`
	CommentID   model.ID `json:"comment_id"`
	LocationID  model.ID `json:"location_id,omitempty"`
	Status      string   `json:"status"`
	Actor       string   `json:"actor"`
	ModeratedAt string   `json:"moderated_at"` // RFC 3339
}

// Entry converts the event into a moderation log row.  An unparsable
// timestamp becomes the zero time, which the repository replaces with now.
func (e ModerationEvent) Entry() model.ModerationEntry {
	at, _ := time.Parse(time.RFC3339Nano, e.ModeratedAt)
	return model.ModerationEntry{
		EventID:     e.EventID,
		CommentID:   e.CommentID,
		Status:      e.Status,
		Actor:       e.Actor,
		ModeratedAt: at,
	}
}
