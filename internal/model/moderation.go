package model

import "time"

// ModerationEntry records one approve/reject decision.  Rows live in the
// moderation_log table, written by the moderation consumer.
type ModerationEntry struct {
	ID          uint64    // moderation_log.id
	EventID     string    // moderation_log.event_id, unique per published event
	CommentID   ID        // moderation_log.comment_id
	Status      string    // moderation_log.status
	Actor       string    // moderation_log.actor
	ModeratedAt time.Time // moderation_log.moderated_at
}
