package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/campus-access-map/internal/model"
)

const moderationSchema = `CREATE TABLE IF NOT EXISTS moderation_log (
	id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
	event_id CHAR(36) NOT NULL,
	comment_id BIGINT NOT NULL,
	status VARCHAR(16) NOT NULL,
	actor VARCHAR(255) NOT NULL,
	moderated_at DATETIME NOT NULL,
	UNIQUE KEY uq_moderation_event (event_id),
	KEY idx_moderation_comment (comment_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

// DefaultHistoryLimit caps how many entries the history page shows.
const DefaultHistoryLimit = 100

// ModerationRepo stores approve/reject decisions.  A nil DB disables it.
type ModerationRepo struct{ DB *sql.DB }

func NewModerationRepo(db *sql.DB) *ModerationRepo { return &ModerationRepo{DB: db} }

// Enabled reports whether a database is attached.
func (r *ModerationRepo) Enabled() bool { return r != nil && r.DB != nil }

// EnsureSchema creates the moderation_log table if it is missing.
func (r *ModerationRepo) EnsureSchema(ctx context.Context) error {
	if !r.Enabled() {
		return ErrDisabled
	}
	_, err := r.DB.ExecContext(ctx, moderationSchema)
	return err
}

// Record inserts e.  Redelivered events (same EventID) are ignored, so
// inserted is false for them.
func (r *ModerationRepo) Record(ctx context.Context, e model.ModerationEntry) (inserted bool, err error) {
	if !r.Enabled() {
		return false, ErrDisabled
	}
	at := e.ModeratedAt
	if at.IsZero() {
		at = time.Now()
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT IGNORE INTO moderation_log (event_id, comment_id, status, actor, moderated_at) VALUES (?,?,?,?,?)",
		e.EventID, int64(e.CommentID), e.Status, e.Actor, at.UTC())
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Recent lists the newest entries first.
func (r *ModerationRepo) Recent(ctx context.Context, limit int) ([]model.ModerationEntry, error) {
	if !r.Enabled() {
		return nil, ErrDisabled
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, event_id, comment_id, status, actor, moderated_at FROM moderation_log ORDER BY moderated_at DESC, id DESC LIMIT ?",
		limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.ModerationEntry{}
	for rows.Next() {
		var (
			e         model.ModerationEntry
			commentID int64
		)
		if err := rows.Scan(&e.ID, &e.EventID, &commentID, &e.Status, &e.Actor, &e.ModeratedAt); err != nil {
			return nil, err
		}
		e.CommentID = model.ID(commentID)
		out = append(out, e)
	}
	return out, rows.Err()
}

// ForComment lists the decisions taken on one comment, oldest first.
func (r *ModerationRepo) ForComment(ctx context.Context, commentID model.ID) ([]model.ModerationEntry, error) {
	if !r.Enabled() {
		return nil, ErrDisabled
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, event_id, status, actor, moderated_at FROM moderation_log WHERE comment_id=? ORDER BY moderated_at, id",
		int64(commentID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.ModerationEntry{}
	for rows.Next() {
		e := model.ModerationEntry{CommentID: commentID}
		if err := rows.Scan(&e.ID, &e.EventID, &e.Status, &e.Actor, &e.ModeratedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
