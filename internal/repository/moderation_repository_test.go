package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/campus-access-map/internal/model"
)

func TestDisabledRepository(t *testing.T) {
	ctx := context.Background()
	for _, r := range []*ModerationRepo{nil, NewModerationRepo(nil)} {
		assert.False(t, r.Enabled())
		assert.ErrorIs(t, r.EnsureSchema(ctx), ErrDisabled)

		_, err := r.Record(ctx, model.ModerationEntry{CommentID: 1})
		assert.ErrorIs(t, err, ErrDisabled)

		_, err = r.Recent(ctx, 10)
		assert.ErrorIs(t, err, ErrDisabled)

		_, err = r.ForComment(ctx, 1)
		assert.ErrorIs(t, err, ErrDisabled)
	}
}
