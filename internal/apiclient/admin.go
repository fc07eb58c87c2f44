package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/iliyamo/campus-access-map/internal/model"
	"github.com/iliyamo/campus-access-map/internal/payload"
)

// PendingPageSize is the fixed size of the review queue page.
const PendingPageSize = 10

// PendingComments returns the first page of the review queue.
func (c *Client) PendingComments(ctx context.Context, token string) []model.Comment {
	path := fmt.Sprintf("/comments/pending?skip=0&limit=%d", PendingPageSize)
	data, ok := c.read(ctx, path, token, "pending comments")
	if !ok {
		return []model.Comment{}
	}
	return payload.DecodeComments(data)
}

// SetCommentStatus moves a comment to approved or rejected.
func (c *Client) SetCommentStatus(ctx context.Context, token string, id model.ID, status string) error {
	if status != model.StatusApproved && status != model.StatusRejected {
		return fmt.Errorf("apiclient: invalid comment status %q", status)
	}
	_, err := c.doJSON(ctx, http.MethodPatch, "/comments/"+id.String()+"/status", token, map[string]string{"status": status})
	return err
}

func (c *Client) ApproveComment(ctx context.Context, token string, id model.ID) error {
	return c.SetCommentStatus(ctx, token, id, model.StatusApproved)
}

func (c *Client) RejectComment(ctx context.Context, token string, id model.ID) error {
	return c.SetCommentStatus(ctx, token, id, model.StatusRejected)
}

// Locations lists every location.  The map calls this without a token.
func (c *Client) Locations(ctx context.Context, token string) []model.Location {
	data, ok := c.read(ctx, "/locations/", token, "locations")
	if !ok {
		return []model.Location{}
	}
	return payload.DecodeLocations(data)
}

// Location fetches one location; ok is false when it cannot be loaded.
func (c *Client) Location(ctx context.Context, token string, id model.ID) (model.Location, bool) {
	data, ok := c.read(ctx, "/locations/"+id.String(), token, "location "+id.String())
	if !ok {
		return model.Location{}, false
	}
	loc, ok := payload.DecodeLocation(data)
	if !ok {
		c.log.Warnf("location %s: unexpected payload", id)
	}
	return loc, ok
}

func (c *Client) CreateLocation(ctx context.Context, token string, in model.LocationInput) error {
	_, err := c.doJSON(ctx, http.MethodPost, "/locations/", token, in)
	return err
}

func (c *Client) UpdateLocation(ctx context.Context, token string, id model.ID, in model.LocationInput) error {
	_, err := c.doJSON(ctx, http.MethodPatch, "/locations/"+id.String(), token, in)
	return err
}

func (c *Client) DeleteLocation(ctx context.Context, token string, id model.ID) error {
	_, err := c.do(ctx, http.MethodDelete, "/locations/"+id.String(), token, nil, "")
	return err
}

// AccessibilityItems reads the legacy catalog.
func (c *Client) AccessibilityItems(ctx context.Context, token string) []model.AccessibilityIcon {
	data, ok := c.read(ctx, "/locations/accessibility-items/", token, "accessibility items")
	if !ok {
		return []model.AccessibilityIcon{}
	}
	return payload.DecodeItems(data)
}

// CommentIcons reads the preferred icon catalog.
func (c *Client) CommentIcons(ctx context.Context, token string) []model.AccessibilityIcon {
	data, ok := c.read(ctx, "/comments/icons/", token, "comment icons")
	if !ok {
		return []model.AccessibilityIcon{}
	}
	return payload.DecodeIcons(data)
}

// Catalog returns the preferred catalog, or the legacy one when the
// preferred endpoint has nothing.
func (c *Client) Catalog(ctx context.Context, token string) []model.AccessibilityIcon {
	if icons := c.CommentIcons(ctx, token); len(icons) > 0 {
		return icons
	}
	return c.AccessibilityItems(ctx, token)
}

// CommentsForLocation lists the comments published for a location.
func (c *Client) CommentsForLocation(ctx context.Context, token string, locationID model.ID) []model.Comment {
	data, ok := c.read(ctx, "/comments/"+locationID.String()+"/comments", token, "comments for location "+locationID.String())
	if !ok {
		return []model.Comment{}
	}
	return payload.DecodeComments(data)
}

// DeleteImage removes a comment or location image; both live behind the
// same endpoint.
func (c *Client) DeleteImage(ctx context.Context, token string, imageID model.ID) error {
	_, err := c.do(ctx, http.MethodDelete, "/comments/images/"+imageID.String(), token, nil, "")
	return err
}
