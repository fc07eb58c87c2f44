package view

import (
	"time"

	"github.com/iliyamo/campus-access-map/internal/model"
	"github.com/iliyamo/campus-access-map/internal/payload"
	"github.com/iliyamo/campus-access-map/internal/resolver"
)

// MaxStars is the rating scale.
const MaxStars = 5

// DateLayout is how comment dates are shown.
const DateLayout = "02/01/2006"

// IconView is one accessibility icon ready to render.
type IconView struct {
	ID    model.ID
	Name  string
	Image string
}

// CommentRow is one published comment in the reviews tab.
type CommentRow struct {
	ID       model.ID
	UserName string
	Text     string
	Date     string
	Rating   int
	Stars    []bool
}

// LocationInfo is the content of the info modal.
type LocationInfo struct {
	ID          model.ID
	Name        string
	Description string
	Average     int
	HasAverage  bool
	AvgStars    []bool
	Comments    []CommentRow
	Slides      []string
	Icons       []IconView
}

// Stars returns MaxStars flags with the first rating ones set.
func Stars(rating int) []bool {
	out := make([]bool, MaxStars)
	for i := 0; i < MaxStars && i < rating; i++ {
		out[i] = true
	}
	return out
}

// FormatDate renders t as dd/mm/yyyy, or "" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// AverageRating is the floor of the mean of the positive ratings.  ok is
// false when no comment has a positive rating.
func AverageRating(comments []model.Comment) (avg int, ok bool) {
	sum, n := 0, 0
	for _, c := range comments {
		if c.Rating > 0 {
			sum += c.Rating
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / n, true
}

// Aggregated keeps the comments that feed a location's public data.
func Aggregated(comments []model.Comment) []model.Comment {
	out := make([]model.Comment, 0, len(comments))
	for _, c := range comments {
		if c.CountsTowardAggregate() {
			out = append(out, c)
		}
	}
	return out
}

// Icons resolves ids against catalog into render data, sorted by id.
func Icons(ids model.IconSet, catalog []model.AccessibilityIcon) []IconView {
	found := resolver.LookupIcons(ids, catalog)
	out := make([]IconView, 0, len(found))
	for _, ic := range found {
		out = append(out, IconView{ID: ic.ID, Name: ic.Name, Image: resolver.IconImage(ic)})
	}
	return out
}

// BuildLocationInfo assembles the info modal from a location, its comments
// and the icon catalog.
func BuildLocationInfo(loc model.Location, comments []model.Comment, catalog []model.AccessibilityIcon, r resolver.Resolver) LocationInfo {
	published := Aggregated(comments)

	info := LocationInfo{
		ID:          loc.ID,
		Name:        loc.Name,
		Description: loc.Description,
		Comments:    make([]CommentRow, 0, len(published)),
		Slides:      []string{},
	}
	info.Average, info.HasAverage = AverageRating(published)
	info.AvgStars = Stars(info.Average)

	for _, c := range published {
		info.Comments = append(info.Comments, CommentRow{
			ID:       c.ID,
			UserName: c.UserName,
			Text:     c.Text,
			Date:     FormatDate(c.CreatedAt),
			Rating:   c.Rating,
			Stars:    Stars(c.Rating),
		})
		info.Slides = append(info.Slides, r.ResolveAll(c.Images)...)
	}
	info.Icons = Icons(payload.UnionIconIDs(published), catalog)
	return info
}
