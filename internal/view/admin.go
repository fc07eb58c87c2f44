package view

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/iliyamo/campus-access-map/internal/marker"
	"github.com/iliyamo/campus-access-map/internal/model"
	"github.com/iliyamo/campus-access-map/internal/payload"
	"github.com/iliyamo/campus-access-map/internal/resolver"
)

// Photo is one image in an admin list.  ImageID is 0 when the image was
// given as a bare URL and so cannot be deleted.
type Photo struct {
	URL     string
	ImageID model.ID
}

// PendingRow is one entry of the review queue.
type PendingRow struct {
	ID         model.ID
	LocationID model.ID
	UserName   string
	Text       string
	Date       string
	Rating     int
	Stars      []bool
	Photos     []Photo
}

func photos(refs []model.ImageRef, r resolver.Resolver) []Photo {
	out := make([]Photo, 0, len(refs))
	for _, ref := range refs {
		u, ok := r.Resolve(ref)
		if !ok {
			continue
		}
		out = append(out, Photo{URL: u, ImageID: ref.ID})
	}
	return out
}

// BuildPendingRows renders the review queue.
func BuildPendingRows(comments []model.Comment, r resolver.Resolver) []PendingRow {
	rows := make([]PendingRow, 0, len(comments))
	for _, c := range comments {
		rows = append(rows, PendingRow{
			ID:         c.ID,
			LocationID: c.LocationID,
			UserName:   c.UserName,
			Text:       c.Text,
			Date:       FormatDate(c.CreatedAt),
			Rating:     c.Rating,
			Stars:      Stars(c.Rating),
			Photos:     photos(c.Images, r),
		})
	}
	return rows
}

// CommentPhotos lists the photos of one comment for the photo modal.
func CommentPhotos(c model.Comment, r resolver.Resolver) []Photo {
	return photos(c.Images, r)
}

// LocationRow is one line of the locations list.
type LocationRow struct {
	ID       model.ID
	Name     string
	Category string
	Color    string
}

func BuildLocationRows(locs []model.Location) []LocationRow {
	rows := make([]LocationRow, 0, len(locs))
	for _, l := range locs {
		s := marker.Classify(l.Name)
		rows = append(rows, LocationRow{ID: l.ID, Name: l.Name, Category: string(s.Category), Color: s.Color})
	}
	return rows
}

// LocationDetail is the admin detail screen.
type LocationDetail struct {
	ID          model.ID
	Title       string
	Description string
	Top         string
	Left        string
	Category    string
	Color       string
	Photos      []Photo
	Items       []IconView
}

// BuildLocationDetail renders loc.  Items are the location's own
// accessibility items, resolved against catalog when only ids were sent.
func BuildLocationDetail(loc model.Location, catalog []model.AccessibilityIcon, r resolver.Resolver) LocationDetail {
	s := marker.Classify(loc.Name)
	title := loc.Name
	if title == "" {
		title = "Local " + loc.ID.String()
	}
	return LocationDetail{
		ID:          loc.ID,
		Title:       title,
		Description: loc.Description,
		Top:         coord(loc.Top, loc.HasTop),
		Left:        coord(loc.Left, loc.HasLeft),
		Category:    string(s.Category),
		Color:       s.Color,
		Photos:      photos(loc.Images, r),
		Items:       locationItems(loc, catalog),
	}
}

func locationItems(loc model.Location, catalog []model.AccessibilityIcon) []IconView {
	merged := make([]model.AccessibilityIcon, 0, len(catalog)+len(loc.AccessibilityItems))
	merged = append(merged, catalog...)
	merged = append(merged, loc.AccessibilityItems...)
	return Icons(loc.AccessibilityIDs, merged)
}

func coord(v float64, ok bool) string {
	if !ok {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ItemOption is one accessibility checkbox of the location form.
type ItemOption struct {
	ID      model.ID
	Name    string
	Image   string
	Checked bool
}

// LocationForm is the create/edit form.  ID is 0 when creating.
type LocationForm struct {
	ID          model.ID
	Name        string
	Description string
	Top         string
	Left        string
	Images      string
	Items       []ItemOption
}

// Editing reports whether the form updates an existing location.
func (f LocationForm) Editing() bool { return f.ID != 0 }

// BuildLocationForm fills the form from loc (zero value for a new
// location).  Images that are plain URLs are joined with ", ".
func BuildLocationForm(loc model.Location, items []model.AccessibilityIcon, r resolver.Resolver) LocationForm {
	urls := make([]string, 0, len(loc.Images))
	for _, ref := range loc.Images {
		if u, ok := r.Resolve(ref); ok {
			urls = append(urls, u)
		}
	}
	f := LocationForm{
		ID:          loc.ID,
		Name:        loc.Name,
		Description: loc.Description,
		Top:         coord(loc.Top, loc.HasTop),
		Left:        coord(loc.Left, loc.HasLeft),
		Images:      strings.Join(urls, ", "),
		Items:       make([]ItemOption, 0, len(items)),
	}
	for _, it := range items {
		f.Items = append(f.Items, ItemOption{
			ID:      it.ID,
			Name:    it.Name,
			Image:   resolver.IconImage(it),
			Checked: loc.AccessibilityIDs.Has(it.ID),
		})
	}
	return f
}

// LocationFormFromValues refills the form with what the user submitted so
// a rejected or pending save keeps the typed values.
func LocationFormFromValues(id model.ID, v url.Values, items []model.AccessibilityIcon) LocationForm {
	checked := model.IconSet{}
	for _, raw := range v["accessibility_items"] {
		if n, ok := model.ParseID(raw); ok {
			checked.Add(n)
		}
	}
	f := LocationForm{
		ID:          id,
		Name:        v.Get("name"),
		Description: v.Get("description"),
		Top:         v.Get("top"),
		Left:        v.Get("left"),
		Images:      v.Get("images"),
		Items:       make([]ItemOption, 0, len(items)),
	}
	for _, it := range items {
		f.Items = append(f.Items, ItemOption{
			ID:      it.ID,
			Name:    it.Name,
			Image:   resolver.IconImage(it),
			Checked: checked.Has(it.ID),
		})
	}
	return f
}

// FormError is a validation failure whose text is shown to the user.
type FormError string

func (e FormError) Error() string { return string(e) }

const (
	ErrNameRequired  FormError = "Informe o nome do local."
	ErrInvalidTop    FormError = "Posição superior deve ser um número."
	ErrInvalidLeft   FormError = "Posição esquerda deve ser um número."
	ErrMissingRating FormError = "Por favor, selecione uma avaliação."
	ErrInvalidRating FormError = "A avaliação deve ser entre 1 e 5 estrelas."
)

// ParseLocationForm reads the submitted location form.  Empty top or left
// is sent as null.
func ParseLocationForm(v url.Values) (model.LocationInput, error) {
	in := model.LocationInput{
		Name:               strings.TrimSpace(v.Get("name")),
		Description:        strings.TrimSpace(v.Get("description")),
		Images:             []string{},
		AccessibilityItems: []model.ID{},
	}
	if in.Name == "" {
		return in, ErrNameRequired
	}
	var err error
	if in.Top, err = optionalInt(v.Get("top")); err != nil {
		return in, ErrInvalidTop
	}
	if in.Left, err = optionalInt(v.Get("left")); err != nil {
		return in, ErrInvalidLeft
	}
	for _, ref := range payload.SplitImageURLs(v.Get("images")) {
		in.Images = append(in.Images, ref.URL)
	}
	seen := model.IconSet{}
	for _, raw := range v["accessibility_items"] {
		if id, ok := model.ParseID(raw); ok && id != 0 && !seen.Has(id) {
			seen.Add(id)
			in.AccessibilityItems = append(in.AccessibilityItems, id)
		}
	}
	return in, nil
}

// optionalInt reads a whole-number coordinate.  Fractions, as the API may
// store them and the edit form shows them, are truncated toward zero.
func optionalInt(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, strconv.ErrSyntax
	}
	n := int(math.Trunc(f))
	return &n, nil
}

// ParseCommentForm reads the add-comment form.  The rating is checked
// before anything is sent.
func ParseCommentForm(v url.Values, locationID model.ID) (model.NewComment, error) {
	c := model.NewComment{
		LocationID: locationID,
		UserName:   strings.TrimSpace(v.Get("user_name")),
		Text:       strings.TrimSpace(v.Get("comment")),
	}
	raw := strings.TrimSpace(v.Get("rating"))
	if raw == "" || raw == "0" {
		return c, ErrMissingRating
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > MaxStars {
		return c, ErrInvalidRating
	}
	c.Rating = n
	if c.UserName == "" {
		c.UserName = "Anônimo"
	}
	return c, nil
}
