package render

import (
	"github.com/iliyamo/campus-access-map/internal/model"
	"github.com/iliyamo/campus-access-map/internal/view"
)

// Base is embedded by every page.
type Base struct {
	Title   string
	Flashes []view.Flash
	Dialog  *view.Dialog
	Admin   bool
}

// CommentForm is the add-comment modal state, refilled after a failed
// submit.
type CommentForm struct {
	UserName string
	Rating   int
	Text     string
	Errors   []string
}

// MapPage is the public map with its modals.
type MapPage struct {
	Base
	MapImageURL    string
	Width          int
	Height         int
	Pins           []view.Pin
	Modal          string // closed, info or comment
	Info           *view.LocationInfo
	InfoTab        string
	CommentEnabled bool
	Carousel       *view.Carousel
	Form           CommentForm
	HistoryPushed  bool
}

// PhotoModal shows the photos of one pending comment.
type PhotoModal struct {
	CommentID model.ID
	UserName  string
	Carousel  *view.Carousel
}

type AdminCommentsPage struct {
	Base
	Tab    string
	Rows   []view.PendingRow
	Photos *PhotoModal
}

type AdminLocationsPage struct {
	Base
	Tab        string
	State      string // list, detail or form
	Rows       []view.LocationRow
	Detail     *view.LocationDetail
	DetailTab  string
	DetailTabs []string
	Form       *view.LocationForm
}

type ModerationPage struct {
	Base
	Tab     string
	Enabled bool
	Entries []model.ModerationEntry
}
