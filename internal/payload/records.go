package payload

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/iliyamo/campus-access-map/internal/model"
)

type wireLocation struct {
	ID                 model.ID        `json:"id"`
	Name               looseString     `json:"name"`
	Description        looseString     `json:"description"`
	Top                json.RawMessage `json:"top"`
	Left               json.RawMessage `json:"left"`
	Images             json.RawMessage `json:"images"`
	AccessibilityItems json.RawMessage `json:"accessibility_items"`
}

// DecodeLocation reads a single location object.
func DecodeLocation(raw []byte) (model.Location, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return model.Location{}, false
	}
	var w wireLocation
	if err := json.Unmarshal(raw, &w); err != nil {
		return model.Location{}, false
	}
	loc := model.Location{
		ID:               w.ID,
		Name:             string(w.Name),
		Description:      string(w.Description),
		Images:           ParseImageRefs(w.Images),
		AccessibilityIDs: ParseIconIDs(w.AccessibilityItems),
	}
	loc.Top, loc.HasTop = ParseNumber(w.Top)
	loc.Left, loc.HasLeft = ParseNumber(w.Left)
	loc.AccessibilityItems = inlineItems(w.AccessibilityItems)
	return loc, true
}

// DecodeLocations reads a location list response.
func DecodeLocations(raw []byte) []model.Location {
	recs := Records(raw, LocationFields...)
	out := make([]model.Location, 0, len(recs))
	for _, rec := range recs {
		if loc, ok := DecodeLocation(rec); ok {
			out = append(out, loc)
		}
	}
	return out
}

// inlineItems keeps the accessibility items that were sent as objects.
func inlineItems(raw json.RawMessage) []model.AccessibilityIcon {
	raw = bytes.TrimSpace(raw)
	if isNull(raw) || raw[0] != '[' {
		return nil
	}
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil
	}
	var objs []json.RawMessage
	for _, item := range list {
		if t := bytes.TrimSpace(item); len(t) > 0 && t[0] == '{' {
			objs = append(objs, t)
		}
	}
	if len(objs) == 0 {
		return nil
	}
	return decodeIconRecords(objs)
}

type wireComment struct {
	ID             model.ID        `json:"id"`
	LocationID     model.ID        `json:"location_id"`
	UserName       looseString     `json:"user_name"`
	Rating         json.RawMessage `json:"rating"`
	Comment        looseString     `json:"comment"`
	CreatedAt      looseString     `json:"created_at"`
	Date           looseString     `json:"date"`
	Status         looseString     `json:"status"`
	Images         json.RawMessage `json:"images"`
	CommentIconIDs json.RawMessage `json:"comment_icon_ids"`
	CommentIcons   json.RawMessage `json:"comment_icons"`
}

// DecodeComment reads one comment record and folds its icon references
// (comment_icon_ids and comment_icons, in any of their shapes) into one set.
func DecodeComment(raw []byte) (model.Comment, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return model.Comment{}, false
	}
	var w wireComment
	if err := json.Unmarshal(raw, &w); err != nil {
		return model.Comment{}, false
	}
	rating, _ := ParseNumber(w.Rating)
	icons := ParseIconIDs(w.CommentIconIDs)
	icons.Union(ParseIconIDs(w.CommentIcons))
	ts := string(w.CreatedAt)
	if ts == "" {
		ts = string(w.Date)
	}
	created, _ := ParseTimestamp(ts)
	return model.Comment{
		ID:         w.ID,
		LocationID: w.LocationID,
		UserName:   string(w.UserName),
		Rating:     int(rating),
		Text:       string(w.Comment),
		CreatedAt:  created,
		Status:     strings.ToLower(strings.TrimSpace(string(w.Status))),
		Images:     ParseImageRefs(w.Images),
		IconIDs:    icons,
	}, true
}

// DecodeComments reads a comment list response.
func DecodeComments(raw []byte) []model.Comment {
	recs := Records(raw, CommentFields...)
	out := make([]model.Comment, 0, len(recs))
	for _, rec := range recs {
		if c, ok := DecodeComment(rec); ok {
			out = append(out, c)
		}
	}
	return out
}

// ParseNumber reads a JSON number or numeric string.  Strings are read up to
// the first character that cannot continue a number, so "40%" gives 40.
func ParseNumber(raw json.RawMessage) (float64, bool) {
	raw = bytes.TrimSpace(raw)
	if isNull(raw) {
		return 0, false
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		return numericPrefix(s)
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, false
	}
	return f, true
}

func numericPrefix(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	end := 0
	seenDigit, seenDot := false, false
scan:
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			seenDigit = true
		case r == '.' && !seenDot:
			seenDot = true
		case (r == '-' || r == '+') && i == 0:
		default:
			break scan
		}
		end = i + 1
	}
	if !seenDigit {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimRight(s[:end], "."), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp accepts the timestamp layouts the API has produced.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
