package payload

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/iliyamo/campus-access-map/internal/model"
)

// ParseIconIDs reads an icon reference field into a set.  Accepted shapes:
// an array of raw ids, an array of {id} objects, a comma-joined string of ids,
// a single id or a single {id} object.
func ParseIconIDs(raw json.RawMessage) model.IconSet {
	set := model.IconSet{}
	raw = bytes.TrimSpace(raw)
	if isNull(raw) {
		return set
	}
	switch raw[0] {
	case '[':
		var list []json.RawMessage
		if err := json.Unmarshal(raw, &list); err != nil {
			return set
		}
		for _, item := range list {
			set.Add(iconID(item))
		}
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return set
		}
		for _, part := range strings.Split(s, ",") {
			if id, ok := model.ParseID(part); ok {
				set.Add(id)
			}
		}
	default:
		set.Add(iconID(raw))
	}
	return set
}

func iconID(raw json.RawMessage) model.ID {
	raw = bytes.TrimSpace(raw)
	if isNull(raw) {
		return 0
	}
	if raw[0] == '{' {
		var obj struct {
			ID model.ID `json:"id"`
		}
		if err := json.Unmarshal(raw, &obj); err != nil {
			return 0
		}
		return obj.ID
	}
	var id model.ID
	_ = id.UnmarshalJSON(raw)
	return id
}

// UnionIconIDs merges the icon ids referenced by every comment.
func UnionIconIDs(comments []model.Comment) model.IconSet {
	set := model.IconSet{}
	for _, c := range comments {
		set.Union(c.IconIDs)
	}
	return set
}

type wireIcon struct {
	ID       model.ID    `json:"id"`
	Name     looseString `json:"name"`
	IconURL  looseString `json:"icon_url"`
	ImageURL looseString `json:"image_url"`
	Image    looseString `json:"image"`
	Icon     looseString `json:"icon"`
}

func (w wireIcon) model() model.AccessibilityIcon {
	img := firstNonEmpty(string(w.IconURL), string(w.ImageURL), string(w.Image), string(w.Icon))
	return model.AccessibilityIcon{ID: w.ID, Name: string(w.Name), ImageURL: img}
}

// DecodeIcons reads an icon catalog response (either catalog endpoint).
func DecodeIcons(raw []byte) []model.AccessibilityIcon {
	return decodeIconRecords(Records(raw, IconFields...))
}

// DecodeItems reads the legacy accessibility-items catalog.
func DecodeItems(raw []byte) []model.AccessibilityIcon {
	return decodeIconRecords(Records(raw, ItemFields...))
}

func decodeIconRecords(recs []json.RawMessage) []model.AccessibilityIcon {
	out := make([]model.AccessibilityIcon, 0, len(recs))
	for _, rec := range recs {
		var w wireIcon
		if err := json.Unmarshal(rec, &w); err != nil || w.ID == 0 {
			continue
		}
		out = append(out, w.model())
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
