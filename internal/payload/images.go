package payload

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/iliyamo/campus-access-map/internal/model"
)

// ParseImageRefs reads an images field: an array of URL strings and/or
// {id, url} objects, or a single comma-joined string of URLs.  Entries that
// are neither are dropped; order is preserved.
func ParseImageRefs(raw json.RawMessage) []model.ImageRef {
	raw = bytes.TrimSpace(raw)
	if isNull(raw) {
		return nil
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		return SplitImageURLs(s)
	case '[':
		var list []json.RawMessage
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil
		}
		out := make([]model.ImageRef, 0, len(list))
		for _, item := range list {
			if ref, ok := ParseImageRef(item); ok {
				out = append(out, ref)
			}
		}
		return out
	}
	return nil
}

// SplitImageURLs turns "a.jpg, b.jpg" into raw URL refs, dropping blanks.
func SplitImageURLs(s string) []model.ImageRef {
	var out []model.ImageRef
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, model.ImageRef{Kind: model.ImageRawURL, URL: part})
	}
	return out
}

type wireImage struct {
	ID  model.ID    `json:"id"`
	URL looseString `json:"url"`
}

// ParseImageRef reads one image entry.
func ParseImageRef(raw json.RawMessage) (model.ImageRef, bool) {
	raw = bytes.TrimSpace(raw)
	if isNull(raw) {
		return model.ImageRef{}, false
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return model.ImageRef{}, false
		}
		if s = strings.TrimSpace(s); s == "" {
			return model.ImageRef{}, false
		}
		return model.ImageRef{Kind: model.ImageRawURL, URL: s}, true
	case '{':
		var w wireImage
		if err := json.Unmarshal(raw, &w); err != nil {
			return model.ImageRef{}, false
		}
		return imageFromParts(string(w.URL), w.ID)
	}
	return model.ImageRef{}, false
}

// ImageRefFromValue is ParseImageRef for already-decoded JSON values
// (string, map[string]any).  It accepts nil and any other type and reports
// false for them.
func ImageRefFromValue(v any) (model.ImageRef, bool) {
	switch t := v.(type) {
	case string:
		if t == "" {
			return model.ImageRef{}, false
		}
		return model.ImageRef{Kind: model.ImageRawURL, URL: t}, true
	case map[string]any:
		url, _ := t["url"].(string)
		return imageFromParts(url, idFromValue(t["id"]))
	}
	return model.ImageRef{}, false
}

func imageFromParts(url string, id model.ID) (model.ImageRef, bool) {
	if url != "" {
		return model.ImageRef{Kind: model.ImageInline, URL: url, ID: id}, true
	}
	if id != 0 {
		return model.ImageRef{Kind: model.ImageIDRef, ID: id}, true
	}
	return model.ImageRef{}, false
}

func idFromValue(v any) model.ID {
	switch t := v.(type) {
	case float64:
		if t == float64(int64(t)) {
			return model.ID(int64(t))
		}
	case int:
		return model.ID(t)
	case int64:
		return model.ID(t)
	case json.Number:
		id, _ := model.ParseID(t.String())
		return id
	case string:
		id, _ := model.ParseID(t)
		return id
	}
	return 0
}
