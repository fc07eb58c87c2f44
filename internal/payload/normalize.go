// Package payload is the parsing boundary between the remote API and the
// rest of the application.  The API has answered list requests with bare
// arrays, with arrays wrapped in a resource-named field and with a generic
// "data" field over time; images and icon references also come in several
// shapes.  Functions here accept all of them and never fail: the worst case
// is an empty result, so pages always have something to iterate.
package payload

import (
	"bytes"
	"encoding/json"
)

// Wrapper fields tried, in order, when a list response is an object.
var (
	CommentFields  = []string{"comments", "data"}
	LocationFields = []string{"locations", "data"}
	IconFields     = []string{"icons", "comment_icons", "data"}
	ItemFields     = []string{"accessibility_items", "data"}
)

// Records extracts the list of records from a list response.  raw may be a
// bare array or an object holding the array under one of fields (first match
// wins).  null, malformed JSON and unmatched objects yield an empty slice.
func Records(raw []byte, fields ...string) []json.RawMessage {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return []json.RawMessage{}
	}
	switch raw[0] {
	case '[':
		var list []json.RawMessage
		if err := json.Unmarshal(raw, &list); err != nil {
			return []json.RawMessage{}
		}
		return dropNulls(list)
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return []json.RawMessage{}
		}
		for _, f := range fields {
			v, ok := obj[f]
			if !ok {
				continue
			}
			var list []json.RawMessage
			if err := json.Unmarshal(v, &list); err != nil || list == nil {
				continue
			}
			return dropNulls(list)
		}
	}
	return []json.RawMessage{}
}

func dropNulls(list []json.RawMessage) []json.RawMessage {
	out := make([]json.RawMessage, 0, len(list))
	for _, r := range list {
		if isNull(r) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func isNull(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

// looseString decodes a JSON string and silently ignores any other type.
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		*s = ""
		return nil
	}
	*s = looseString(v)
	return nil
}
