package model

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// ID identifies a record on the remote API.  The API is not consistent
// about the JSON type of identifiers, so ID accepts both numbers and
// numeric strings.  Zero means "no id".
type ID int64

// ParseID converts a textual identifier.  Surrounding whitespace is ignored.
func ParseID(s string) (ID, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != float64(int64(f)) {
			return 0, false
		}
		n = int64(f)
	}
	return ID(n), true
}

func (id ID) String() string { return strconv.FormatInt(int64(id), 10) }

// UnmarshalJSON accepts 7, 7.0 and "7".  Anything else leaves the id at zero
// without failing the surrounding document.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			*id = 0
			return nil
		}
		v, _ := ParseID(s)
		*id = v
		return nil
	}
	v, _ := ParseID(string(b))
	*id = v
	return nil
}

// IconSet is a set of accessibility icon ids.
type IconSet map[ID]struct{}

// NewIconSet builds a set from ids, skipping zero values.
func NewIconSet(ids ...ID) IconSet {
	s := make(IconSet, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

func (s IconSet) Add(id ID) {
	if id != 0 {
		s[id] = struct{}{}
	}
}

func (s IconSet) Has(id ID) bool {
	_, ok := s[id]
	return ok
}

// Union adds every member of other to s.
func (s IconSet) Union(other IconSet) {
	for id := range other {
		s[id] = struct{}{}
	}
}

// Sorted returns the members in ascending order.  Sets carry no order; this
// only exists so pages render the same way twice.
func (s IconSet) Sorted() []ID {
	out := make([]ID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
