// Package resolver turns canonical image and icon references into URLs the
// browser can load.  Everything here is pure: no network access and no
// failure modes beyond reporting "no URL".
package resolver

import (
	"sort"
	"strings"

	"github.com/iliyamo/campus-access-map/internal/model"
	"github.com/iliyamo/campus-access-map/internal/payload"
)

// Placeholder is shown in place of an icon whose image is missing.
const Placeholder = "data:image/svg+xml,%3Csvg xmlns='http://www.w3.org/2000/svg' viewBox='0 0 24 24' fill='%239ca3af'%3E%3Cpath d='M21 19V5c0-1.1-.9-2-2-2H5c-1.1 0-2 .9-2 2v14c0 1.1.9 2 2 2h14c1.1 0 2-.9 2-2zM8.5 13.5l2.5 3.01L14.5 12l4.5 6H5l3.5-4.5z'/%3E%3C/svg%3E"

// Resolver builds display URLs.  Base is the API base URL used for images
// that are referenced by id only.
type Resolver struct {
	Base string
}

// New trims any trailing slash from base.
func New(base string) Resolver {
	return Resolver{Base: strings.TrimRight(base, "/")}
}

// Resolve returns the display URL for ref.  Raw URLs are returned
// unchanged, inline objects yield their url and id-only references are
// served from {base}/images/{id}.
func (r Resolver) Resolve(ref model.ImageRef) (string, bool) {
	switch ref.Kind {
	case model.ImageRawURL, model.ImageInline:
		if ref.URL == "" {
			return "", false
		}
		return ref.URL, true
	case model.ImageIDRef:
		if ref.ID == 0 {
			return "", false
		}
		return r.Base + "/images/" + ref.ID.String(), true
	}
	return "", false
}

// ResolveValue resolves an already-decoded JSON value (string or object).
// nil, empty objects and every other type report false.
func (r Resolver) ResolveValue(v any) (string, bool) {
	ref, ok := payload.ImageRefFromValue(v)
	if !ok {
		return "", false
	}
	return r.Resolve(ref)
}

// ResolveAll resolves refs in order, skipping the ones without a URL.
func (r Resolver) ResolveAll(refs []model.ImageRef) []string {
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		if u, ok := r.Resolve(ref); ok {
			out = append(out, u)
		}
	}
	return out
}

// LookupIcons keeps the catalog entries whose id is in ids, ordered by id.
// Ids missing from the catalog (deleted icons, stale references) are
// dropped without error.
func LookupIcons(ids model.IconSet, catalog []model.AccessibilityIcon) []model.AccessibilityIcon {
	byID := make(map[model.ID]model.AccessibilityIcon, len(catalog))
	for _, icon := range catalog {
		byID[icon.ID] = icon
	}
	out := make([]model.AccessibilityIcon, 0, len(ids))
	for id := range ids {
		if icon, ok := byID[id]; ok {
			out = append(out, icon)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// IconImage is the icon's image URL, or Placeholder when it has none.
func IconImage(icon model.AccessibilityIcon) string {
	if strings.TrimSpace(icon.ImageURL) == "" {
		return Placeholder
	}
	return icon.ImageURL
}
