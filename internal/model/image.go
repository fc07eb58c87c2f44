package model

// ImageKind tags the shape an image reference arrived in.
type ImageKind int

const (
	// ImageRawURL is a bare string: the URL itself.
	ImageRawURL ImageKind = iota + 1
	// ImageIDRef is an object carrying only an id; the URL is derived from it.
	ImageIDRef
	// ImageInline is an object carrying a url (and usually an id).
	ImageInline
)

// ImageRef is the canonical form of every image reference the API returns.
// Only the payload package builds these; everything else reads them.
type ImageRef struct {
	Kind ImageKind
	URL  string
	ID   ID
}

// Deletable reports whether the image can be removed through the API,
// which addresses images by id only.
func (r ImageRef) Deletable() bool { return r.ID != 0 }
