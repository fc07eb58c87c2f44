package model

// AccessibilityIcon is one entry of the icon catalog.  ImageURL holds the
// first non-empty of icon_url, image_url, image and icon.
type AccessibilityIcon struct {
	ID       ID
	Name     string
	ImageURL string
}
