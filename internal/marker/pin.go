package marker

import (
	"fmt"
	"html"
	"strings"
)

// Point is a pixel position on the map image.
type Point struct {
	X float64
	Y float64
}

// Place converts top/left percentages into pixels on a w x h image.  Values
// are used as given; nothing is clamped.
func Place(top, left float64, w, h int) Point {
	return Point{
		X: left * float64(w) / 100,
		Y: top * float64(h) / 100,
	}
}

// ClassName is the CSS class list of a pin.
func ClassName(c Category) string {
	return "pin-marker pin-" + strings.ReplaceAll(string(c), "_", "-")
}

const pinWithOverlay = `<svg width="40" height="40" viewBox="0 0 40 40" xmlns="http://www.w3.org/2000/svg" aria-hidden="true" focusable="false">` +
	`<defs><clipPath id="circle-clip"><circle cx="20" cy="20" r="18"/></clipPath></defs>` +
	`<circle cx="20" cy="20" r="19" fill="%s"/>` +
	`<circle cx="20" cy="20" r="18" fill="#fff"/>` +
	`<image href="%s" x="2" y="2" width="36" height="36" clip-path="url(#circle-clip)" preserveAspectRatio="xMidYMid slice"/>` +
	`</svg>`

const pinPlain = `<svg width="40" height="40" viewBox="0 0 40 40" xmlns="http://www.w3.org/2000/svg" aria-hidden="true" focusable="false">` +
	`<circle cx="20" cy="20" r="19" fill="%s"/>` +
	`<circle cx="20" cy="20" r="18" fill="#fff"/>` +
	`</svg>`

// PinHTML is the markup handed to the map library for one pin: the label
// above a 40x40 badge.  label is escaped.
func PinHTML(s Style, label string) string {
	var icon string
	if s.HasOverlay() {
		icon = fmt.Sprintf(pinWithOverlay, html.EscapeString(s.Color), html.EscapeString(s.Overlay))
	} else {
		icon = fmt.Sprintf(pinPlain, html.EscapeString(s.Color))
	}
	return `<div class="pin-label">` + html.EscapeString(label) + `</div><div>` + icon + `</div>`
}
