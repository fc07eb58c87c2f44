package view

import (
	"github.com/iliyamo/campus-access-map/internal/marker"
	"github.com/iliyamo/campus-access-map/internal/model"
)

// Pin is what the map page hands to the map library for one location.
type Pin struct {
	ID        model.ID `json:"id"`
	Name      string   `json:"name"`
	X         float64  `json:"x"`
	Y         float64  `json:"y"`
	Category  string   `json:"category"`
	Color     string   `json:"color"`
	ClassName string   `json:"className"`
	HTML      string   `json:"html"`
}

// BuildPins places every location on a w x h map image.  Locations without
// coordinates land on the top-left corner, as the API gives them.
func BuildPins(locs []model.Location, w, h int) []Pin {
	pins := make([]Pin, 0, len(locs))
	for _, l := range locs {
		style := marker.Classify(l.Name)
		pt := marker.Place(l.Top, l.Left, w, h)
		pins = append(pins, Pin{
			ID:        l.ID,
			Name:      l.Name,
			X:         pt.X,
			Y:         pt.Y,
			Category:  string(style.Category),
			Color:     style.Color,
			ClassName: marker.ClassName(style.Category),
			HTML:      marker.PinHTML(style, l.Name),
		})
	}
	return pins
}
