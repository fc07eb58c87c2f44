package model

// Location is a point of interest on the campus map.
//
// Top and Left are percentages of the map image height and width.  They are
// not range checked; out-of-range values put the marker off canvas.
type Location struct {
	ID                 ID
	Name               string
	Description        string
	Top                float64
	Left               float64
	HasTop             bool
	HasLeft            bool
	Images             []ImageRef
	AccessibilityItems []AccessibilityIcon // items sent inline as objects
	AccessibilityIDs   IconSet             // every referenced item id, inline or bare
}

// LocationInput is the body sent when creating or updating a location.
type LocationInput struct {
	Name               string   `json:"name"`
	Description        string   `json:"description"`
	Top                *int     `json:"top"`
	Left               *int     `json:"left"`
	Images             []string `json:"images"`
	AccessibilityItems []ID     `json:"accessibility_items"`
}
