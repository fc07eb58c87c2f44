// Package marker decides how a location is drawn on the campus map: its
// category, fill color and overlay artwork, and where its pin goes.
package marker

import "strings"

// Category groups locations that share a pin color.
type Category string

const (
	Estacionamento Category = "estacionamento"
	Bloco          Category = "bloco"
	QuadraAreia    Category = "quadra_areia"
	Quadra         Category = "quadra"
	Campo          Category = "campo"
	Cantina        Category = "cantina"
	Biblioteca     Category = "biblioteca"
	Auditorio      Category = "auditorio"
	Cores          Category = "cores"
	Entrada        Category = "entrada"
	Default        Category = "default"
)

var palette = map[Category]string{
	Estacionamento: "#FF0000",
	Bloco:          "#00FF00",
	Campo:          "#0000FF",
	Quadra:         "#FFFF00",
	QuadraAreia:    "#FFA500",
	Biblioteca:     "#800080",
	Cantina:        "#00FFFF",
	Auditorio:      "#FFC0CB",
	Cores:          "#808080",
	Entrada:        "#000000",
	Default:        "#000000",
}

// OverlayDir is where the overlay artwork is served from.
const OverlayDir = "/assets/img/map/"

// overlays maps exact (lower-cased) names to artwork.
var overlays = map[string]string{
	"estacionamento":  OverlayDir + "estacionamento.svg",
	"bloco 5":         OverlayDir + "Bloco-5.svg",
	"bloco 6":         OverlayDir + "Bloco-6.svg",
	"bloco 8":         OverlayDir + "Bloco-8.svg",
	"bloco 9":         OverlayDir + "Bloco-9.svg",
	"bloco 16":        OverlayDir + "Bloco-16.svg",
	"quadra de areia": OverlayDir + "Quadra de areia.svg",
	"quadra":          OverlayDir + "Quadra.svg",
	"campo":           OverlayDir + "Quadra.svg",
	"biblioteca":      OverlayDir + "Biblioteca.svg",
	"cantina":         OverlayDir + "Cantina.svg",
	"auditório":       OverlayDir + "Auditório.svg",
	"cores":           OverlayDir + "Cores.svg",
	"entrada":         OverlayDir + "entrada.svg",
}

type rule struct {
	needles []string // any of these
	key     string
}

// blockRules apply only to names containing "bloco".  Order matters: the
// first digit found wins.
var blockRules = []rule{
	{[]string{"5"}, "bloco 5"},
	{[]string{"6"}, "bloco 6"},
	{[]string{"8"}, "bloco 8"},
	{[]string{"9"}, "bloco 9"},
	{[]string{"16"}, "bloco 16"},
}

// overlayRules run after the block rules.  "quadra de areia" has to come
// before "quadra", which is a substring of it.
var overlayRules = []rule{
	{[]string{"quadra de areia", "areia"}, "quadra de areia"},
	{[]string{"quadra"}, "quadra"},
	{[]string{"campo"}, "campo"},
	{[]string{"estacionamento"}, "estacionamento"},
	{[]string{"biblioteca"}, "biblioteca"},
	{[]string{"cantina"}, "cantina"},
	{[]string{"audit"}, "auditório"},
	{[]string{"cores"}, "cores"},
	{[]string{"entrada"}, "entrada"},
}

type categoryRule struct {
	needle   string
	category Category
}

var categoryRules = []categoryRule{
	{"estacionamento", Estacionamento},
	{"bloco", Bloco},
	{"quadra de areia", QuadraAreia},
	{"quadra", Quadra},
	{"campo", Campo},
	{"cantina", Cantina},
	{"biblioteca", Biblioteca},
	{"audit", Auditorio},
	{"cores", Cores},
	{"entrada", Entrada},
}

// Style is the result of classifying a location name.  Overlay is empty
// when no artwork matches.
type Style struct {
	Category Category
	Color    string
	Overlay  string
}

func (s Style) HasOverlay() bool { return s.Overlay != "" }

// Classify maps a free-text location name to its marker style.  It is a
// pure function of the name.
func Classify(name string) Style {
	c := CategoryOf(name)
	return Style{Category: c, Color: Color(c), Overlay: OverlayFor(name)}
}

// CategoryOf applies the category rules in order; unmatched names are Default.
func CategoryOf(name string) Category {
	n := strings.ToLower(name)
	for _, r := range categoryRules {
		if strings.Contains(n, r.needle) {
			return r.category
		}
	}
	return Default
}

// Color returns the palette entry for c, falling back to the default color.
func Color(c Category) string {
	if col, ok := palette[c]; ok {
		return col
	}
	return palette[Default]
}

// OverlayFor tries an exact case-insensitive match first, then the ordered
// substring rules.
func OverlayFor(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if p, ok := overlays[n]; ok {
		return p
	}
	if strings.Contains(n, "bloco") {
		if p, ok := firstMatch(n, blockRules); ok {
			return p
		}
	}
	p, _ := firstMatch(n, overlayRules)
	return p
}

func firstMatch(n string, rules []rule) (string, bool) {
	for _, r := range rules {
		for _, needle := range r.needles {
			if strings.Contains(n, needle) {
				return overlays[r.key], true
			}
		}
	}
	return "", false
}
