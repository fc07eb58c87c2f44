// Package mapimage reads the pixel size of the campus map image.  Pins are
// positioned as percentages of that size.
package mapimage

import (
	"encoding/xml"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrNoSize is returned for SVG documents without width/height or viewBox.
var ErrNoSize = errors.New("mapimage: svg has no usable size")

// Size is the natural size of the map image.
type Size struct {
	Width  int
	Height int
}

// Read returns the size of the image at path.  Raster formats are decoded
// with image.DecodeConfig; SVG files are sized from their root element.
func Read(path string) (Size, error) {
	f, err := os.Open(path)
	if err != nil {
		return Size{}, err
	}
	defer f.Close()
	if strings.EqualFold(filepath.Ext(path), ".svg") {
		return readSVG(f)
	}
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return Size{}, fmt.Errorf("mapimage: decode %s: %w", path, err)
	}
	return Size{Width: cfg.Width, Height: cfg.Height}, nil
}

// ReadOr is Read with a fallback for missing or unreadable files.
func ReadOr(path string, fallback Size) Size {
	if path == "" {
		return fallback
	}
	s, err := Read(path)
	if err != nil || s.Width <= 0 || s.Height <= 0 {
		return fallback
	}
	return s
}

func readSVG(r io.Reader) (Size, error) {
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return Size{}, ErrNoSize
			}
			return Size{}, fmt.Errorf("mapimage: parse svg: %w", err)
		}
		el, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if el.Name.Local != "svg" {
			return Size{}, ErrNoSize
		}
		var width, height, viewBox string
		for _, a := range el.Attr {
			switch a.Name.Local {
			case "width":
				width = a.Value
			case "height":
				height = a.Value
			case "viewBox":
				viewBox = a.Value
			}
		}
		w, wok := svgLength(width)
		h, hok := svgLength(height)
		if wok && hok {
			return Size{Width: w, Height: h}, nil
		}
		fields := strings.Fields(strings.ReplaceAll(viewBox, ",", " "))
		if len(fields) == 4 {
			w, wok = svgLength(fields[2])
			h, hok = svgLength(fields[3])
			if wok && hok {
				return Size{Width: w, Height: h}, nil
			}
		}
		return Size{}, ErrNoSize
	}
}

// svgLength reads "1200", "1200px" or "1200.5"; percentages are rejected.
func svgLength(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasSuffix(s, "%") {
		return 0, false
	}
	s = strings.TrimSuffix(s, "px")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 {
		return 0, false
	}
	return int(f + 0.5), true
}
