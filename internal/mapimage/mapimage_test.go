package mapimage

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestReadPNG(t *testing.T) {
	p := filepath.Join(t.TempDir(), "map.png")
	f, err := os.Create(p)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 800, 600))))
	require.NoError(t, f.Close())

	s, err := Read(p)
	require.NoError(t, err)
	assert.Equal(t, Size{Width: 800, Height: 600}, s)
}

func TestReadSVG(t *testing.T) {
	p := writeFile(t, "map.svg", `<?xml version="1.0"?><svg xmlns="http://www.w3.org/2000/svg" width="1200px" height="900"></svg>`)
	s, err := Read(p)
	require.NoError(t, err)
	assert.Equal(t, Size{Width: 1200, Height: 900}, s)

	p = writeFile(t, "vb.svg", `<svg xmlns="http://www.w3.org/2000/svg" width="100%" viewBox="0 0 1024 768"></svg>`)
	s, err = Read(p)
	require.NoError(t, err)
	assert.Equal(t, Size{Width: 1024, Height: 768}, s)

	p = writeFile(t, "bad.svg", `<svg xmlns="http://www.w3.org/2000/svg"></svg>`)
	_, err = Read(p)
	assert.ErrorIs(t, err, ErrNoSize)
}

func TestReadOrFallsBack(t *testing.T) {
	fallback := Size{Width: 800, Height: 600}
	assert.Equal(t, fallback, ReadOr("", fallback))
	assert.Equal(t, fallback, ReadOr(filepath.Join(t.TempDir(), "missing.png"), fallback))
	assert.Equal(t, fallback, ReadOr(writeFile(t, "junk.png", "not an image"), fallback))
}
