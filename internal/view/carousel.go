package view

import (
	"sync"

	"github.com/google/uuid"

	"github.com/iliyamo/campus-access-map/internal/resolver"
)

// Carousel is one mounted image slider.
type Carousel struct {
	ID     string
	Slides []string
	Loop   bool

	mu        sync.Mutex
	destroyed bool
}

// Empty reports whether the carousel only shows the placeholder slide.
func (c *Carousel) Empty() bool {
	return len(c.Slides) == 1 && c.Slides[0] == resolver.Placeholder
}

func (c *Carousel) Destroyed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.destroyed
}

func (c *Carousel) destroy() {
	c.mu.Lock()
	c.destroyed = true
	c.mu.Unlock()
}

// CarouselHost owns the single live carousel of a session.
type CarouselHost struct {
	mu      sync.Mutex
	current *Carousel
}

// Mount destroys the live carousel, if any, and creates a new one over
// urls.  With no urls the carousel shows one placeholder slide.
func (h *CarouselHost) Mount(urls []string) *Carousel {
	slides := make([]string, 0, len(urls))
	for _, u := range urls {
		if u != "" {
			slides = append(slides, u)
		}
	}
	if len(slides) == 0 {
		slides = append(slides, resolver.Placeholder)
	}
	next := &Carousel{
		ID:     "carousel-" + uuid.NewString(),
		Slides: slides,
		Loop:   len(slides) > 1,
	}

	h.mu.Lock()
	prev := h.current
	h.current = next
	h.mu.Unlock()
	if prev != nil {
		prev.destroy()
	}
	return next
}

// Current returns the live carousel or nil.
func (h *CarouselHost) Current() *Carousel {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

// Destroy tears down the live carousel.
func (h *CarouselHost) Destroy() {
	h.mu.Lock()
	prev := h.current
	h.current = nil
	h.mu.Unlock()
	if prev != nil {
		prev.destroy()
	}
}
