package render

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/campus-access-map/internal/model"
	"github.com/iliyamo/campus-access-map/internal/resolver"
	"github.com/iliyamo/campus-access-map/internal/view"
)

func renderPage(t *testing.T, name string, data any) string {
	t.Helper()
	r, err := New()
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, name, data, nil))
	return buf.String()
}

func TestUnknownPage(t *testing.T) {
	r := MustNew()
	assert.Error(t, r.Render(&bytes.Buffer{}, "nope", nil, nil))
}

func TestMapPageInfoModal(t *testing.T) {
	var host view.CarouselHost
	out := renderPage(t, PageMap, MapPage{
		Base:        Base{Title: "Mapa", Flashes: []view.Flash{{Kind: view.FlashError, Message: "Falha ao enviar"}}},
		MapImageURL: "/assets/img/map/mapa_ifba.svg",
		Width:       800,
		Height:      600,
		Modal:       "info",
		InfoTab:     view.InfoTabInfo,
		Info: &view.LocationInfo{
			ID: 3, Name: "Cantina <1>", Description: "Lanches",
			Average: 4, HasAverage: true, AvgStars: view.Stars(4),
			Icons: []view.IconView{{ID: 1, Name: "Rampa", Image: "/r.png"}},
		},
		Carousel: host.Mount([]string{"a.png", "b.png"}),
		Pins:     []view.Pin{{ID: 7, Name: "Bloco 5", X: 480, Y: 240, ClassName: "pin-marker pin-bloco"}},
	})

	assert.Contains(t, out, "Cantina &lt;1&gt;")
	assert.Contains(t, out, "Falha ao enviar")
	assert.Contains(t, out, `src="a.png"`)
	assert.Contains(t, out, `src="b.png"`)
	assert.Contains(t, out, "4/5")
	assert.Contains(t, out, "Rampa")
	assert.Contains(t, out, "Adicionar comentário</button>")
	assert.Contains(t, out, `"className":"pin-marker pin-bloco"`)
	assert.Contains(t, out, `"x":480`)
}

func TestMapPageReviewsAndCommentForm(t *testing.T) {
	info := &view.LocationInfo{
		ID: 3, Name: "Cantina", AvgStars: view.Stars(0),
		Comments: []view.CommentRow{{UserName: "ana", Text: "Bom", Date: "09/03/2024", Stars: view.Stars(5)}},
	}
	out := renderPage(t, PageMap, MapPage{Modal: "info", InfoTab: view.InfoTabReviews, CommentEnabled: true, Info: info, Width: 1, Height: 1})
	assert.Contains(t, out, "09/03/2024")
	assert.Contains(t, out, `href="/map/locations/3/comment"`)
	assert.Contains(t, out, "Sem avaliações")

	out = renderPage(t, PageMap, MapPage{
		Modal: "comment", Info: info, Width: 1, Height: 1,
		Form: CommentForm{Rating: 0, Text: "oi", Errors: []string{"Por favor, selecione uma avaliação."}},
	})
	assert.Contains(t, out, "Por favor, selecione uma avaliação.")
	assert.Contains(t, out, `action="/map/locations/3/comments"`)
	assert.NotContains(t, out, "checked")
}

func TestAdminCommentsWithDialog(t *testing.T) {
	var c view.Confirmation
	d := c.Open(view.ConfirmRequest{Title: "Rejeitar comentário", Message: "Tem certeza?", ConfirmLabel: "Rejeitar", Destructive: true})

	out := renderPage(t, PageAdminComments, AdminCommentsPage{
		Base: Base{Admin: true, Dialog: &d},
		Tab:  view.AdminTabComments,
		Rows: []view.PendingRow{{ID: 9, UserName: "ana", Stars: view.Stars(3), Photos: []view.Photo{{URL: "x.png"}}}},
	})
	assert.Contains(t, out, `/admin/comments/9/approve`)
	assert.Contains(t, out, "Ver fotos (1)")
	assert.Contains(t, out, "/admin/confirm/"+d.Token+"/cancel")
	assert.Contains(t, out, "btn-danger\">Rejeitar")
}

func TestAdminLocationsStates(t *testing.T) {
	out := renderPage(t, PageAdminLocations, AdminLocationsPage{
		State: "list", Tab: view.AdminTabLocations,
		Rows: []view.LocationRow{{ID: 5, Name: "Bloco 5", Color: "#00FF00"}},
	})
	assert.Contains(t, out, `href="/admin/locations/5"`)

	out = renderPage(t, PageAdminLocations, AdminLocationsPage{
		State: "detail", DetailTab: view.DetailTabInfo, DetailTabs: view.NewDetailTabs().Names(),
		Detail: &view.LocationDetail{ID: 5, Title: "Bloco 5", Photos: []view.Photo{{URL: "a.png"}, {URL: "b.png", ImageID: 8}}},
	})
	assert.Contains(t, out, "<h2>Bloco 5</h2>")
	assert.Contains(t, out, "/admin/images/8/delete")
	assert.Contains(t, out, "/admin/locations/5/edit")

	out = renderPage(t, PageAdminLocations, AdminLocationsPage{
		State: "form",
		Form:  &view.LocationForm{ID: 0, Items: []view.ItemOption{{ID: 2, Name: "Rampa", Checked: true}}},
	})
	assert.Contains(t, out, "Novo local")
	assert.Contains(t, out, `action="/admin/locations"`)
	assert.Contains(t, out, `value="2" checked`)
}

func TestModerationPage(t *testing.T) {
	out := renderPage(t, PageModeration, ModerationPage{Enabled: false})
	assert.Contains(t, out, "banco de dados não configurado")

	out = renderPage(t, PageModeration, ModerationPage{Enabled: true, Entries: []model.ModerationEntry{
		{CommentID: 4, Status: model.StatusApproved, Actor: "admin", ModeratedAt: time.Date(2024, 5, 2, 14, 30, 0, 0, time.UTC)},
	}})
	assert.Contains(t, out, "#4")
	assert.Contains(t, out, "02/05/2024 14:30")
}

func TestPlaceholderImagesSurviveEscaping(t *testing.T) {
	var host view.CarouselHost
	out := renderPage(t, PageMap, MapPage{
		Base:    Base{Title: "Mapa"},
		Modal:   "info",
		InfoTab: view.InfoTabInfo,
		Info: &view.LocationInfo{
			ID: 3, Name: "Cantina", AvgStars: view.Stars(0),
			Icons: []view.IconView{{ID: 1, Name: "Rampa", Image: resolver.Placeholder}},
		},
		Carousel: host.Mount(nil),
	})

	assert.NotContains(t, out, "ZgotmplZ")
	assert.Contains(t, out, `src="data:image/svg+xml,`)
}

func TestUntrustedDataURLStillFiltered(t *testing.T) {
	var host view.CarouselHost
	out := renderPage(t, PageMap, MapPage{
		Base:     Base{Title: "Mapa"},
		Modal:    "info",
		InfoTab:  view.InfoTabInfo,
		Info:     &view.LocationInfo{ID: 3, Name: "Cantina", AvgStars: view.Stars(0)},
		Carousel: host.Mount([]string{"data:text/html,<script>alert(1)</script>"}),
	})

	assert.Contains(t, out, "ZgotmplZ")
}
