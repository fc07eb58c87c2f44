package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/campus-access-map/internal/apiclient"
	"github.com/iliyamo/campus-access-map/internal/handler"
	"github.com/iliyamo/campus-access-map/internal/middleware"
	"github.com/iliyamo/campus-access-map/internal/queue"
	"github.com/iliyamo/campus-access-map/internal/render"
	"github.com/iliyamo/campus-access-map/internal/repository"
	"github.com/iliyamo/campus-access-map/internal/resolver"
	"github.com/iliyamo/campus-access-map/internal/router"
)

// fakeAPI serves canned responses and records every call as "METHOD path".
type fakeAPI struct {
	mu     sync.Mutex
	calls  []string
	routes map[string]string
	fail   map[string]int
}

func newFakeAPI(t *testing.T, routes map[string]string) (*fakeAPI, *httptest.Server) {
	t.Helper()
	f := &fakeAPI{routes: routes}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		f.mu.Lock()
		f.calls = append(f.calls, key)
		status := f.fail[key]
		f.mu.Unlock()
		if status != 0 {
			w.WriteHeader(status)
			return
		}
		if body, ok := f.routes[key]; ok {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(body))
			return
		}
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeAPI) failWith(key string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail == nil {
		f.fail = map[string]int{}
	}
	f.fail[key] = status
}

func (f *fakeAPI) count(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == key {
			n++
		}
	}
	return n
}

type chanPublisher struct{ events chan queue.ModerationEvent }

func (p chanPublisher) PublishModerated(_ context.Context, ev queue.ModerationEvent) error {
	p.events <- ev
	return nil
}

// browser replays cookies between requests like a real client.
type browser struct {
	t       *testing.T
	e       *echo.Echo
	cookies map[string]*http.Cookie
}

func (b *browser) do(method, target string, form url.Values, hdr map[string]string) *httptest.ResponseRecorder {
	b.t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	for _, ck := range b.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	b.e.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(b.cookies, ck.Name)
			continue
		}
		b.cookies[ck.Name] = ck
	}
	return rec
}

func (b *browser) login() {
	b.cookies[middleware.TokenCookie] = &http.Cookie{Name: middleware.TokenCookie, Value: "tok"}
}

type fixture struct {
	api    *fakeAPI
	events chan queue.ModerationEvent
	b      *browser
}

func noop(next echo.HandlerFunc) echo.HandlerFunc { return next }

func setup(t *testing.T, routes map[string]string) fixture {
	t.Helper()
	api, srv := newFakeAPI(t, routes)
	client := apiclient.New(srv.URL, 2*time.Second)
	res := resolver.New(srv.URL)
	sessions := handler.NewSessions(time.Hour, false)
	events := make(chan queue.ModerationEvent, 4)

	e := echo.New()
	e.Renderer = render.MustNew()
	m := &handler.MapHandler{API: client, Resolver: res, Sessions: sessions, MapImageURL: "/map.svg", Width: 960, Height: 480}
	a := &handler.AdminHandler{
		API:       client,
		Resolver:  res,
		Sessions:  sessions,
		Publisher: chanPublisher{events: events},
		History:   repository.NewModerationRepo(nil),
		LoginPath: "/pages/auth/",
	}
	router.RegisterRoutes(e, "")
	router.RegisterMap(e, m, noop, noop)
	router.RegisterAdmin(e, a)

	return fixture{api: api, events: events, b: &browser{t: t, e: e, cookies: map[string]*http.Cookie{}}}
}

const bloco5 = `{"id":5,"name":"Bloco 5","description":"Salas","top":50,"left":"50","images":[],"accessibility_items":[]}`

var (
	confirmAction   = regexp.MustCompile(`/admin/confirm/([0-9a-f-]{36})"`)
	backdropDismiss = regexp.MustCompile(`action="(/admin/confirm/[0-9a-f-]{36}/cancel)" class="backdrop-dismiss"`)
)

func TestHealth(t *testing.T) {
	f := setup(t, nil)
	rec := f.b.do(http.MethodGet, "/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPinsJSON(t *testing.T) {
	f := setup(t, map[string]string{"GET /locations/": `{"locations":[` + bloco5 + `]}`})

	rec := f.b.do(http.MethodGet, "/map/pins.json", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var pins []struct {
		ID   int64   `json:"id"`
		X    float64 `json:"x"`
		Y    float64 `json:"y"`
		HTML string  `json:"html"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pins))
	require.Len(t, pins, 1)
	assert.Equal(t, int64(5), pins[0].ID)
	assert.Equal(t, 480.0, pins[0].X)
	assert.Equal(t, 240.0, pins[0].Y)
	assert.Contains(t, pins[0].HTML, "<svg")
}

func TestMapPageEmbedsPins(t *testing.T) {
	f := setup(t, map[string]string{"GET /locations/": `[` + bloco5 + `]`})

	rec := f.b.do(http.MethodGet, "/map", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Bloco 5"`)
	assert.Contains(t, f.b.cookies, handler.SessionCookie)
}

func TestInfoModalSlidesKeepOrder(t *testing.T) {
	f := setup(t, map[string]string{
		"GET /locations/5": bloco5,
		"GET /comments/5/comments": `[{"id":1,"user_name":"ana","rating":4,"status":"approved",` +
			`"images":["http://img/a.png",{"id":9,"url":"http://img/b.png"}]},` +
			`{"id":2,"user_name":"bia","rating":1,"status":"pending","images":["http://img/hidden.png"]}]`,
	})

	rec := f.b.do(http.MethodGet, "/map/locations/5?from=pin", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	a, b := strings.Index(body, "http://img/a.png"), strings.Index(body, "http://img/b.png")
	require.True(t, a >= 0 && b >= 0, "both slides rendered")
	assert.Less(t, a, b)
	assert.NotContains(t, body, "hidden.png")
	assert.Contains(t, body, "4/5")
	assert.Contains(t, body, `data-history-pushed="true"`)
}

func TestBackAfterPinClickPops(t *testing.T) {
	f := setup(t, map[string]string{"GET /locations/5": bloco5})
	f.b.do(http.MethodGet, "/map/locations/5?from=pin", nil, nil)

	rec := f.b.do(http.MethodPost, "/map/back", nil, map[string]string{echo.HeaderAccept: echo.MIMEApplicationJSON})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"pop":true}`, rec.Body.String())

	rec = f.b.do(http.MethodPost, "/map/back", nil, map[string]string{echo.HeaderAccept: echo.MIMEApplicationJSON})
	assert.JSONEq(t, `{"pop":false}`, rec.Body.String())
}

func TestCommentButtonNeedsReviewsTab(t *testing.T) {
	f := setup(t, map[string]string{"GET /locations/5": bloco5})
	f.b.do(http.MethodGet, "/map/locations/5", nil, nil)

	rec := f.b.do(http.MethodGet, "/map/locations/5/comment", nil, nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/map/locations/5/tab/reviews", rec.Header().Get(echo.HeaderLocation))

	rec = f.b.do(http.MethodGet, "/map/locations/5/tab/reviews", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `href="/map/locations/5/comment"`)

	rec = f.b.do(http.MethodGet, "/map/locations/5/comment", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Comentar sobre Bloco 5")
}

func TestSubmitCommentWithoutRatingMakesNoCall(t *testing.T) {
	f := setup(t, map[string]string{"GET /locations/5": bloco5})

	rec := f.b.do(http.MethodPost, "/map/locations/5/comments", url.Values{
		"user_name": {"ana"},
		"comment":   {"Rampa boa"},
		"rating":    {"0"},
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Por favor, selecione uma avaliação.")
	assert.Contains(t, rec.Body.String(), "Rampa boa")
	assert.Zero(t, f.api.count("POST /comments/"))
}

func TestSubmitCommentPostsPending(t *testing.T) {
	f := setup(t, map[string]string{"GET /locations/5": bloco5})

	rec := f.b.do(http.MethodPost, "/map/locations/5/comments", url.Values{
		"user_name": {"ana"},
		"comment":   {"ok"},
		"rating":    {"5"},
	}, nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, 1, f.api.count("POST /comments/"))
}

func TestAdminRequiresToken(t *testing.T) {
	f := setup(t, nil)
	rec := f.b.do(http.MethodGet, "/admin/comments", nil, nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/pages/auth/", rec.Header().Get(echo.HeaderLocation))
}

func TestApproveRunsOnceAndPublishes(t *testing.T) {
	f := setup(t, map[string]string{
		"GET /comments/pending": `{"comments":[{"id":7,"user_name":"ana","rating":3,"status":"pending","location_id":5}]}`,
	})
	f.b.login()

	f.b.do(http.MethodGet, "/admin/comments", nil, nil)
	rec := f.b.do(http.MethodPost, "/admin/comments/7/approve", nil, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = f.b.do(http.MethodGet, "/admin/comments", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	m := confirmAction.FindStringSubmatch(rec.Body.String())
	require.Len(t, m, 2, "dialog rendered")
	assert.Contains(t, rec.Body.String(), "Aprovar o comentário de ana")

	rec = f.b.do(http.MethodPost, "/admin/confirm/"+m[1], nil, nil)
	assert.Equal(t, "/admin/comments", rec.Header().Get(echo.HeaderLocation))
	assert.Equal(t, 1, f.api.count("PATCH /comments/7/status"))

	select {
	case ev := <-f.events:
		assert.Equal(t, "approved", ev.Status)
		assert.NotEmpty(t, ev.EventID)
		assert.EqualValues(t, 7, ev.CommentID)
		assert.EqualValues(t, 5, ev.LocationID)
	case <-time.After(2 * time.Second):
		t.Fatal("no moderation event published")
	}

	rec = f.b.do(http.MethodPost, "/admin/confirm/"+m[1], nil, nil)
	assert.Equal(t, "/admin", rec.Header().Get(echo.HeaderLocation))
	assert.Equal(t, 1, f.api.count("PATCH /comments/7/status"))
}

func TestBackdropClickDismissesDialog(t *testing.T) {
	f := setup(t, map[string]string{
		"GET /comments/pending": `[{"id":7,"user_name":"ana","rating":3,"status":"pending"}]`,
	})
	f.b.login()

	f.b.do(http.MethodPost, "/admin/comments/7/reject", nil, nil)
	rec := f.b.do(http.MethodGet, "/admin/comments", nil, nil)
	m := backdropDismiss.FindStringSubmatch(rec.Body.String())
	require.Len(t, m, 2, "backdrop carries a cancel form")
	token := confirmAction.FindStringSubmatch(rec.Body.String())
	require.Len(t, token, 2)

	rec = f.b.do(http.MethodPost, m[1], nil, nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/comments", rec.Header().Get(echo.HeaderLocation))

	rec = f.b.do(http.MethodGet, "/admin/comments", nil, nil)
	assert.NotContains(t, rec.Body.String(), "modal confirm")

	f.b.do(http.MethodPost, "/admin/confirm/"+token[1], nil, nil)
	assert.Zero(t, f.api.count("PATCH /comments/7/status"))
	select {
	case ev := <-f.events:
		t.Fatalf("unexpected event %+v", ev)
	default:
	}
}

func TestStaleConfirmTokenCallsNothing(t *testing.T) {
	f := setup(t, nil)
	f.b.login()

	f.b.do(http.MethodPost, "/admin/comments/7/reject", nil, nil)
	rec := f.b.do(http.MethodPost, "/admin/confirm/00000000-0000-0000-0000-000000000000", nil, nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Zero(t, f.api.count("PATCH /comments/7/status"))
}

func TestLocationDetailAndTabs(t *testing.T) {
	f := setup(t, map[string]string{"GET /locations/5": bloco5})
	f.b.login()

	rec := f.b.do(http.MethodGet, "/admin/locations/5", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h2>Bloco 5</h2>")

	rec = f.b.do(http.MethodGet, "/admin/locations/5?tab=position", nil, nil)
	assert.Contains(t, rec.Body.String(), "<dd>50</dd>")
}

func TestFormCannotJumpToDetail(t *testing.T) {
	f := setup(t, map[string]string{"GET /locations/5": bloco5})
	f.b.login()

	f.b.do(http.MethodGet, "/admin/locations/5/edit", nil, nil)
	rec := f.b.do(http.MethodGet, "/admin/locations/5", nil, nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/locations", rec.Header().Get(echo.HeaderLocation))
}

func TestSaveLocationValidatesBeforeConfirm(t *testing.T) {
	f := setup(t, nil)
	f.b.login()

	rec := f.b.do(http.MethodPost, "/admin/locations", url.Values{"name": {"Quadra"}, "top": {"x"}}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Posição superior deve ser um número.")
	assert.False(t, confirmAction.MatchString(rec.Body.String()))

	rec = f.b.do(http.MethodPost, "/admin/locations", url.Values{"name": {"Quadra"}, "top": {"10"}}, nil)
	m := confirmAction.FindStringSubmatch(rec.Body.String())
	require.Len(t, m, 2)
	assert.Zero(t, f.api.count("POST /locations/"))

	rec = f.b.do(http.MethodPost, "/admin/confirm/"+m[1], nil, nil)
	assert.Equal(t, "/admin/locations", rec.Header().Get(echo.HeaderLocation))
	assert.Equal(t, 1, f.api.count("POST /locations/"))
}

func TestFailedCreateKeepsTypedForm(t *testing.T) {
	f := setup(t, nil)
	f.api.failWith("POST /locations/", http.StatusInternalServerError)
	f.b.login()

	rec := f.b.do(http.MethodPost, "/admin/locations", url.Values{
		"name":        {"Quadra coberta"},
		"description": {"Ao lado do bloco 2"},
		"top":         {"12.5"},
	}, nil)
	m := confirmAction.FindStringSubmatch(rec.Body.String())
	require.Len(t, m, 2)

	rec = f.b.do(http.MethodPost, "/admin/confirm/"+m[1], nil, nil)
	require.Equal(t, "/admin/locations/new", rec.Header().Get(echo.HeaderLocation))

	rec = f.b.do(http.MethodGet, "/admin/locations/new", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `value="Quadra coberta"`)
	assert.Contains(t, body, "Ao lado do bloco 2")
	assert.Contains(t, body, `value="12.5"`)
	assert.Contains(t, body, "Não foi possível salvar o local.")

	rec = f.b.do(http.MethodGet, "/admin/locations/new", nil, nil)
	assert.NotContains(t, rec.Body.String(), "Quadra coberta")
}

func TestModerationPageWithoutDatabase(t *testing.T) {
	f := setup(t, nil)
	f.b.login()
	rec := f.b.do(http.MethodGet, "/admin/moderation", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLogoutClearsTokenAndSession(t *testing.T) {
	f := setup(t, nil)
	f.b.login()
	f.b.do(http.MethodGet, "/admin/moderation", nil, nil)
	require.Contains(t, f.b.cookies, handler.SessionCookie)

	rec := f.b.do(http.MethodPost, "/admin/logout", nil, nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/pages/auth/", rec.Header().Get(echo.HeaderLocation))
	assert.NotContains(t, f.b.cookies, middleware.TokenCookie)
	assert.NotContains(t, f.b.cookies, handler.SessionCookie)
}
