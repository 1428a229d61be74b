package web

import (
	"bufio"
	"context"
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaminalder/tictactoe-ai/internal/app"
	"github.com/jaminalder/tictactoe-ai/internal/dependencies/mocks"
	"github.com/jaminalder/tictactoe-ai/internal/domain"
	"github.com/jaminalder/tictactoe-ai/internal/testutil"
)

type centrePicker struct{}

func (centrePicker) ChooseMove(b domain.Board) int {
	if b[4] == domain.Empty {
		return 4
	}
	return b.EmptyCells()[0]
}

func newTestServer(t *testing.T) (*app.Service, *mocks.ManualScheduler, http.Handler) {
	t.Helper()
	sched := mocks.NewManualScheduler()
	s := app.NewService(app.ServiceConfig{
		Picker:     centrePicker{},
		Scheduler:  sched,
		ThinkDelay: app.DefaultThinkDelay,
		Logger:     testutil.NopLogger(),
	})
	h := NewServer(s, testutil.NopLogger())
	return s, sched, h
}

func post(h http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func parseHTML(t *testing.T, body string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	require.NoError(t, err)
	return doc
}

func TestIndexPage(t *testing.T) {
	_, _, h := newTestServer(t)
	req := httptest.NewRequest("GET", "/", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	doc := parseHTML(t, rr.Body.String())
	assert.Equal(t, 1, doc.Find(`form[action="/game"]`).Length())
	assert.Equal(t, 1, doc.Find(`button[value="computer"]`).Length())
}

func TestCreateRedirectsToGame(t *testing.T) {
	svc, _, h := newTestServer(t)
	rr := post(h, "/game", url.Values{"mode": {"computer"}})
	require.Equal(t, http.StatusSeeOther, rr.Code)

	loc := rr.Result().Header.Get("Location")
	require.True(t, strings.HasPrefix(loc, "/game/"), "location %q", loc)
	gs, ok := svc.Get(strings.TrimPrefix(loc, "/game/"))
	require.True(t, ok)
	assert.Equal(t, app.HumanVsComputer, gs.Game.Mode)
}

func TestCreateRejectsUnknownMode(t *testing.T) {
	_, _, h := newTestServer(t)
	rr := post(h, "/game", url.Values{"mode": {"chess"}})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGamePageRendersBoardAndSSE(t *testing.T) {
	svc, _, h := newTestServer(t)
	gs, _ := svc.CreateGame(app.HumanVsHuman)

	req := httptest.NewRequest("GET", "/game/"+url.PathEscape(gs.ID), nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	body := rr.Body.String()
	assert.Contains(t, body, `hx-ext="sse"`)
	assert.Contains(t, body, "/game/"+gs.ID+"/events")

	doc := parseHTML(t, body)
	assert.Equal(t, 9, doc.Find("#board button.box").Length())
	assert.Equal(t, "Turn for X", strings.TrimSpace(doc.Find(".turn-info").Text()))
	assert.Equal(t, "Mode: Human vs Human", strings.TrimSpace(doc.Find(".mode-toggle").Text()))
}

func TestUnknownGameIsNotFound(t *testing.T) {
	_, _, h := newTestServer(t)
	req := httptest.NewRequest("GET", "/game/nope", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	assert.Equal(t, http.StatusNotFound, post(h, "/game/nope/play", url.Values{"cell": {"0"}}).Code)
	assert.Equal(t, http.StatusNotFound, post(h, "/game/nope/reset", nil).Code)
}

func TestPlayEndpointUpdatesStateAndReturnsFragment(t *testing.T) {
	svc, _, h := newTestServer(t)
	gs, _ := svc.CreateGame(app.HumanVsHuman)

	rr := post(h, "/game/"+gs.ID+"/play", url.Values{"cell": {"0"}})
	require.Equal(t, http.StatusOK, rr.Code)

	doc := parseHTML(t, rr.Body.String())
	require.Equal(t, 1, doc.Find("#board").Length())
	cell := doc.Find(`button[data-cell="0"]`)
	assert.Equal(t, "X", strings.TrimSpace(cell.Text()))
	_, disabled := cell.Attr("disabled")
	assert.True(t, disabled)
	assert.Equal(t, "Turn for O", strings.TrimSpace(doc.Find(".turn-info").Text()))

	latest, _ := svc.Get(gs.ID)
	assert.Equal(t, 1, latest.Game.Moves())
}

func TestPlayEndpointShowsRejection(t *testing.T) {
	svc, _, h := newTestServer(t)
	gs, _ := svc.CreateGame(app.HumanVsHuman)
	post(h, "/game/"+gs.ID+"/play", url.Values{"cell": {"4"}})

	rr := post(h, "/game/"+gs.ID+"/play", url.Values{"cell": {"4"}})
	require.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(t, rr.Body.String())
	assert.Equal(t, "Cell is occupied", strings.TrimSpace(doc.Find(".alert").Text()))

	rr = post(h, "/game/"+gs.ID+"/play", url.Values{"cell": {"x"}})
	doc = parseHTML(t, rr.Body.String())
	assert.Equal(t, "Out of bounds", strings.TrimSpace(doc.Find(".alert").Text()))
}

func TestWinningLineHighlighted(t *testing.T) {
	svc, _, h := newTestServer(t)
	gs, _ := svc.CreateGame(app.HumanVsHuman)
	var rr *httptest.ResponseRecorder
	for _, c := range []string{"0", "4", "1", "3", "2"} {
		rr = post(h, "/game/"+gs.ID+"/play", url.Values{"cell": {c}})
	}
	doc := parseHTML(t, rr.Body.String())
	assert.Equal(t, "X Won", strings.TrimSpace(doc.Find(".turn-info").Text()))

	var wins []string
	doc.Find("button.win-animation").Each(func(_ int, s *goquery.Selection) {
		v, _ := s.Attr("data-cell")
		wins = append(wins, v)
	})
	assert.Equal(t, []string{"0", "1", "2"}, wins)
	assert.Equal(t, 0, doc.Find("button.box:not([disabled])").Length())
}

func TestComputerModeFlow(t *testing.T) {
	svc, sched, h := newTestServer(t)
	gs, _ := svc.CreateGame(app.HumanVsComputer)

	rr := post(h, "/game/"+gs.ID+"/play", url.Values{"cell": {"0"}})
	doc := parseHTML(t, rr.Body.String())
	assert.Equal(t, "Computer thinking...", strings.TrimSpace(doc.Find(".turn-info").Text()))
	assert.Equal(t, 0, doc.Find("button.box:not([disabled])").Length())

	rr = post(h, "/game/"+gs.ID+"/play", url.Values{"cell": {"1"}})
	doc = parseHTML(t, rr.Body.String())
	assert.Equal(t, "Not your turn", strings.TrimSpace(doc.Find(".alert").Text()))

	sched.RunPending()
	latest, _ := svc.Get(gs.ID)
	assert.Equal(t, domain.O, latest.Game.Board[4])
	assert.Equal(t, "Your turn (X)", latest.Game.Prompt())
}

func TestResetAndModeEndpoints(t *testing.T) {
	svc, _, h := newTestServer(t)
	gs, _ := svc.CreateGame(app.HumanVsHuman)
	post(h, "/game/"+gs.ID+"/play", url.Values{"cell": {"0"}})

	rr := post(h, "/game/"+gs.ID+"/reset", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	latest, _ := svc.Get(gs.ID)
	assert.Equal(t, 0, latest.Game.Moves())

	rr = post(h, "/game/"+gs.ID+"/mode", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(t, rr.Body.String())
	assert.Equal(t, "Mode: Human vs Computer", strings.TrimSpace(doc.Find(".mode-toggle").Text()))
	assert.Equal(t, "Your turn (X)", strings.TrimSpace(doc.Find(".turn-info").Text()))

	rr = post(h, "/game/"+gs.ID+"/mode", url.Values{"mode": {"human"}})
	require.Equal(t, http.StatusOK, rr.Code)
	latest, _ = svc.Get(gs.ID)
	assert.Equal(t, app.HumanVsHuman, latest.Game.Mode)

	assert.Equal(t, http.StatusBadRequest, post(h, "/game/"+gs.ID+"/mode", url.Values{"mode": {"bogus"}}).Code)
}

func TestEventsEndpointSSEHeaders(t *testing.T) {
	_, _, h := newTestServer(t)
	rrCreate := post(h, "/game", nil)
	loc := rrCreate.Result().Header.Get("Location")
	require.NotEmpty(t, loc)

	req := httptest.NewRequest("GET", loc+"/events", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.HasPrefix(rr.Result().Header.Get("Content-Type"), "text/event-stream"))
}

func TestEventsStreamBoardUpdates(t *testing.T) {
	svc, _, h := newTestServer(t)
	gs, _ := svc.CreateGame(app.HumanVsHuman)

	srv := httptest.NewServer(h)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, "GET", srv.URL+"/game/"+gs.ID+"/events", nil)
	require.NoError(t, err)
	req.Header.Set("Accept", "text/event-stream")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	// The subscription is registered before headers are flushed.
	_, err = svc.Play(gs.ID, 0)
	require.NoError(t, err)

	sc := bufio.NewScanner(resp.Body)
	var sawEvent, sawBoard bool
	for sc.Scan() {
		line := sc.Text()
		if line == "event: board" {
			sawEvent = true
		}
		if strings.HasPrefix(line, "data: ") && strings.Contains(line, `id="board"`) {
			sawBoard = true
		}
		if sawEvent && line == "" {
			break
		}
	}
	assert.True(t, sawEvent)
	assert.True(t, sawBoard)
}

func TestWriteEventPrefixesEveryLine(t *testing.T) {
	var sb strings.Builder
	writeEvent(&sb, "board", []byte("\n<a>\n<b>\n"))
	assert.Equal(t, "event: board\ndata: <a>\ndata: <b>\n\n", sb.String())
}

func brokenTemplate() *template.Template {
	return template.Must(template.New("broken").Parse(`{{template "missing" .}}`))
}

func TestRenderTemplateReportsExecutionError(t *testing.T) {
	_, err := renderTemplate(brokenTemplate(), "", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}

func TestTemplateFailureAnswersServerError(t *testing.T) {
	h := &handlers{tpl: &templates{index: brokenTemplate()}, logger: testutil.NopLogger()}
	rr := httptest.NewRecorder()
	h.index(rr, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestBroadcastBoardSkipsFailedRender(t *testing.T) {
	h := &handlers{tpl: &templates{board: brokenTemplate()}, logger: testutil.NopLogger()}
	assert.Nil(t, h.broadcastBoard(app.GameState{ID: "g"}))
}
