package web

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/jaminalder/tictactoe-ai/internal/app"
	"github.com/jaminalder/tictactoe-ai/internal/domain"
)

type templates struct {
	base  *template.Template
	game  *template.Template
	board *template.Template
	index *template.Template
}

func loadTemplates() *templates {
	base := template.Must(template.New("base").Parse(`<!doctype html><html><head>
<meta charset="utf-8"/>
<title>Tic Tac Toe</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org/dist/ext/sse.js"></script>
</head><body>{{template "content" .}}</body></html>`))
	// Define the board template within the same set so game can include it
	template.Must(base.New("board").Parse(boardTemplate))
	index := template.Must(template.Must(base.Clone()).New("content").Parse(`<h1>Tic Tac Toe</h1>
<form action="/game" method="post">
  <button name="mode" value="human">Human vs Human</button>
  <button name="mode" value="computer">Human vs Computer</button>
</form>`))
	game := template.Must(template.Must(base.Clone()).New("content").Parse(`
<div hx-ext="sse" hx-sse="connect:/game/{{.ID}}/events">
  <div hx-sse="swap:board">{{template "board" .}}</div>
</div>`))
	// Standalone board template used for fragment rendering
	board := template.Must(template.New("board_only").Parse(boardTemplate))
	return &templates{base: base, game: game, board: board, index: index}
}

func renderTemplate(t *template.Template, name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	if name == "" {
		err = t.Execute(&buf, data)
	} else {
		err = t.ExecuteTemplate(&buf, name, data)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", t.Name(), err)
	}
	return buf.Bytes(), nil
}

const boardTemplate = `
<div id="board" data-phase="{{.Phase}}" data-mode="{{.Mode}}">
  <p class="turn-info{{if .Over}} winner-text{{end}}">{{.Prompt}}</p>
  {{if .Error}}
  <div class="alert">{{.Error}}</div>
  {{end}}
  <div class="grid">
    {{range .Cells}}
    <form hx-post="/game/{{$.ID}}/play" hx-target="#board" hx-swap="outerHTML" method="post">
      <input type="hidden" name="cell" value="{{.Index}}">
      <button type="submit" class="box{{if .Win}} win-animation{{end}}" data-cell="{{.Index}}"{{if not .Playable}} disabled{{end}}>{{.Mark}}</button>
    </form>
    {{end}}
  </div>
  <form hx-post="/game/{{.ID}}/mode" hx-target="#board" hx-swap="outerHTML" method="post">
    <button type="submit" class="mode-toggle">Mode: {{.ModeLabel}}</button>
  </form>
  <form hx-post="/game/{{.ID}}/reset" hx-target="#board" hx-swap="outerHTML" method="post">
    <button type="submit" class="reset">Reset</button>
  </form>
</div>
`

type cellView struct {
	Index    int
	Mark     string
	Win      bool
	Playable bool
}

type boardView struct {
	ID        string
	Cells     []cellView
	Prompt    string
	Phase     string
	Mode      string
	ModeLabel string
	Over      bool
	Error     string
}

func newBoardView(gs app.GameState, errMsg string) boardView {
	snap := gs.Game
	winning := map[int]bool{}
	if snap.Outcome.Kind == domain.Win {
		for _, idx := range snap.Outcome.Line {
			winning[idx] = true
		}
	}
	acceptsMoves := snap.Phase() == app.WaitingForX || snap.Phase() == app.WaitingForO

	v := boardView{
		ID:        gs.ID,
		Cells:     make([]cellView, len(snap.Board)),
		Prompt:    snap.Prompt(),
		Phase:     snap.Phase().String(),
		Mode:      snap.Mode.String(),
		ModeLabel: snap.Mode.Label(),
		Over:      snap.Outcome.Terminal(),
		Error:     errMsg,
	}
	for i, c := range snap.Board {
		v.Cells[i] = cellView{
			Index:    i,
			Mark:     c.String(),
			Win:      winning[i],
			Playable: acceptsMoves && c == domain.Empty,
		}
	}
	return v
}
