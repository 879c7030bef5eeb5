package terminal

import (
	"context"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/vimcore/internal/app"
	"github.com/dshills/vimcore/internal/input/key"
	"github.com/dshills/vimcore/internal/input/mode"
)

// Host runs the terminal event loop for an application.
type Host struct {
	app    *app.Application
	term   *Terminal
	status *StatusLine
	logger *app.Logger

	// views keeps scroll state per document.
	views map[*app.Document]*View
}

// NewHost creates a host drawing application on term.
func NewHost(application *app.Application, term *Terminal) *Host {
	return &Host{
		app:    application,
		term:   term,
		status: NewStatusLine(),
		logger: application.Logger().WithComponent("terminal"),
		views:  make(map[*app.Document]*View),
	}
}

// Run draws and handles events until the application quits or ctx is
// done. The terminal must already be initialized.
func (h *Host) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, h.term.Interrupt)
	defer stop()

	h.Draw()
	for {
		ev := h.term.PollEvent()
		if ev == nil || ctx.Err() != nil {
			return ctx.Err()
		}
		if h.HandleEvent(ev) {
			return nil
		}
		h.Draw()
	}
}

// HandleEvent processes one terminal event and reports whether the host
// should exit.
func (h *Host) HandleEvent(ev tcell.Event) bool {
	switch e := ev.(type) {
	case *tcell.EventKey:
		h.handleKey(key.FromTcell(e))
	case *tcell.EventResize:
		h.term.Sync()
	case *tcell.EventInterrupt:
	}
	return h.app.QuitRequested()
}

func (h *Host) handleKey(ev key.Event) {
	if ev.Key == key.KeyNone {
		return
	}
	h.status.ClearMessage()

	res := h.app.HandleKey(ev)
	switch {
	case res.Err != nil:
		h.logger.Debug("key %s: %v", ev.VimString(), res.Err)
		h.status.SetMessage(res.Err.Error(), MessageError)
	case res.Message != "":
		h.status.SetMessage(res.Message, MessageInfo)
	case !res.Consumed && h.app.Active() != nil && h.app.Active().Handler.Mode() != mode.Insert:
		h.term.Beep()
	}
}

// Draw renders the active document and the status line.
func (h *Host) Draw() {
	doc := h.app.Active()
	width, height := h.term.Size()
	if doc == nil || height < 3 {
		h.term.Clear()
		h.term.Show()
		return
	}

	handler := doc.Handler
	v := h.viewFor(doc)
	st := ViewState{
		Snapshot:  doc.Snapshot(),
		Cursor:    handler.Cursor(),
		Mode:      handler.Mode(),
		Selection: handler.Selection(),
	}
	if pattern, ok := handler.LastSearch(); ok && handler.Highlight() {
		st.Search = pattern
	}

	rows := height - h.status.Height()
	cx, cy := v.Render(h.term, st, rows, width)

	h.status.SetMode(st.Mode)
	h.status.SetFilename(doc.Name(), doc.IsModified())
	h.status.SetPending(handler.PendingKeys())
	h.status.SetPosition(st.Cursor.Line+1, st.Cursor.Column+1, st.Snapshot.LineCount())
	cmdActive := st.Mode == mode.CommandLine
	h.status.SetCommandLine(cmdActive, handler.CommandLineKind().Prompt(), handler.CommandLine())
	if !cmdActive && h.status.message == "" && handler.Message() != "" {
		h.status.SetMessage(handler.Message(), MessageInfo)
	}

	if cmdX := h.status.Render(h.term, rows, width); cmdX >= 0 {
		cx, cy = cmdX, rows+1
	}
	h.term.SetCursorStyle(st.Mode.CursorStyle())
	h.term.ShowCursor(cx, cy)
	h.term.Show()
}

func (h *Host) viewFor(doc *app.Document) *View {
	v, ok := h.views[doc]
	if !ok {
		v = &View{}
		h.views[doc] = v
	}
	for d := range h.views {
		if d != doc && !h.isOpen(d) {
			delete(h.views, d)
		}
	}
	return v
}

func (h *Host) isOpen(doc *app.Document) bool {
	for _, d := range h.app.Documents().All() {
		if d == doc {
			return true
		}
	}
	return false
}
