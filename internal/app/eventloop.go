package app

import (
	"errors"
	"fmt"

	"github.com/dshills/draftsmith/internal/config"
	"github.com/dshills/draftsmith/internal/renderer/backend"
	"github.com/dshills/draftsmith/internal/renderer/core"
	"github.com/dshills/draftsmith/internal/renderer/overlay"
	"github.com/dshills/draftsmith/internal/renderer/statusline"
)

// Run initializes the terminal and runs the event loop until the user
// quits or Shutdown is called. Terminal input, asynchronous render results
// and config reloads are all handled on this goroutine.
func (app *Application) Run() error {
	if app.closed.Load() {
		return ErrClosed
	}
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	if err := app.term.Init(); err != nil {
		return NewComponentError("terminal", "init", err)
	}
	defer app.term.Shutdown()

	quit := make(chan struct{})
	defer close(quit)
	events := app.term.Events(quit)

	app.resize(app.term.Size())
	app.draw()
	select {
	case <-app.started:
	default:
		close(app.started)
	}

	for {
		select {
		case <-app.done:
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := app.handleEvent(ev); err != nil {
				if errors.Is(err, ErrQuit) {
					app.logger.Info("quit")
					return nil
				}
				return err
			}

		case res := <-app.results():
			app.manager.Deliver(res)

		case u := <-app.updates():
			app.applyUpdate(u)
		}

		if !app.pasting {
			app.draw()
		}
	}
}

// results returns the async render channel, or nil when rendering is
// synchronous so the select case never fires.
func (app *Application) results() <-chan overlay.RenderResult {
	if app.async == nil {
		return nil
	}
	return app.async.Results()
}

func (app *Application) updates() <-chan config.Update {
	if app.watcher == nil {
		return nil
	}
	return app.watcher.Updates()
}

// handleEvent applies one terminal event.
func (app *Application) handleEvent(ev backend.Event) error {
	switch ev.Type {
	case backend.EventResize:
		app.resize(ev.Width, ev.Height)
	case backend.EventPaste:
		app.pasting = ev.PasteStart
	case backend.EventKey:
		app.status.ClearMessage()
		return app.handleKey(ev)
	}
	return nil
}

// handleKey maps keys to editing, navigation and overlay commands.
func (app *Application) handleKey(ev backend.Event) error {
	area := app.area
	switch ev.Key {
	case backend.KeyCtrlQ, backend.KeyCtrlC:
		return ErrQuit

	case backend.KeyRune:
		area.Insert(string(ev.Rune))
	case backend.KeyEnter:
		area.Insert("\n")
	case backend.KeyTab:
		area.Insert("\t")
	case backend.KeyBackspace:
		area.DeleteBackward()
	case backend.KeyDelete:
		area.DeleteForward()

	case backend.KeyLeft:
		area.MoveLeft()
	case backend.KeyRight:
		area.MoveRight()
	case backend.KeyUp:
		area.MoveUp()
	case backend.KeyDown:
		area.MoveDown()
	case backend.KeyHome:
		area.Home()
	case backend.KeyEnd:
		area.End()
	case backend.KeyPageUp:
		area.ScrollBy(-app.page())
	case backend.KeyPageDown:
		area.ScrollBy(app.page())

	case backend.KeyCtrlT:
		app.toggleTheme()
	case backend.KeyCtrlP:
		app.togglePolicy()
	case backend.KeyCtrlE:
		app.toggleEnabled()
	}
	return nil
}

func (app *Application) page() int {
	if h := app.area.Viewport().Size.Height; h > 1 {
		return h - 1
	}
	return 1
}

func (app *Application) toggleTheme() {
	theme := overlay.ThemeDark
	if app.manager.Theme() == overlay.ThemeDark {
		theme = overlay.ThemeLight
	}
	app.manager.SetTheme(theme)
	app.setStatus(statusline.MessageInfo, "theme %s", theme)
}

func (app *Application) togglePolicy() {
	policy := overlay.PolicyAllSpans
	if app.manager.Policy() == overlay.PolicyAllSpans {
		policy = overlay.PolicyCursorFollow
	}
	app.manager.SetPolicy(policy)
	app.setStatus(statusline.MessageInfo, "policy %s", policy)
}

func (app *Application) toggleEnabled() {
	enabled := !app.manager.Enabled()
	if err := app.manager.SetEnabled(enabled); err != nil {
		if errors.Is(err, overlay.ErrUnsupported) {
			app.setStatus(statusline.MessageWarning, "overlay toggle needs the all-spans policy")
			return
		}
		app.logger.Warn("toggle overlays: %v", err)
		app.setStatus(statusline.MessageError, "%v", err)
		return
	}
	if enabled {
		app.setStatus(statusline.MessageInfo, "overlays on")
	} else {
		app.setStatus(statusline.MessageInfo, "overlays off")
	}
}

// resize gives the text area everything above the status line.
func (app *Application) resize(width, height int) {
	h := height - 1
	if h < 0 {
		h = 0
	}
	app.area.Resize(core.Pt(0, 0), core.Sz(width, h))
}

func (app *Application) setStatus(typ statusline.MessageType, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	app.status.SetMessage(msg, typ)
	app.logger.Debug("status: %s", msg)
}

// statusSegments refreshes the status line from the current state.
func (app *Application) statusSegments() statusline.Segments {
	s := app.status
	s.SetPolicy(app.manager.Policy())
	s.SetTheme(app.manager.Theme())
	s.SetOverlays(len(app.manager.Visible()), len(app.manager.Overlays()))
	s.SetModified(app.area.Revision() != app.baseRevision)

	line, col := app.area.Position(app.area.CursorOffset())
	s.SetPosition(line+1, col+1)
	total := app.area.LineCount()
	s.SetTotalLines(total)

	vp := app.area.Viewport()
	if hidden := total - vp.Size.Height; hidden > 0 {
		s.SetScrollPercent(min(vp.Scroll.DY*100/hidden, 100))
	} else {
		s.SetScrollPercent(100)
	}
	return s.Segments()
}

func (app *Application) draw() {
	app.term.Draw(backend.Frame{
		View:     app.area,
		Overlays: app.manager.Visible(),
		Theme:    app.manager.Theme(),
		Status:   app.statusSegments(),
	})
}
