package app

import (
	"errors"

	"github.com/dshills/draftsmith/internal/config"
	"github.com/dshills/draftsmith/internal/renderer/overlay"
	"github.com/dshills/draftsmith/internal/renderer/statusline"
)

// applyUpdate applies a reloaded config. A failed reload keeps the
// current settings.
func (app *Application) applyUpdate(u config.Update) {
	if u.Err != nil {
		app.logger.Warn("config reload failed: %v", u.Err)
		app.setStatus(statusline.MessageError, "config error, keeping previous settings")
		return
	}
	if u.Config == nil {
		return
	}
	if err := app.applyConfig(u.Config); err != nil {
		app.logger.Warn("config apply failed: %v", err)
		app.setStatus(statusline.MessageError, "config error, keeping previous settings")
		return
	}
	app.setStatus(statusline.MessageInfo, "config reloaded")
}

// applyConfig switches to cfg. Renderer and size changes rebuild the
// overlay manager; policy, theme and toggle changes are applied in place.
func (app *Application) applyConfig(cfg *config.Config) error {
	prev := app.cfg

	if app.opts.LogLevel == "" && !app.opts.Debug {
		app.logger.SetLevel(ParseLogLevel(cfg.Log.Level))
	}
	if cfg.Log.File != prev.Log.File {
		app.logger.Warn("log.file changes take effect on restart")
	}

	if needsRebuild(prev, cfg) {
		app.cfg = cfg
		if err := app.buildManager(); err != nil {
			app.cfg = prev
			return WrapError(err, "rebuild overlay manager backend=%q", cfg.Render.Backend)
		}
		app.logger.Info("overlay manager rebuilt backend=%s async=%t", cfg.Render.Backend, cfg.Render.Async)
		return nil
	}

	policy, err := overlay.ParsePolicy(cfg.Overlay.Policy)
	if err != nil {
		return WrapError(err, "apply overlay.policy")
	}
	theme, err := overlay.ParseTheme(cfg.Render.Theme)
	if err != nil {
		return WrapError(err, "apply render.theme")
	}

	app.cfg = cfg
	if cfg.Overlay.Policy != prev.Overlay.Policy {
		app.manager.SetPolicy(policy)
	}
	if cfg.Render.Theme != prev.Render.Theme {
		app.manager.SetTheme(theme)
	}
	if cfg.Overlay.Enabled != prev.Overlay.Enabled || cfg.Overlay.Policy != prev.Overlay.Policy {
		if err := app.manager.SetEnabled(cfg.Overlay.Enabled); err != nil && !errors.Is(err, overlay.ErrUnsupported) {
			return err
		}
	}
	return nil
}

// needsRebuild reports whether settings fixed at manager construction
// changed.
func needsRebuild(prev, next *config.Config) bool {
	po, no := prev.Overlay, next.Overlay
	if po.Reuse != no.Reuse || po.Debug != no.Debug || po.Border != no.Border ||
		po.MaxWidth != no.MaxWidth || po.MaxHeight != no.MaxHeight ||
		po.DefaultWidth != no.DefaultWidth || po.DefaultHeight != no.DefaultHeight {
		return true
	}
	return prev.Render != next.Render
}
