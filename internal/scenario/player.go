package scenario

import (
	"context"
	"log/slog"
	"time"

	"github.com/jmylchreest/splash/internal/config"
	"github.com/jmylchreest/splash/internal/feed"
	"github.com/jmylchreest/splash/internal/splash"
)

// Player shows the splashes of a scenario in order.
type Player struct {
	tk      splash.Toolkit
	base    *config.Config
	logger  *slog.Logger
	parent  splash.Window
	onShown func(*splash.Splash)
}

// NewPlayer creates a player. base supplies the defaults for every splash.
func NewPlayer(tk splash.Toolkit, base *config.Config, logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.Default()
	}
	if base == nil {
		base = config.DefaultConfig()
	}
	return &Player{tk: tk, base: base, logger: logger}
}

// SetParent attaches every splash to parent.
func (p *Player) SetParent(parent splash.Window) {
	p.parent = parent
}

// SetOnShown registers a callback for each splash as it is shown.
func (p *Player) SetOnShown(fn func(*splash.Splash)) {
	p.onShown = fn
}

// prepare creates the splash for one entry. Its steps are scheduled once
// it is shown and closed is called after teardown.
func (p *Player) prepare(e Entry, closed func()) (*splash.Splash, error) {
	cfg := e.Build(p.base, p.logger)
	cfg.Parent = p.parent

	s, err := splash.New(p.tk, cfg, p.logger)
	if err != nil {
		return nil, err
	}
	s.SetOnShown(func(s *splash.Splash) {
		p.schedule(s, e.Steps)
		if p.onShown != nil {
			p.onShown(s)
		}
	})
	s.SetOnClosed(func(*splash.Splash) { closed() })
	return s, nil
}

func (p *Player) schedule(s *splash.Splash, steps []Step) {
	for _, step := range steps {
		cmd := step.cmd
		if _, err := s.Schedule(step.At.Duration(), func() {
			if err := feed.Apply(s, cmd); err != nil {
				p.logger.Warn("scenario step failed", "command", cmd.Kind.String(), "error", err)
			}
		}); err != nil {
			p.logger.Warn("failed to schedule step", "error", err)
		}
	}
}

// Run plays sc on a standalone toolkit, blocking until the last splash
// closes or ctx is done. It must be called on the UI thread with no loop
// running; each splash runs the loop while it is shown.
func (p *Player) Run(ctx context.Context, sc *Scenario) error {
	for i, e := range sc.Splashes {
		if err := sleep(ctx, e.Delay.Duration()); err != nil {
			return err
		}
		p.logger.Info("playing splash", "scenario", sc.Name, "index", i+1, "of", len(sc.Splashes))

		done := make(chan struct{})
		s, err := p.prepare(e, func() { close(done) })
		if err != nil {
			return err
		}

		stop := context.AfterFunc(ctx, func() {
			p.tk.Post(s.Close)
		})
		if err := s.ShowAndWait(); err != nil {
			stop()
			return err
		}
		select {
		case <-done:
		case <-ctx.Done():
		}
		stop()
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return nil
}

// Play plays sc without blocking, for toolkits whose loop is already
// running. Each splash starts after the previous one closes; done is
// called on the UI thread at the end.
func (p *Player) Play(sc *Scenario, done func(error)) {
	var next func(i int)
	next = func(i int) {
		if i >= len(sc.Splashes) {
			if done != nil {
				done(nil)
			}
			return
		}
		e := sc.Splashes[i]
		time.AfterFunc(e.Delay.Duration(), func() {
			p.tk.Post(func() {
				p.logger.Info("playing splash", "scenario", sc.Name, "index", i+1, "of", len(sc.Splashes))
				s, err := p.prepare(e, func() { next(i + 1) })
				if err == nil {
					err = s.Show()
				}
				if err != nil && done != nil {
					done(err)
				}
			})
		})
	}
	next(0)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
