package main

import (
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/splash/internal/audio"
	"github.com/jmylchreest/splash/internal/config"
	"github.com/jmylchreest/splash/internal/gtkui"
	"github.com/jmylchreest/splash/internal/notice"
	"github.com/jmylchreest/splash/internal/scenario"
	"github.com/jmylchreest/splash/internal/splash"
	"github.com/jmylchreest/splash/internal/theme"
)

const demoAppID = "io.github.jmylchreest.splash.Demo"

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Open a window to try splashes attached to it and standalone",
	Args:  cobra.NoArgs,
	RunE:  runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

func runDemo(cmd *cobra.Command, args []string) error {
	app := adw.NewApplication(demoAppID, 0)

	var (
		watcher    *theme.Watcher
		cfgWatcher *config.Watcher
		chimes     *audio.Chimes
		running    atomic.Bool
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		sig, ok := <-sigCh
		if !ok {
			return
		}
		logger.Info("received signal, shutting down", "signal", sig)
		glib.IdleAdd(func() { app.Quit() })
	}()

	app.ConnectActivate(func() {
		if running.Load() {
			if win := app.ActiveWindow(); win != nil {
				win.Present()
			}
			return
		}
		running.Store(true)

		applyColorScheme(config.ColorScheme(cfg.Theme.ColorScheme))

		th := theme.Load(cfg.Theme.Name, config.ThemesDir(), logger)
		tk := gtkui.New(&app.Application, th, logger)
		var err error
		if watcher, err = tk.WatchTheme(th); err != nil {
			logger.Debug("theme hot reload disabled", "error", err)
		}

		chimes = audio.NewChimes(cfg, logger)
		chimes.Start(cmd.Context())

		// New splashes pick up edits to the config file.
		notifier := notice.New(tk, logger)
		cfgWatcher = config.NewWatcher(globalOpts.configPath, logger)
		cfgWatcher.SetReloadCallback(func(c *config.Config) {
			glib.IdleAdd(func() {
				cfg = c
				applyColorScheme(config.ColorScheme(c.Theme.ColorScheme))
				notifier.ConfigReloaded()
			})
		})
		cfgWatcher.SetErrorCallback(notifier.ConfigError)
		cfgWatcher.Start(cmd.Context(), cfg)

		d := &demo{app: app, tk: tk, chimes: chimes}
		d.build().Present()
		logger.Info("demo started, main window is responsive")
	})

	app.ConnectShutdown(func() {
		if cfgWatcher != nil {
			cfgWatcher.Stop()
		}
		if watcher != nil {
			watcher.Stop()
		}
		if chimes != nil {
			chimes.Stop()
		}
	})

	// GApplication would treat our subcommand as a file to open.
	if status := app.Run(os.Args[:1]); status != 0 {
		return fmt.Errorf("demo exited with status %d", status)
	}
	return nil
}

func applyColorScheme(scheme config.ColorScheme) {
	manager := adw.StyleManagerGetDefault()
	switch scheme {
	case config.ColorSchemeLight:
		manager.SetColorScheme(adw.ColorSchemeForceLight)
	case config.ColorSchemeDark:
		manager.SetColorScheme(adw.ColorSchemeForceDark)
	default:
		manager.SetColorScheme(adw.ColorSchemeDefault)
	}
}

// demo is the host window with one button per kind of splash.
type demo struct {
	app    *adw.Application
	tk     *gtkui.Toolkit
	chimes *audio.Chimes
	root   splash.Window

	buttons []*gtk.Button
	busy    bool
}

func (d *demo) build() *gtk.Window {
	win := gtk.NewWindow()
	win.SetApplication(&d.app.Application)
	win.SetTitle("Splash Screen Demo")
	win.SetDefaultSize(520, 360)
	d.root = d.tk.Wrap(win)

	grid := gtk.NewGrid()
	grid.SetColumnSpacing(10)
	grid.SetRowSpacing(10)
	grid.SetColumnHomogeneous(true)
	grid.SetMarginTop(16)
	grid.SetMarginBottom(16)
	grid.SetMarginStart(16)
	grid.SetMarginEnd(16)

	row := 0
	heading := func(markup string) {
		lbl := gtk.NewLabel("")
		lbl.SetMarkup(markup)
		grid.Attach(lbl, 0, row, 2, 1)
		row++
	}
	separator := func() {
		grid.Attach(gtk.NewSeparator(gtk.OrientationHorizontal), 0, row, 2, 1)
		row++
	}
	pair := func(left, right *gtk.Button) {
		grid.Attach(left, 0, row, 1, 1)
		if right != nil {
			grid.Attach(right, 1, row, 1, 1)
		}
		row++
	}

	heading(`<span size="x-large" weight="bold">Splash Screen Demo</span>`)
	separator()

	heading(`<b>Splash screens attached to the main window</b>`)
	pair(
		d.button("Run Attached Demo (BR)", func() { d.play("demo", true, nil) }),
		d.button("Run Random Position Demo", func() {
			x, y := 10+rand.IntN(791), 10+rand.IntN(591)
			d.play("demo", true, func(e *scenario.Entry) {
				e.Placement = fmt.Sprintf("x=%d,y=%d", x, y)
			})
		}),
	)
	pair(
		d.button("Run Sequence All Positions", func() { d.play("sequence", true, nil) }),
		d.button("Blocking main window", func() {
			block := true
			d.play("demo", true, func(e *scenario.Entry) {
				e.Placement = "CR"
				e.BlockParent = &block
			})
		}),
	)
	separator()

	heading(`<b>Standalone splash screens</b>`)
	pair(
		d.button("Standalone Non-blocking", func() {
			d.play("demo", false, func(e *scenario.Entry) { e.Placement = "CR" })
		}),
		d.button("Standalone Blocking", func() { d.play("blocking", false, nil) }),
	)
	separator()

	quit := gtk.NewButtonWithLabel("Close Application")
	quit.ConnectClicked(func() { d.app.Quit() })
	pair(quit, nil)

	win.SetChild(grid)
	return win
}

func (d *demo) button(label string, onClick func()) *gtk.Button {
	btn := gtk.NewButtonWithLabel(label)
	btn.ConnectClicked(func() {
		if d.busy {
			return
		}
		onClick()
	})
	d.buttons = append(d.buttons, btn)
	return btn
}

// setBusy disables the demo buttons while a scenario plays.
func (d *demo) setBusy(busy bool) {
	d.busy = busy
	for _, btn := range d.buttons {
		btn.SetSensitive(!busy)
	}
}

// play loads a scenario, lets edit adjust its first entry and plays it
// without blocking the main loop.
func (d *demo) play(name string, attached bool, edit func(e *scenario.Entry)) {
	sc, err := scenario.Load(name, config.ScenariosDir())
	if err != nil {
		logger.Error("failed to load scenario", "name", name, "error", err)
		return
	}
	if edit != nil && len(sc.Splashes) > 0 {
		edit(&sc.Splashes[0])
	}

	player := scenario.NewPlayer(d.tk, cfg, logger)
	if attached {
		player.SetParent(d.root)
	}
	player.SetOnShown(d.chimes.Shown)

	d.setBusy(true)
	player.Play(sc, func(err error) {
		if err != nil {
			logger.Error("scenario failed", "name", name, "error", err)
		}
		d.setBusy(false)
	})
}
