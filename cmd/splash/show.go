package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/splash/internal/audio"
	"github.com/jmylchreest/splash/internal/config"
	"github.com/jmylchreest/splash/internal/dbus"
	"github.com/jmylchreest/splash/internal/feed"
	"github.com/jmylchreest/splash/internal/splash"
)

var showOpts struct {
	backend       string
	title         string
	placement     string
	font          string
	background    string
	foreground    string
	closeButton   bool
	closeAfter    time.Duration
	progress      bool
	max           float64
	indeterminate bool
	stdin         bool
	follow        string
	dbus          bool
	busName       string
}

var showCmd = &cobra.Command{
	Use:   "show MESSAGE",
	Short: "Show a splash and wait until it is closed",
	Long: `Show a splash with MESSAGE and block until it is closed.

Flags override the [splash] and [progress] sections of the config file.

With --stdin or --follow the splash is driven by a line protocol:

  # text        replace the message
  + text        append a new line to the message
  42 / 42%      set the progress value
  step [n]      advance the progress bar by n (default 1)
  color C       change the background (name, #rrggbb or r,g,b)
  close [d]     close after d (milliseconds or a duration like 2s)

Any other line replaces the message. The splash closes when stdin ends.

With --dbus the splash can also be driven with "splash ctl".`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)

	f := showCmd.Flags()
	f.StringVar(&showOpts.backend, "backend", "", "Toolkit: auto, gtk or term (default from config)")
	f.StringVar(&showOpts.title, "title", "", "Title shown above the message")
	f.StringVarP(&showOpts.placement, "placement", "p", "", "Anchor (BR, TL, C, ...) or x=N,y=N")
	f.StringVar(&showOpts.font, "font", "", `Font as "family, size[, bold]"`)
	f.StringVar(&showOpts.background, "bg", "", "Background color")
	f.StringVar(&showOpts.foreground, "fg", "", "Text color")
	f.BoolVar(&showOpts.closeButton, "close-button", false, "Show a close button")
	f.DurationVar(&showOpts.closeAfter, "close-after", 0, "Close automatically after this long")
	f.BoolVar(&showOpts.progress, "progress", false, "Show a progress bar")
	f.Float64Var(&showOpts.max, "max", 0, "Progress bar maximum (implies --progress)")
	f.BoolVar(&showOpts.indeterminate, "indeterminate", false, "Animated progress bar (implies --progress)")
	f.BoolVar(&showOpts.stdin, "stdin", false, "Read commands from stdin")
	f.StringVar(&showOpts.follow, "follow", "", "Read commands appended to FILE")
	f.BoolVar(&showOpts.dbus, "dbus", false, "Export the D-Bus control service")
	f.StringVar(&showOpts.busName, "bus-name", "", "D-Bus name to claim (default from config)")
}

// applyShowFlags overlays the flags that were set on the loaded config.
func applyShowFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("title") {
		c.Splash.Title = showOpts.title
	}
	if flags.Changed("placement") {
		c.Splash.Placement = showOpts.placement
	}
	if flags.Changed("font") {
		c.Splash.Font = showOpts.font
	}
	if flags.Changed("bg") {
		c.Splash.Background = showOpts.background
	}
	if flags.Changed("fg") {
		c.Splash.Foreground = showOpts.foreground
	}
	if flags.Changed("close-button") {
		c.Splash.CloseButton = showOpts.closeButton
	}
	if flags.Changed("close-after") {
		c.Splash.CloseAfter = config.Duration(showOpts.closeAfter)
	}
	if flags.Changed("max") {
		c.Progress.Enabled = true
		c.Progress.Max = showOpts.max
	}
	if flags.Changed("indeterminate") && showOpts.indeterminate {
		c.Progress.Enabled = true
		c.Progress.Mode = string(splash.ModeIndeterminate)
	}
	if flags.Changed("progress") {
		c.Progress.Enabled = showOpts.progress
	}
	if flags.Changed("dbus") {
		c.DBus.Enabled = showOpts.dbus
	}
	if flags.Changed("bus-name") {
		c.DBus.Name = showOpts.busName
	}
}

func runShow(cmd *cobra.Command, args []string) error {
	message := strings.ReplaceAll(args[0], `\n`, "\n")
	if showOpts.stdin && showOpts.follow != "" {
		return errors.New("--stdin and --follow are mutually exclusive")
	}

	applyShowFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	tk, err := openToolkit(config.Backend(showOpts.backend), showOpts.stdin)
	if err != nil {
		return err
	}
	defer tk.stop()

	s, err := splash.New(tk, cfg.Build(message, logger), logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	chimes := audio.NewChimes(cfg, logger)
	chimes.Start(ctx)
	defer chimes.Stop()

	var server *dbus.Server
	if cfg.DBus.Enabled {
		server = dbus.NewServer(cfg.DBus.Name, dbus.NewSplashController(s, tk), logger)
		defer func() { _ = server.Stop() }()
	}

	var follower *feed.Follower
	s.SetOnShown(func(s *splash.Splash) {
		chimes.Shown(s)
		if server != nil {
			if err := server.Start(); err != nil {
				logger.Error("failed to start D-Bus control service", "error", err)
			}
		}

		reader := feed.NewReader(s, tk, logger)
		switch {
		case showOpts.stdin:
			go func() {
				err := reader.Run(ctx, os.Stdin)
				if errors.Is(err, context.Canceled) {
					return
				}
				if err != nil {
					logger.Warn("stdin feed failed", "error", err)
				}
				tk.Post(s.Close)
			}()
		case showOpts.follow != "":
			f, err := feed.NewFollower(showOpts.follow, reader, logger)
			if err == nil {
				err = f.Start()
			}
			if err != nil {
				logger.Error("failed to follow file", "path", showOpts.follow, "error", err)
				return
			}
			follower = f
		}
	})
	s.SetOnClosed(func(s *splash.Splash) {
		cancel()
		chimes.Closed(s)
		if server != nil {
			if err := server.EmitClosed(s.ID()); err != nil {
				logger.Debug("closed signal not sent", "error", err)
			}
		}
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("received signal, closing splash", "signal", sig)
			tk.Post(s.Close)
		case <-ctx.Done():
		}
	}()

	err = s.ShowAndWait()
	if follower != nil {
		if stopErr := follower.Stop(); stopErr != nil {
			logger.Warn("failed to stop follower", "error", stopErr)
		}
	}
	if err != nil {
		return fmt.Errorf("failed to show splash: %w", err)
	}
	return nil
}
