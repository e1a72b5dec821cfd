package audio

import (
	"context"
	"log/slog"
	"os"

	"github.com/jmylchreest/splash/internal/config"
	"github.com/jmylchreest/splash/internal/splash"
)

// Chimes plays the configured sounds when a splash is shown or closed.
type Chimes struct {
	logger  *slog.Logger
	player  *Player
	watcher *Watcher
	enabled bool
	sounds  map[string]string
}

// NewChimes reads the [audio] section of cfg. Missing files are logged and
// skipped.
func NewChimes(cfg *config.Config, logger *slog.Logger) *Chimes {
	if logger == nil {
		logger = slog.Default()
	}
	player := NewPlayer(logger)
	c := &Chimes{
		logger:  logger,
		player:  player,
		watcher: NewWatcher(player, logger),
		enabled: cfg.Audio.Enabled,
		sounds:  make(map[string]string),
	}
	player.SetVolume(float64(cfg.Audio.Volume) / 100.0)

	for _, event := range []string{"show", "close"} {
		path := cfg.SoundPath(event)
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			logger.Warn("sound file not found", "event", event, "path", path)
			continue
		}
		c.sounds[event] = path
	}
	return c
}

// Enabled reports whether any chime will play.
func (c *Chimes) Enabled() bool {
	return c.enabled && len(c.sounds) > 0
}

// Start preloads the sounds and watches them for changes.
func (c *Chimes) Start(ctx context.Context) {
	if !c.Enabled() {
		return
	}
	for event, path := range c.sounds {
		if err := c.player.Preload(path); err != nil {
			c.logger.Warn("failed to preload sound", "event", event, "error", err)
		}
		c.watcher.Watch(path)
	}
	c.watcher.Start(ctx)
	c.logger.Debug("chimes ready", "sounds", len(c.sounds))
}

// Stop ends playback and watching.
func (c *Chimes) Stop() {
	c.watcher.Stop()
	c.player.Close()
}

// Shown is a splash.Callback for the show chime.
func (c *Chimes) Shown(*splash.Splash) { c.play("show") }

// Closed is a splash.Callback for the close chime.
func (c *Chimes) Closed(*splash.Splash) { c.play("close") }

func (c *Chimes) play(event string) {
	if !c.enabled {
		return
	}
	path, ok := c.sounds[event]
	if !ok {
		return
	}
	if err := c.player.Play(path); err != nil {
		c.logger.Warn("failed to play chime", "event", event, "error", err)
	}
}
