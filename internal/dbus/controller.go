package dbus

import (
	"time"

	"github.com/jmylchreest/splash/internal/feed"
	"github.com/jmylchreest/splash/internal/splash"
	"github.com/jmylchreest/splash/internal/style"
)

// DefaultCallTimeout bounds how long a bus call waits for the UI thread.
const DefaultCallTimeout = 5 * time.Second

// Controller is what the service drives. Methods are called from D-Bus
// goroutines and must be safe for that.
type Controller interface {
	UpdateMessage(text string, appendText bool) error
	UpdateColor(c style.Color) error
	StepProgress(amount float64) error
	SetProgress(value float64) error
	CloseAfter(delay time.Duration) error
	Status() (Status, error)
}

// SplashController runs every call on the splash's UI thread and waits for
// the result.
type SplashController struct {
	splash  *splash.Splash
	poster  feed.Poster
	timeout time.Duration
}

// NewSplashController creates a controller for s. poster is usually the
// toolkit the splash was created with.
func NewSplashController(s *splash.Splash, poster feed.Poster) *SplashController {
	return &SplashController{splash: s, poster: poster, timeout: DefaultCallTimeout}
}

// SetTimeout changes the UI thread wait limit.
func (c *SplashController) SetTimeout(d time.Duration) {
	c.timeout = d
}

func (c *SplashController) run(fn func() error) error {
	result := make(chan error, 1)
	c.poster.Post(func() { result <- fn() })

	timer := time.NewTimer(c.timeout)
	defer timer.Stop()
	select {
	case err := <-result:
		return err
	case <-timer.C:
		return ErrTimeout
	}
}

func (c *SplashController) UpdateMessage(text string, appendText bool) error {
	return c.run(func() error { return c.splash.UpdateMessage(text, appendText) })
}

func (c *SplashController) UpdateColor(color style.Color) error {
	return c.run(func() error { return c.splash.UpdateColor(color) })
}

func (c *SplashController) StepProgress(amount float64) error {
	return c.run(func() error { return c.splash.StepProgress(amount) })
}

func (c *SplashController) SetProgress(value float64) error {
	return c.run(func() error { return c.splash.SetProgress(value) })
}

// CloseAfter reports ErrClosed when the splash is already gone.
func (c *SplashController) CloseAfter(delay time.Duration) error {
	return c.run(func() error {
		if st := c.splash.State(); st != splash.StateShown {
			return &splash.StateError{Op: "close", State: st}
		}
		c.splash.CloseAfter(delay)
		return nil
	})
}

func (c *SplashController) Status() (Status, error) {
	result := make(chan Status, 1)
	if err := c.run(func() error {
		result <- StatusOf(c.splash)
		return nil
	}); err != nil {
		return Status{}, err
	}
	return <-result, nil
}
