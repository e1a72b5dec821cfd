package splash

import "log/slog"

// backgroundSubscriber is anything painted with the splash background.
type backgroundSubscriber interface {
	SetBackground(color string) error
	Destroyed() bool
}

// colorVar holds the background color and pushes every change to its subscribers.
type colorVar struct {
	value  string
	subs   []backgroundSubscriber
	logger *slog.Logger
}

func newColorVar(initial string, logger *slog.Logger) *colorVar {
	return &colorVar{value: initial, logger: logger}
}

func (v *colorVar) Get() string {
	return v.value
}

func (v *colorVar) Subscribe(s backgroundSubscriber) {
	v.subs = append(v.subs, s)
}

// Set stores color and fans it out. Destroyed subscribers are skipped and a
// failing subscriber does not stop the others.
func (v *colorVar) Set(color string) {
	v.value = color
	for _, s := range v.subs {
		if s.Destroyed() {
			continue
		}
		if err := s.SetBackground(color); err != nil {
			v.logger.Warn("failed to apply background", "color", color, "error", err)
		}
	}
}
