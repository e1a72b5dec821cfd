// Package feed drives a splash from a line-oriented text stream, so shell
// scripts can update a running splash by writing to a pipe or a file.
//
// Each line is one command:
//
//	# text        replace the message
//	+ text        append a new line to the message
//	42 or 42%     set the progress value
//	step [n]      advance progress by n (default 1)
//	color C       change the background color (name, #hex, r,g,b)
//	close [d]     close, optionally after a delay ("2s" or milliseconds)
//
// Any other non-empty line replaces the message with the line itself.
package feed

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/jmylchreest/splash/internal/style"
)

// Kind identifies a feed command.
type Kind int

const (
	KindMessage Kind = iota
	KindAppend
	KindProgress
	KindStep
	KindColor
	KindClose
)

func (k Kind) String() string {
	switch k {
	case KindMessage:
		return "message"
	case KindAppend:
		return "append"
	case KindProgress:
		return "progress"
	case KindStep:
		return "step"
	case KindColor:
		return "color"
	case KindClose:
		return "close"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Command is one parsed feed line.
type Command struct {
	Kind  Kind
	Text  string
	Value float64
	Color style.Color
	Delay time.Duration
}

// Target receives feed commands. *splash.Splash implements it.
type Target interface {
	UpdateMessage(text string, appendText bool) error
	UpdateColor(c style.Color) error
	StepProgress(amount float64) error
	SetProgress(value float64) error
	CloseAfter(delay time.Duration)
}

// ParseLine parses one line. ok is false for blank lines.
func ParseLine(line string) (cmd Command, ok bool, err error) {
	line = strings.TrimRight(line, "\r\n")
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return Command{}, false, nil
	}

	switch {
	case strings.HasPrefix(trimmed, "#"):
		return Command{Kind: KindMessage, Text: strings.TrimSpace(trimmed[1:])}, true, nil
	case strings.HasPrefix(trimmed, "+"):
		return Command{Kind: KindAppend, Text: "\n" + strings.TrimSpace(trimmed[1:])}, true, nil
	}

	word, rest, _ := strings.Cut(trimmed, " ")
	rest = strings.TrimSpace(rest)
	switch strings.ToLower(word) {
	case "step":
		amount := 1.0
		if rest != "" {
			if amount, err = parseNumber(rest); err != nil {
				return Command{}, false, fmt.Errorf("invalid step amount %q: %w", rest, err)
			}
		}
		return Command{Kind: KindStep, Value: amount}, true, nil
	case "color":
		if rest == "" {
			return Command{}, false, fmt.Errorf("color requires a value")
		}
		return Command{Kind: KindColor, Color: style.ParseColor(rest)}, true, nil
	case "close":
		delay, err := parseDelay(rest)
		if err != nil {
			return Command{}, false, err
		}
		return Command{Kind: KindClose, Delay: delay}, true, nil
	}

	if v, err := parseNumber(strings.TrimSuffix(trimmed, "%")); err == nil {
		return Command{Kind: KindProgress, Value: v}, true, nil
	}
	return Command{Kind: KindMessage, Text: trimmed}, true, nil
}

// parseNumber accepts finite decimal numbers only; "NaN" and "inf" are
// words, not progress.
func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number")
	}
	return v, nil
}

func parseDelay(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	if ms, err := strconv.Atoi(s); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid close delay %q: %w", s, err)
	}
	return d, nil
}

// Apply runs cmd against target. It must be called on the UI thread.
func Apply(target Target, cmd Command) error {
	switch cmd.Kind {
	case KindMessage:
		return target.UpdateMessage(cmd.Text, false)
	case KindAppend:
		return target.UpdateMessage(cmd.Text, true)
	case KindProgress:
		return target.SetProgress(cmd.Value)
	case KindStep:
		return target.StepProgress(cmd.Value)
	case KindColor:
		return target.UpdateColor(cmd.Color)
	case KindClose:
		target.CloseAfter(cmd.Delay)
		return nil
	default:
		return fmt.Errorf("unknown command kind %v", cmd.Kind)
	}
}
