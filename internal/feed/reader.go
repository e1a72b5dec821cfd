package feed

import (
	"bufio"
	"context"
	"io"
	"log/slog"
)

// Poster runs functions on the UI thread. splash.Toolkit implements it.
type Poster interface {
	Post(fn func())
}

// Reader parses lines and applies them to a target on the UI thread.
type Reader struct {
	target Target
	poster Poster
	logger *slog.Logger
}

// NewReader creates a reader that applies commands to target through poster.
func NewReader(target Target, poster Poster, logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{target: target, poster: poster, logger: logger}
}

// Run reads in until EOF or ctx is done. Malformed lines are logged and skipped.
func (r *Reader) Run(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-errc:
					return err
				default:
					return ctx.Err()
				}
			}
			r.HandleLine(line)
		}
	}
}

// HandleLine parses and posts a single line.
func (r *Reader) HandleLine(line string) {
	cmd, ok, err := ParseLine(line)
	if err != nil {
		r.logger.Warn("skipping malformed feed line", "line", line, "error", err)
		return
	}
	if !ok {
		return
	}
	r.poster.Post(func() {
		if err := Apply(r.target, cmd); err != nil {
			r.logger.Warn("feed command failed", "command", cmd.Kind.String(), "error", err)
		}
	})
}
