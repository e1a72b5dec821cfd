package audio

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// Player decodes and plays sound files.
type Player struct {
	mu          sync.Mutex
	logger      *slog.Logger
	volume      float64
	initialized bool
	sampleRate  beep.SampleRate

	cacheMu sync.RWMutex
	cache   map[string]*beep.Buffer
}

// NewPlayer creates a player at full volume. The speaker is opened on the
// first decoded sound.
func NewPlayer(logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.Default()
	}
	return &Player{
		logger:     logger,
		volume:     1.0,
		sampleRate: beep.SampleRate(44100),
		cache:      make(map[string]*beep.Buffer),
	}
}

// SetVolume sets the playback volume, clamped to 0..1.
func (p *Player) SetVolume(volume float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = max(0, min(volume, 1))
}

// Volume returns the playback volume.
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// Play plays path without waiting for it to finish.
func (p *Player) Play(path string) error {
	if path == "" {
		return nil
	}
	buffer, err := p.buffer(path)
	if err != nil {
		return err
	}

	p.mu.Lock()
	volume, rate := p.volume, p.sampleRate
	p.mu.Unlock()

	var streamer beep.Streamer = buffer.Streamer(0, buffer.Len())
	if buffer.Format().SampleRate != rate {
		streamer = beep.Resample(4, buffer.Format().SampleRate, rate, streamer)
	}
	if volume < 1.0 {
		streamer = &effects.Volume{
			Streamer: streamer,
			Base:     2,
			Volume:   volumeExponent(volume),
			Silent:   volume == 0,
		}
	}
	speaker.Play(streamer)
	return nil
}

// Preload decodes path into the cache.
func (p *Player) Preload(path string) error {
	if path == "" {
		return nil
	}
	_, err := p.buffer(path)
	return err
}

func (p *Player) buffer(path string) (*beep.Buffer, error) {
	p.cacheMu.RLock()
	buf, ok := p.cache[path]
	p.cacheMu.RUnlock()
	if ok {
		return buf, nil
	}

	buf, err := p.load(path)
	if err != nil {
		p.logger.Warn("failed to load sound", "path", path, "error", err)
		return nil, err
	}
	p.cacheMu.Lock()
	p.cache[path] = buf
	p.cacheMu.Unlock()
	return buf, nil
}

func (p *Player) load(path string) (*beep.Buffer, error) {
	var decode func(f *os.File) (beep.StreamSeekCloser, beep.Format, error)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav":
		decode = func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return wav.Decode(f) }
	case ".ogg":
		decode = func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return vorbis.Decode(f) }
	case ".mp3":
		decode = func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return mp3.Decode(f) }
	default:
		return nil, fmt.Errorf("unsupported audio format: %q", ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sound file: %w", err)
	}
	defer func() { _ = f.Close() }()

	streamer, format, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode sound: %w", err)
	}
	defer func() { _ = streamer.Close() }()

	if err := p.initSpeaker(format.SampleRate); err != nil {
		return nil, err
	}
	buf := beep.NewBuffer(format)
	buf.Append(streamer)
	return buf, nil
}

func (p *Player) initSpeaker(rate beep.SampleRate) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initialized {
		return nil
	}
	if err := speaker.Init(rate, rate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("failed to initialize speaker: %w", err)
	}
	p.sampleRate = rate
	p.initialized = true
	p.logger.Debug("speaker initialized", "sample_rate", rate)
	return nil
}

// Invalidate drops path from the cache.
func (p *Player) Invalidate(path string) {
	p.cacheMu.Lock()
	delete(p.cache, path)
	p.cacheMu.Unlock()
}

func (p *Player) cached(path string) bool {
	p.cacheMu.RLock()
	defer p.cacheMu.RUnlock()
	_, ok := p.cache[path]
	return ok
}

// Close stops playback and empties the cache.
func (p *Player) Close() {
	p.mu.Lock()
	if p.initialized {
		speaker.Close()
		p.initialized = false
	}
	p.mu.Unlock()

	p.cacheMu.Lock()
	p.cache = make(map[string]*beep.Buffer)
	p.cacheMu.Unlock()
}

// volumeExponent maps a linear 0..1 volume onto the exponent used by
// effects.Volume with base 2, so the gain equals volume.
func volumeExponent(volume float64) float64 {
	if volume <= 0 {
		return -100
	}
	return math.Log2(volume)
}
