package decoder

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"media-gallery/internal/logging"
	"media-gallery/internal/mediatypes"
	"media-gallery/internal/playback"
)

// ErrUnsupportedCodec is reported for videos no player can decode.
var ErrUnsupportedCodec = errors.New("decoder: unsupported codec")

// Poster delivers a function to the goroutine that owns the slots.
// timer.Loop satisfies it.
type Poster interface {
	Post(fn func()) bool
}

// Factory creates Players. All methods except the background probe run on
// the poster's goroutine.
type Factory struct {
	poster Poster
	probe  ProbeFunc
	now    func() time.Time

	// AllowIncompatible lets players start on codecs outside the
	// compatible set.
	AllowIncompatible bool

	mu      sync.Mutex
	players map[*Player]struct{}
}

// NewFactory creates a factory that probes with probe. A nil probe uses
// ProbeVideo.
func NewFactory(poster Poster, probe ProbeFunc) *Factory {
	if probe == nil {
		probe = ProbeVideo
	}
	return &Factory{
		poster:  poster,
		probe:   probe,
		now:     time.Now,
		players: make(map[*Player]struct{}),
	}
}

// Create implements playback.ResourceFactory.
func (f *Factory) Create(desc mediatypes.Descriptor, l playback.Listener) (playback.Resource, error) {
	if !desc.IsVideo() {
		return nil, fmt.Errorf("decoder: %s is not a video", desc.Name())
	}
	p := &Player{factory: f, desc: desc, listener: l}
	f.mu.Lock()
	f.players[p] = struct{}{}
	f.mu.Unlock()
	return p, nil
}

// Live returns the number of players that have not been released.
func (f *Factory) Live() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.players)
}

// Tick advances every playing player to now and reports the ones that
// reached the end.
func (f *Factory) Tick(now time.Time) {
	f.mu.Lock()
	players := make([]*Player, 0, len(f.players))
	for p := range f.players {
		players = append(players, p)
	}
	f.mu.Unlock()

	for _, p := range players {
		p.tick(now)
	}
}

func (f *Factory) forget(p *Player) {
	f.mu.Lock()
	delete(f.players, p)
	f.mu.Unlock()
}

// Player is a single decoding resource.
type Player struct {
	factory  *Factory
	desc     mediatypes.Descriptor
	listener playback.Listener

	cancel   context.CancelFunc
	info     *VideoInfo
	ready    bool
	released bool

	playing  bool
	position time.Duration
	since    time.Time
}

// Prepare starts probing in the background.
func (p *Player) Prepare() {
	if p.released || p.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel

	go func() {
		info, err := p.factory.probe(ctx, p.desc.Path)
		if !p.factory.poster.Post(func() { p.prepared(info, err) }) {
			logging.Debug("Dropping probe result for %s: loop stopped", p.desc.Name())
		}
	}()
}

func (p *Player) prepared(info *VideoInfo, err error) {
	if p.released {
		return
	}
	if err == nil && !info.Compatible && !p.factory.AllowIncompatible {
		err = fmt.Errorf("%w: %q", ErrUnsupportedCodec, info.Codec)
	}
	if err != nil {
		p.listener.OnError(err)
		return
	}
	p.info = info
	p.ready = true
	w, h := info.DisplaySize()
	if w > 0 && h > 0 {
		p.listener.OnVideoSize(w, h)
	}
	p.listener.OnStateChanged(playback.ResourceReady)
}

// Play starts or resumes the playhead.
func (p *Player) Play() {
	if p.released || !p.ready || p.playing {
		return
	}
	p.playing = true
	p.since = p.factory.now()
}

// Pause stops the playhead.
func (p *Player) Pause() {
	if !p.playing {
		return
	}
	p.position = p.Position()
	p.playing = false
}

// SeekToStart moves the playhead to zero.
func (p *Player) SeekToStart() {
	p.position = 0
	p.since = p.factory.now()
}

// Release stops the player. No listener calls follow.
func (p *Player) Release() {
	if p.released {
		return
	}
	p.released = true
	p.playing = false
	if p.cancel != nil {
		p.cancel()
	}
	p.factory.forget(p)
}

// Playing reports whether the playhead is moving.
func (p *Player) Playing() bool { return p.playing }

// Position returns the playhead position.
func (p *Player) Position() time.Duration {
	if !p.playing {
		return p.position
	}
	return p.position + p.factory.now().Sub(p.since)
}

func (p *Player) tick(now time.Time) {
	if p.released || !p.playing || p.info == nil || p.info.Duration <= 0 {
		return
	}
	if p.position+now.Sub(p.since) < p.info.Duration {
		return
	}
	p.position = p.info.Duration
	p.playing = false
	p.listener.OnStateChanged(playback.ResourceEnded)
}
