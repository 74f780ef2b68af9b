// Package audio defines the sound collaborator the engine talks to.
//
// The engine only names cues; actual playback belongs to the UI layer. The
// LogPlayer shipped here records cues in the log and forwards them to an
// optional sink (the bridge), dropping everything while muted.
package audio

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Cue identifies a sound effect.
type Cue string

const (
	CueConnect Cue = "connect"
	CueCancel  Cue = "cancel"
	CueEmpty   Cue = "empty"
	CueWin     Cue = "win"
	CueLose    Cue = "lose"
	CueClick   Cue = "click"
)

// Player plays cues and can be muted.
type Player interface {
	Play(c Cue)
	SetMuted(muted bool)
	Muted() bool
}

// LogPlayer is a Player that logs cues and hands them to Sink.
type LogPlayer struct {
	mu    sync.Mutex
	muted bool
	Sink  func(Cue)
}

// NewLogPlayer returns an unmuted LogPlayer forwarding to sink (may be nil).
func NewLogPlayer(sink func(Cue)) *LogPlayer {
	return &LogPlayer{Sink: sink}
}

// Play implements Player.
func (p *LogPlayer) Play(c Cue) {
	p.mu.Lock()
	muted, sink := p.muted, p.Sink
	p.mu.Unlock()
	if muted {
		return
	}
	log.Debug().Str("cue", string(c)).Msg("sound")
	if sink != nil {
		sink(c)
	}
}

// SetMuted implements Player.
func (p *LogPlayer) SetMuted(muted bool) {
	p.mu.Lock()
	p.muted = muted
	p.mu.Unlock()
	log.Debug().Bool("muted", muted).Msg("audio")
}

// Muted implements Player.
func (p *LogPlayer) Muted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.muted
}
