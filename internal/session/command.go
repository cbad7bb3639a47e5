package session

import "time"

// Command is an input to Step
type Command interface {
	command()
}

type (
	Quit         struct{}
	Confirm      struct{}
	Backspace    struct{}
	DeleteFile   struct{}
	SeekForward  struct{}
	SeekBackward struct{}

	InsertChar struct {
		Char rune
	}

	// Tick carries the play head position sampled from the engine.
	Tick struct {
		Position time.Duration
	}
)

func (Quit) command()         {}
func (Confirm) command()      {}
func (Backspace) command()    {}
func (DeleteFile) command()   {}
func (SeekForward) command()  {}
func (SeekBackward) command() {}
func (InsertChar) command()   {}
func (Tick) command()         {}

// Effect is a side effect requested by Step. The Controller runs effects in
// the order they are returned.
type Effect interface {
	effect()
}

type (
	EffectStop struct{}

	EffectLoad struct {
		Index int
	}

	EffectSeek struct {
		Target time.Duration
	}

	EffectRemove struct {
		Path string
	}

	EffectFinalize struct{}
)

func (EffectStop) effect()     {}
func (EffectLoad) effect()     {}
func (EffectSeek) effect()     {}
func (EffectRemove) effect()   {}
func (EffectFinalize) effect() {}
