package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ravelandante/field-tagger/internal/play"
)

// Waveformer produces the display waveform of a file
type Waveformer interface {
	Waveform(ctx context.Context, path string) ([]float64, error)
}

// BatchFinalizer runs once after the last file is annotated
type BatchFinalizer interface {
	Finalize(ctx context.Context, files []string, records []Record) error
}

// Deps are the collaborators the Controller drives.
type Deps struct {
	Engine    play.Engine
	Waveform  Waveformer
	Finalizer BatchFinalizer
	Remove    func(path string) error

	// Release, if set, is called once playback is over for good.
	Release func()
}

// Controller owns the session State and carries out the effects Step asks for.
type Controller struct {
	ctx  context.Context
	deps Deps

	mu              sync.Mutex
	state           State
	pendingFinalize bool
	released        bool
}

// NewController starts a session over files with the first one loaded.
func NewController(ctx context.Context, files []string, seekStep time.Duration, deps Deps) (*Controller, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no files to annotate")
	}

	c := &Controller{ctx: ctx, deps: deps, state: NewState(files, seekStep)}
	if err := c.load(0); err != nil {
		c.state.Terminate = true
		c.release()
		return nil, err
	}
	return c, nil
}

// State returns a snapshot of the session
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Handle applies cmd and runs the resulting effects. A returned error is
// either fatal, in which case State().Terminate is set, or a reported
// seek/delete failure the session continues past.
func (c *Controller) Handle(cmd Command) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Seek relative to where playback is now, not the last tick.
	switch cmd.(type) {
	case SeekForward, SeekBackward:
		c.state.Position = c.deps.Engine.Position()
	}

	next, effects := Step(c.state, cmd)
	c.state = next

	var reported error
	for _, effect := range effects {
		err := c.run(effect)
		if err == nil {
			continue
		}
		if Fatal(err) {
			c.state.Terminate = true
			c.state.Status = err.Error()
			c.release()
			return err
		}
		c.state.Status = err.Error()
		reported = err
	}

	if c.state.Terminate && !c.pendingFinalize {
		c.release()
	}
	return reported
}

// Tick samples the play head from the engine
func (c *Controller) Tick() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Phase == Finalizing || c.state.Terminate {
		return
	}
	c.state, _ = Step(c.state, Tick{Position: c.deps.Engine.Position()})
}

// FinalizePending reports whether Finalize has work to do
func (c *Controller) FinalizePending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pendingFinalize
}

// Finalize runs the batch finalizer requested by the last confirmation and
// terminates the session. It blocks until the batch is done and is a no-op
// unless a finalization is pending.
func (c *Controller) Finalize() error {
	c.mu.Lock()
	if !c.pendingFinalize {
		c.mu.Unlock()
		return nil
	}
	c.pendingFinalize = false
	files := append([]string(nil), c.state.Files...)
	records := c.state.clone().Records
	c.mu.Unlock()

	err := c.deps.Finalizer.Finalize(c.ctx, files, records)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Terminate = true
	if err != nil {
		c.state.Status = err.Error()
		return err
	}
	c.state.Status = fmt.Sprintf("Converted and tagged %d files", len(files))
	return nil
}

func (c *Controller) run(effect Effect) error {
	switch e := effect.(type) {
	case EffectStop:
		if err := c.deps.Engine.Stop(); err != nil {
			slog.Warn("Failed to stop playback", "error", err)
		}
		return nil

	case EffectLoad:
		return c.load(e.Index)

	case EffectSeek:
		if err := c.deps.Engine.Seek(e.Target); err != nil {
			slog.Warn("Seek rejected", "file", c.state.Current(), "target", e.Target, "error", err)
			return newError(KindSeek, c.state.Current(), err)
		}
		c.state, _ = Step(c.state, Tick{Position: c.deps.Engine.Position()})
		return nil

	case EffectRemove:
		if err := c.deps.Remove(e.Path); err != nil {
			slog.Error("Failed to delete file", "file", e.Path, "error", err)
			return newError(KindFilesystem, e.Path, err)
		}
		slog.Info("Deleted file", "file", e.Path)
		return nil

	case EffectFinalize:
		c.pendingFinalize = true
		c.release()
		return nil
	}

	return fmt.Errorf("unknown effect %T", effect)
}

// load starts playback of the file at index and refreshes the display fields.
func (c *Controller) load(index int) error {
	path := c.state.Files[index]

	duration, err := c.deps.Engine.Load(c.ctx, path)
	if err != nil {
		return newError(KindDecode, path, err)
	}

	waveform, err := c.deps.Waveform.Waveform(c.ctx, path)
	if err != nil {
		return newError(KindDecode, path, err)
	}

	c.state.Duration = duration
	c.state.Waveform = waveform
	c.state.Position = 0
	c.state.Progress = 0

	slog.Info("Loaded file", "file", path, "index", index+1, "total", len(c.state.Files), "duration", duration)
	return nil
}

func (c *Controller) release() {
	if c.released || c.deps.Release == nil {
		return
	}
	c.released = true
	c.deps.Release()
}
