package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typeText(t *testing.T, s State, text string) State {
	t.Helper()
	for _, r := range text {
		s, _ = Step(s, InsertChar{Char: r})
	}
	return s
}

func TestStep_LocationThenTagsAdvances(t *testing.T) {
	s := NewState([]string{"a.wav", "b.wav"}, 5*time.Second)

	s = typeText(t, s, "  forest edge ")
	s, effects := Step(s, Confirm{})
	assert.Empty(t, effects)
	assert.Equal(t, AwaitingTags, s.Phase)
	assert.Equal(t, "forest edge", s.Records[0].Location)
	assert.Empty(t, s.Input)

	s = typeText(t, s, "birds, wind")
	s, effects = Step(s, Confirm{})
	assert.Equal(t, []Effect{EffectLoad{Index: 1}}, effects)
	assert.Equal(t, 1, s.Index)
	assert.Equal(t, AwaitingLocation, s.Phase)
	assert.Equal(t, []string{"birds", "wind"}, s.Records[0].Tags)
}

func TestStep_TagAccumulation(t *testing.T) {
	s := NewState([]string{"a.wav", "b.wav"}, 5*time.Second)
	s.Phase = AwaitingTags

	r := s.Records[0]
	r.AddTags("a, b, , c")
	assert.Equal(t, []string{"a", "b", "c"}, r.Tags)
	r.AddTags("d")
	assert.Equal(t, []string{"a", "b", "c", "d"}, r.Tags)

	s = typeText(t, s, "a, b, , c")
	s, _ = Step(s, Confirm{})
	assert.Equal(t, []string{"a", "b", "c"}, s.Records[0].Tags)
}

func TestStep_LocationOverwrite(t *testing.T) {
	var r Record
	r.SetLocation("first")
	r.SetLocation(" second ")
	assert.Equal(t, "second", r.Location)
	assert.True(t, r.HasLocation)

	r.SetLocation("  ")
	assert.Empty(t, r.Location)
	assert.True(t, r.HasLocation, "an empty confirmation still counts")
}

func TestStep_ProgressComputation(t *testing.T) {
	s := NewState([]string{"a.wav"}, 5*time.Second)

	s, _ = Step(s, Tick{Position: 3 * time.Second})
	assert.Equal(t, 0.0, s.Progress, "zero duration gives zero progress")

	s.Duration = 10 * time.Second
	s, _ = Step(s, Tick{Position: 5 * time.Second})
	assert.InDelta(t, 0.5, s.Progress, 1e-9)

	s, _ = Step(s, Tick{Position: 12 * time.Second})
	assert.Equal(t, 1.0, s.Progress)
	assert.Equal(t, AwaitingLocation, s.Phase, "tick never changes the phase")
}

func TestStep_SeekClamping(t *testing.T) {
	s := NewState([]string{"a.wav"}, 5*time.Second)
	s.Position = 2 * time.Second

	_, effects := Step(s, SeekBackward{})
	assert.Equal(t, []Effect{EffectSeek{Target: 0}}, effects)

	s.Position = 7 * time.Second
	_, effects = Step(s, SeekBackward{})
	assert.Equal(t, []Effect{EffectSeek{Target: 2 * time.Second}}, effects)

	_, effects = Step(s, SeekForward{})
	assert.Equal(t, []Effect{EffectSeek{Target: 12 * time.Second}}, effects)
}

func TestStep_BackspaceRemovesLastRune(t *testing.T) {
	s := NewState([]string{"a.wav"}, 5*time.Second)
	s = typeText(t, s, "café")

	s, _ = Step(s, Backspace{})
	assert.Equal(t, "caf", s.Input)

	s.Input = ""
	s, _ = Step(s, Backspace{})
	assert.Equal(t, "", s.Input)
}

func TestStep_QuitDoesNotSave(t *testing.T) {
	s := NewState([]string{"a.wav"}, 5*time.Second)
	s = typeText(t, s, "unsaved")

	s, effects := Step(s, Quit{})
	assert.True(t, s.Terminate)
	assert.Equal(t, []Effect{EffectStop{}}, effects)
	assert.Empty(t, s.Records[0].Location)

	after, effects := Step(s, Confirm{})
	assert.Empty(t, effects)
	assert.Equal(t, s, after)
}

func TestStep_LastConfirmFinalizes(t *testing.T) {
	s := NewState([]string{"a.wav"}, 5*time.Second)
	s.Phase = AwaitingTags

	s, effects := Step(s, Confirm{})
	assert.Equal(t, Finalizing, s.Phase)
	assert.False(t, s.Terminate)
	assert.Equal(t, []Effect{EffectStop{}, EffectFinalize{}}, effects)

	after, effects := Step(s, InsertChar{Char: 'x'})
	assert.Empty(t, effects)
	assert.Empty(t, after.Input, "input is ignored while finalizing")
}

func TestStep_DeleteKeepsAlignment(t *testing.T) {
	s := NewState([]string{"a.wav", "b.wav", "c.wav"}, 5*time.Second)
	s.Records[0].Location = "A"
	s.Records[1].Location = "B"
	s.Records[2].Location = "C"
	s.Index = 1

	s, effects := Step(s, DeleteFile{})
	assert.Equal(t, []Effect{EffectStop{}, EffectRemove{Path: "b.wav"}, EffectLoad{Index: 1}}, effects)
	assert.Equal(t, []string{"a.wav", "c.wav"}, s.Files)
	assert.Equal(t, "A", s.Records[0].Location)
	assert.Equal(t, "C", s.Records[1].Location)
	assert.False(t, s.Terminate)
	assert.True(t, s.Aligned())
}

func TestStep_DeleteLastIndexTerminates(t *testing.T) {
	s := NewState([]string{"a.wav", "b.wav"}, 5*time.Second)
	s.Index = 1

	s, effects := Step(s, DeleteFile{})
	assert.Equal(t, []Effect{EffectStop{}, EffectRemove{Path: "b.wav"}}, effects)
	assert.True(t, s.Terminate)
	assert.True(t, s.Aligned())
}

func TestStep_DeleteOnlyFile(t *testing.T) {
	s := NewState([]string{"only.wav"}, 5*time.Second)

	s, effects := Step(s, DeleteFile{})
	assert.Empty(t, s.Files)
	assert.Empty(t, s.Records)
	assert.True(t, s.Terminate)
	assert.NotContains(t, effects, EffectFinalize{})
}

func TestStep_DoesNotModifyInput(t *testing.T) {
	s := NewState([]string{"a.wav", "b.wav"}, 5*time.Second)
	s.Phase = AwaitingTags
	s.Records[0].Tags = []string{"existing"}
	s.Input = "new"

	before := s.clone()
	_, _ = Step(s, Confirm{})
	_, _ = Step(s, DeleteFile{})

	assert.Equal(t, before, s)
}

// Every reachable state keeps Files and Records aligned.
func TestStep_AlignmentInvariant(t *testing.T) {
	commands := []Command{
		InsertChar{Char: 'x'}, Confirm{}, DeleteFile{}, Backspace{},
		SeekForward{}, SeekBackward{}, Tick{Position: time.Second},
	}

	var walk func(s State, depth int)
	walk = func(s State, depth int) {
		require.True(t, s.Aligned(), "misaligned state: %+v", s)
		if !s.Terminate && s.Index >= len(s.Files) {
			t.Fatalf("live session with index %d of %d files", s.Index, len(s.Files))
		}
		if depth == 0 || s.Terminate {
			return
		}
		for _, cmd := range commands {
			next, _ := Step(s, cmd)
			walk(next, depth-1)
		}
	}

	walk(NewState([]string{"a.wav", "b.wav", "c.wav"}, 5*time.Second), 5)
}
