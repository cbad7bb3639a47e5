package session

// Step applies cmd to s and returns the next state with the effects the
// caller must run. It performs no I/O and never modifies s.
func Step(s State, cmd Command) (State, []Effect) {
	if s.Terminate {
		return s, nil
	}

	next := s.clone()

	if _, ok := cmd.(Tick); !ok {
		next.Status = ""
	}

	switch c := cmd.(type) {
	case Quit:
		next.Terminate = true
		return next, []Effect{EffectStop{}}

	case Tick:
		next.Position = c.Position
		next.Progress = progress(next.Position, next.Duration)
		return next, nil
	}

	// Everything below edits or navigates the current file.
	if next.Phase == Finalizing {
		return s, nil
	}

	switch c := cmd.(type) {
	case InsertChar:
		next.Input += string(c.Char)
		return next, nil

	case Backspace:
		if runes := []rune(next.Input); len(runes) > 0 {
			next.Input = string(runes[:len(runes)-1])
		}
		return next, nil

	case SeekForward:
		return next, []Effect{EffectSeek{Target: next.Position + next.SeekStep}}

	case SeekBackward:
		target := next.Position - next.SeekStep
		if target < 0 {
			target = 0
		}
		return next, []Effect{EffectSeek{Target: target}}

	case Confirm:
		return confirm(next)

	case DeleteFile:
		return deleteCurrent(next)
	}

	return s, nil
}

func confirm(s State) (State, []Effect) {
	switch s.Phase {
	case AwaitingLocation:
		s.Records[s.Index].SetLocation(s.Input)
		s.Input = ""
		s.Phase = AwaitingTags
		return s, nil

	case AwaitingTags:
		s.Records[s.Index].AddTags(s.Input)
		s.Input = ""

		if s.Index+1 < len(s.Files) {
			s.Index++
			s.Phase = AwaitingLocation
			s.resetPlayback()
			return s, []Effect{EffectLoad{Index: s.Index}}
		}

		s.Phase = Finalizing
		return s, []Effect{EffectStop{}, EffectFinalize{}}
	}
	return s, nil
}

// deleteCurrent drops the current file and its record. When the removed
// file was the last one in the batch the session ends without finalizing.
func deleteCurrent(s State) (State, []Effect) {
	if len(s.Files) == 0 {
		s.Terminate = true
		return s, nil
	}

	path := s.Files[s.Index]
	s.Files = append(s.Files[:s.Index], s.Files[s.Index+1:]...)
	s.Records = append(s.Records[:s.Index], s.Records[s.Index+1:]...)
	s.Input = ""
	s.resetPlayback()

	effects := []Effect{EffectStop{}, EffectRemove{Path: path}}

	if len(s.Files) == 0 || s.Index >= len(s.Files) {
		s.Terminate = true
		return s, effects
	}

	return s, append(effects, EffectLoad{Index: s.Index})
}
