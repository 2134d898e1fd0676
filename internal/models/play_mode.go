package models

import (
	"encoding/json"
	"fmt"
)

// PlayMode selects how the queue advances.
type PlayMode int

const (
	SequencePlay PlayMode = iota // Step through the queue, wrapping at both ends
	LoopPlay                     // Repeat the current song; skipping still steps
	RandomPlay                   // Pick any other song at random
)

func (m PlayMode) String() string {
	switch m {
	case LoopPlay:
		return "loop"
	case RandomPlay:
		return "random"
	default:
		return "sequence"
	}
}

// Next returns the mode that follows m in the sequence → loop → random cycle.
func (m PlayMode) Next() PlayMode {
	switch m {
	case SequencePlay:
		return LoopPlay
	case LoopPlay:
		return RandomPlay
	default:
		return SequencePlay
	}
}

// ParsePlayMode converts a mode name to a [PlayMode].
func ParsePlayMode(s string) (PlayMode, error) {
	switch s {
	case "", "sequence":
		return SequencePlay, nil
	case "loop":
		return LoopPlay, nil
	case "random", "shuffle":
		return RandomPlay, nil
	default:
		return SequencePlay, fmt.Errorf("unknown play mode %q", s)
	}
}

func (m PlayMode) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *PlayMode) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	mode, err := ParsePlayMode(s)
	if err != nil {
		return err
	}
	*m = mode
	return nil
}
