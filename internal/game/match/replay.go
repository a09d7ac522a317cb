package match

import (
	"github.com/tactica/tactica-core/internal/errors"
)

// ReplayInput is what ReplayMatchFromEvents needs. Seed and Config fall back
// to the match_started event when nil.
type ReplayInput struct {
	Seed   *uint32
	Config *Overrides
	Events []Event
}

// ReplayMatchFromEvents rebuilds a match by feeding every intent_applied
// event back through ApplyIntent in order. An intent the rebuilt state
// rejects means the log and the engine disagree and is reported as an
// invariant error.
func ReplayMatchFromEvents(in ReplayInput) (*GameState, error) {
	var started *Event
	for i := range in.Events {
		if in.Events[i].Type == EventMatchStarted {
			started = &in.Events[i]
			break
		}
	}

	var seed uint32
	switch {
	case in.Seed != nil:
		seed = *in.Seed
	case started != nil && started.Seed != nil:
		seed = *started.Seed
	default:
		return nil, errors.Invariant(errors.CodeReplayNoStart, "no seed and no match_started event")
	}

	var cfg Config
	var err error
	switch {
	case in.Config != nil:
		cfg, err = Resolve(in.Config)
	case started != nil && started.Config != nil:
		cfg = started.Config.Clone()
		err = cfg.Validate()
	default:
		cfg, err = Resolve(nil)
	}
	if err != nil {
		return nil, err
	}

	state, err := start(seed, cfg)
	if err != nil {
		return nil, err
	}
	for i, ev := range in.Events {
		if ev.Type != EventIntentApplied {
			continue
		}
		if ev.Intent == nil {
			return nil, errors.Invariant(errors.CodeReplayMismatch, "event %d carries no intent", i)
		}
		res := ApplyIntent(state, *ev.Intent)
		if !res.Accepted() {
			return nil, errors.Invariant(errors.CodeReplayMismatch, "event %d: %s rejected during replay (turn %d, phase %s)",
				i, ev.Intent.Type, state.Turn, state.Phase)
		}
		state = res.Next
	}
	return state, nil
}

// VerifyReplay replays in and compares the result with live by checksum.
func VerifyReplay(live *GameState, in ReplayInput) error {
	replayed, err := ReplayMatchFromEvents(in)
	if err != nil {
		return err
	}
	want, err := Checksum(live)
	if err != nil {
		return err
	}
	got, err := Checksum(replayed)
	if err != nil {
		return err
	}
	if want != got {
		return errors.Invariant(errors.CodeReplayMismatch, "replayed state %s differs from live state %s", got[:12], want[:12])
	}
	return nil
}
