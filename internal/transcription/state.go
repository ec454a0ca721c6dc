package transcription

import (
	"fmt"
	"slices"
)

type State int

const (
	StateIdle State = iota
	StateDownloaded
	StateAudioExtracted
	StateSegmented
	StateTranscribing
	StateConcatenated
	StateDelivered
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDownloaded:
		return "downloaded"
	case StateAudioExtracted:
		return "audio_extracted"
	case StateSegmented:
		return "segmented"
	case StateTranscribing:
		return "transcribing"
	case StateConcatenated:
		return "concatenated"
	case StateDelivered:
		return "delivered"
	case StateAborted:
		return "aborted"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Terminal states accept no further transitions.
func (s State) Terminal() bool {
	return s == StateDelivered || s == StateAborted
}

var transitions = map[State][]State{
	StateIdle:           {StateDownloaded},
	StateDownloaded:     {StateAudioExtracted, StateSegmented},
	StateAudioExtracted: {StateSegmented},
	StateSegmented:      {StateTranscribing},
	StateTranscribing:   {StateTranscribing, StateConcatenated},
	StateConcatenated:   {StateDelivered},
}

// job tracks one pipeline run. Segment progress is kept next to the state
// so that Transcribing(i/n) can be reported.
type job struct {
	id      string
	state   State
	segment int
	total   int
	history []State
}

func newJob(id string) *job {
	return &job{id: id, state: StateIdle, history: []State{StateIdle}}
}

func (j *job) advance(to State) error {
	if j.state.Terminal() || !slices.Contains(transitions[j.state], to) {
		return fmt.Errorf("job %s: invalid transition %s -> %s", j.id, j.state, to)
	}
	j.state = to
	j.history = append(j.history, to)
	return nil
}

// abort is allowed from every non-terminal state.
func (j *job) abort() {
	if j.state.Terminal() {
		return
	}
	j.state = StateAborted
	j.history = append(j.history, StateAborted)
}

func (j *job) progress() string {
	if j.state == StateTranscribing {
		return fmt.Sprintf("%s(%d/%d)", j.state, j.segment, j.total)
	}
	return j.state.String()
}
