// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auth

// JobStatus is the lifecycle state of a job.
type JobStatus uint8

const (
	JobPending JobStatus = iota
	JobActive
	JobExecuted
	JobCancelled
)

func (s JobStatus) String() string {
	switch s {
	case JobPending:
		return "pending"
	case JobActive:
		return "active"
	case JobExecuted:
		return "executed"
	case JobCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Transition is a lifecycle step applied to a job.
type Transition uint8

const (
	TransitionActivate Transition = iota
	TransitionCancel
	TransitionExecute
)

func (t Transition) String() string {
	switch t {
	case TransitionActivate:
		return "activate"
	case TransitionCancel:
		return "cancel"
	case TransitionExecute:
		return "execute"
	default:
		return "unknown"
	}
}

var transitions = map[Transition]struct{ from, to JobStatus }{
	TransitionActivate: {JobPending, JobActive},
	TransitionCancel:   {JobPending, JobCancelled},
	TransitionExecute:  {JobActive, JobExecuted},
}

// Apply returns the status reached by t, or the error describing why s does not allow it.
func (s JobStatus) Apply(t Transition) (JobStatus, error) {
	step, ok := transitions[t]
	if !ok {
		return s, ErrUnauthorized
	}
	if s == step.from {
		return step.to, nil
	}
	return s, s.reject()
}

// requirePending guards argument edits.
func (s JobStatus) requirePending() error {
	if s == JobPending {
		return nil
	}
	return s.reject()
}

// requireActive guards votes.
func (s JobStatus) requireActive() error {
	if s == JobActive {
		return nil
	}
	if s == JobExecuted {
		return ErrJobIsExecuted
	}
	return ErrJobIsNotActive
}

func (s JobStatus) reject() error {
	switch s {
	case JobActive:
		return ErrJobIsActive
	case JobExecuted:
		return ErrJobIsExecuted
	default:
		return ErrJobIsNotActive
	}
}
