package workflow

import (
	"iter"
	"maps"
	"slices"
)

// BlockerCode is a machine readable reason attached to a TransitionBlocker.
type BlockerCode string

const (
	BlockedByState      BlockerCode = "29beefc4-6b3e-4726-0d17-f38bd6d16e34"
	BlockedByGuard      BlockerCode = "9d1a9c5e-3d3f-4b8b-a8a4-5f0c3c1d7e21"
	BlockedByExpression BlockerCode = "326a1e9c-0c12-11e8-ba89-0ed5f89f718b"
	Unknown             BlockerCode = "e8b5bbb9-5913-4b98-bfa6-65dbd228a82a"
)

// TransitionBlocker describes one reason a transition cannot currently fire.
// It implements error so guards can return it directly.
type TransitionBlocker struct {
	message    string
	code       BlockerCode
	parameters map[string]any
}

// NewTransitionBlocker creates a blocker. Parameters are copied.
func NewTransitionBlocker(message string, code BlockerCode, parameters map[string]any) *TransitionBlocker {
	return &TransitionBlocker{
		message:    message,
		code:       code,
		parameters: maps.Clone(parameters),
	}
}

// NewBlockedByState reports that the subject state is not the transition's from place.
func NewBlockedByState(state Place) *TransitionBlocker {
	return NewTransitionBlocker(
		"The state does not enable the transition.",
		BlockedByState,
		map[string]any{"state": state},
	)
}

// NewBlockedByGuard reports a veto returned by an availability guard.
func NewBlockedByGuard(reason string) *TransitionBlocker {
	if reason == "" {
		reason = "The transition has been blocked by a guard."
	}
	return NewTransitionBlocker(reason, BlockedByGuard, nil)
}

// NewBlockedByExpression reports that a guard expression evaluated to false.
func NewBlockedByExpression(expression string) *TransitionBlocker {
	return NewTransitionBlocker(
		"The expression blocks the transition.",
		BlockedByExpression,
		map[string]any{"expression": expression},
	)
}

// NewUnknownBlocker is used when a listener blocks without giving a reason.
func NewUnknownBlocker() *TransitionBlocker {
	return NewTransitionBlocker("Unknown reason.", Unknown, nil)
}

func (b *TransitionBlocker) Message() string   { return b.message }
func (b *TransitionBlocker) Code() BlockerCode { return b.code }

// Parameters returns a copy of the blocker parameters.
func (b *TransitionBlocker) Parameters() map[string]any { return maps.Clone(b.parameters) }

func (b *TransitionBlocker) Error() string { return b.message }

// TransitionBlockerList is an ordered collection of blockers. Empty means enabled.
type TransitionBlockerList struct {
	blockers []*TransitionBlocker
}

// NewTransitionBlockerList creates a list holding the given blockers.
func NewTransitionBlockerList(blockers ...*TransitionBlocker) *TransitionBlockerList {
	l := &TransitionBlockerList{}
	for _, b := range blockers {
		l.Add(b)
	}
	return l
}

// Add appends a blocker. Nil blockers are ignored.
func (l *TransitionBlockerList) Add(b *TransitionBlocker) {
	if b == nil {
		return
	}
	l.blockers = append(l.blockers, b)
}

// Has reports whether any blocker carries code.
func (l *TransitionBlockerList) Has(code BlockerCode) bool {
	if l == nil {
		return false
	}
	return slices.ContainsFunc(l.blockers, func(b *TransitionBlocker) bool {
		return b.code == code
	})
}

// Clear removes every blocker.
func (l *TransitionBlockerList) Clear() { l.blockers = nil }

func (l *TransitionBlockerList) IsEmpty() bool { return l == nil || len(l.blockers) == 0 }

func (l *TransitionBlockerList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.blockers)
}

// Blockers returns a copy of the blockers in insertion order.
func (l *TransitionBlockerList) Blockers() []*TransitionBlocker {
	if l == nil {
		return nil
	}
	return slices.Clone(l.blockers)
}

// All iterates blockers in insertion order.
func (l *TransitionBlockerList) All() iter.Seq2[int, *TransitionBlocker] {
	return func(yield func(int, *TransitionBlocker) bool) {
		if l == nil {
			return
		}
		for i, b := range l.blockers {
			if !yield(i, b) {
				return
			}
		}
	}
}

func (l *TransitionBlockerList) clone() *TransitionBlockerList {
	return &TransitionBlockerList{blockers: l.Blockers()}
}
