package logger

import (
	"fmt"
	"log/slog"
	"strconv"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups multiple non-nil errors under the key "errors".
// If all errors are nil, it returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Workflow records the workflow name under the key "workflow".
func Workflow(name string) slog.Attr {
	return slog.String("workflow", name)
}

// Transition records the transition name under the key "transition".
func Transition(name string) slog.Attr {
	return slog.String("transition", name)
}

// Place records a place name under the key "place".
func Place[P ~string](p P) slog.Attr {
	return slog.String("place", string(p))
}

// From records the source place of a transition under the key "from".
func From[P ~string](p P) slog.Attr {
	return slog.String("from", string(p))
}

// To records the target place of a transition under the key "to".
func To[P ~string](p P) slog.Attr {
	return slog.String("to", string(p))
}

// Phase records a lifecycle phase under the key "phase".
func Phase[P ~string](p P) slog.Attr {
	return slog.String("phase", string(p))
}

// SubjectType records the dynamic type of a subject under the key "subject_type".
// If subject is nil, it returns an empty Attr.
func SubjectType(subject any) slog.Attr {
	if subject == nil {
		return slog.Attr{}
	}
	return slog.String("subject_type", fmt.Sprintf("%T", subject))
}

// Blockers records blocker messages under the key "blockers".
// If there are none, it returns an empty Attr.
func Blockers(messages ...string) slog.Attr {
	if len(messages) == 0 {
		return slog.Attr{}
	}
	return slog.Any("blockers", messages)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Duration records a duration under the key "duration".
func Duration(d any) slog.Attr {
	return slog.Any("duration", d)
}
