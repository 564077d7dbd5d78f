// Package workflow implements a workflow and state machine engine: a Definition
// declares places and the named transitions between them, and an Engine tracks
// the place a subject is in, decides which transitions are enabled, and applies
// them while notifying listeners at every lifecycle phase.
//
// # Architecture
//
// A Definition is an immutable graph. Places are kept in declaration order and
// the first one is the initial place unless WithInitialPlace says otherwise.
// Transitions are kept in declaration order too: that order breaks ties when
// several transitions share a name. Every transition copied into a Definition
// gets an ID, its index, which keys per-transition metadata in a MetadataStore.
//
// Engines (Workflow and StateMachine) never own subjects. They read and write
// subject state through a StateAccessor:
//
//   - SubjectStateAccessor for subjects implementing Stateful (the default)
//   - FuncStateAccessor for typed getter and setter closures
//   - FieldStateAccessor for a named string field of a struct pointer
//
// Whether a transition is enabled is expressed as a TransitionBlockerList. A
// subject in the wrong place gets a single BlockedByState blocker and guards are
// not consulted. Otherwise the transition's availability guards run, then the
// guard event is broadcast so listeners can add blockers or clear them.
//
// When several transitions share a name, the engine scans them in declaration
// order and stops at the first one without blockers. If none is enabled, a
// blocker list produced by guards is reported in preference to one produced by
// a place mismatch, since the subject was at least eligible for that transition.
//
// # Events
//
// Apply emits guard, leave, transition, enter, entered, completed and announce
// events, in that order, committing the new state between enter and entered.
// Each phase is delivered three times to the EventBroadcaster with increasing
// Scope: global, workflow, then entity (a place for leave, enter and entered, a
// transition name otherwise). Announce is delivered in the entity scope once per
// transition enabled from the new place. Dispatcher routes deliveries to
// listeners by Topic. Without a broadcaster all phases are skipped.
//
// Leave and enter guards of a GuardManager run right before the matching event.
// Their errors abort Apply as a *GuardError before the state is written.
//
// # Usage
//
//	def, err := workflow.NewDefinitionBuilder(nil, nil).
//	    AddPlaces("draft", "review", "published").
//	    AddTransition(workflow.NewTransition("submit", "draft", "review")).
//	    AddTransition(workflow.NewTransition("publish", "review", "published")).
//	    Build()
//	if err != nil {
//	    return err
//	}
//
//	d := workflow.NewDispatcher()
//	d.OnFunc(workflow.OnEntity(workflow.PhaseEntered, "article", "published"), notifySubscribers)
//
//	wf, err := workflow.NewWorkflow(def,
//	    workflow.WithName("article"),
//	    workflow.WithBroadcaster(d),
//	)
//
//	if ok, _ := wf.Can(ctx, article, "submit"); ok {
//	    _, err = wf.Apply(ctx, article, "submit", workflow.TransitionContext{"by": userID})
//	}
//
// # Concurrency
//
// Definitions, engines, Dispatcher and Registry are safe for concurrent use.
// Apply is not atomic for a given subject: callers must serialize calls that
// operate on the same subject.
//
// # Error Handling
//
// Construction errors wrap ErrInvalidArgument or ErrLogic. Apply returns
// *UndefinedTransitionError, *NotEnabledTransitionError (carrying the blocker
// list) or *GuardError, and never changes the subject state when it fails. Use
// IsUndefinedTransitionError, IsNotEnabledTransitionError and IsGuardError to
// tell them apart.
package workflow
