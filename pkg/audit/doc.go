// Package audit records who did what to which resource, and with what result.
//
// A Logger stamps each Event with a uuid ID and the current time, copies the
// actor and request IDs out of the context through optional extractors, and
// writes the event to a Storage. MemoryStorage is the in-process
// implementation; other backends only need Store and Query.
//
//	store := audit.NewMemoryStorage()
//	log := audit.NewLogger(store, audit.WithActorIDExtractor(actorFromContext))
//
//	err := log.Log(ctx, "workflow.transition",
//	    audit.WithResource("orders", order.ID),
//	    audit.WithMetadata("transition", "pay"),
//	)
//
// The workflow AuditTrail listener writes one event per leave, transition
// and enter phase when it is given a Logger.
package audit
