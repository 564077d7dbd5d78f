// Package listener provides ready-made workflow event listeners.
//
// Every listener implements workflow.Subscriber, so it is registered with a
// single call:
//
//	d := workflow.NewDispatcher()
//	d.Subscribe(listener.NewAuditTrail(listener.WithLogger(log)))
//
// AuditTrail logs leave, transition and enter events, and records audit events
// when given an audit.Logger. GuardListener blocks transitions with Lua
// expressions evaluated by an expression.Env. Forwarder broadcasts a Record of
// each event through a broadcast.Broadcaster, and RedisPublisher publishes the
// same JSON record on "<prefix>:<workflow>:<phase>" Redis channels.
//
// Listeners run synchronously inside Apply. Delivery failures of Forwarder and
// RedisPublisher are logged and never change the outcome of a transition.
package listener
