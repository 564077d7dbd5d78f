// Package broadcast provides generic one-to-many message delivery.
//
// The workflow listener package uses it to fan lifecycle records out to any
// number of in-process consumers (audit sinks, websocket pushers, tests)
// without slowing down the engine: Broadcast never blocks, and a message is
// dropped for a subscriber whose buffer is full.
//
//	b := broadcast.NewMemoryBroadcaster[listener.Record](64)
//	defer b.Close()
//
//	sub := b.Subscribe(ctx, "orders")
//	go func() {
//	    for msg := range sub.Receive(ctx) {
//	        fmt.Println(msg.Topic, msg.Data.Transition)
//	    }
//	}()
//
// Subscribers only receive messages whose Topic they subscribed to, or every
// message when they subscribed without topics. A subscriber is closed when its
// context is cancelled, when Close is called on it, or when the broadcaster is
// closed.
package broadcast
