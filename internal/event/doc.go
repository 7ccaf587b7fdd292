// Package event provides the host editor event stream consumed by the
// overlay engine.
//
// A host publishes one Event per change it makes (text edited, cursor
// moved, view scrolled or resized, document replaced). Delivery is
// synchronous: Publish calls every active handler in the publisher's
// goroutine, in priority order, before it returns. Events are therefore
// processed one at a time in arrival order, and handlers may read host
// state directly without it changing underneath them.
//
//	bus := event.NewBus()
//	sub := bus.Subscribe(func(ev event.Event) {
//		if ev.Type == event.TypeTextChanged {
//			// recompute
//		}
//	})
//	defer sub.Cancel()
package event
