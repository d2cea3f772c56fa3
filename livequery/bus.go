package livequery

import (
	"log"

	"kirana/globals"
	"kirana/rdx"
)

// ChangeChannel is the Redis pub/sub channel carrying collection change
// events, so writes from any process instance reach every hub.
const ChangeChannel = "doc-changes"

// Bus publishes change events to Redis instead of notifying the local
// hub directly; the bus worker loops them back. Implements
// store.Notifier.
type Bus struct{}

func (Bus) Notify(collection string) {
	rdx.Publish(ChangeChannel, collection)
}

// RunBusWorker forwards change events from Redis to the hub. Runs until
// the hub is stopped.
func RunBusWorker(h *Hub) {
	sub := rdx.Conn.Subscribe(globals.Ctx, ChangeChannel)
	defer sub.Close()
	ch := sub.Channel()

	log.Println("[livequery] listening for change events...")

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.Notify(msg.Payload)
		case <-h.quit:
			return
		}
	}
}
