package webchat

import (
	"github.com/sirupsen/logrus"
)

// relayTyping forwards a typing or stop typing signal. Signals are ephemeral: the
// server keeps no state between start and stop and an unresolvable target is dropped
// without telling the sender. Runs on the hub goroutine.
func (h *Hub) relayTyping(client *Client, to string, stop bool) {
	from := client.Session.Username()
	if from == "" {
		logrus.WithField("comp", "typing").WithField("session", client.Session.ID).
			WithError(ErrUnboundSender).Debug("typing signal dropped")
		return
	}

	name := EventTyping
	if stop {
		name = EventStopTyping
	}
	event := NewEvent(name, TypingData{From: from, To: to})

	if to == PublicChannel {
		// unlike chat broadcasts the sender does not hear its own typing
		h.broadcastExcept(client, event)
		return
	}

	if target, ok := h.registry.Lookup(to); ok {
		h.sendTo(target, event)
	}
}
