package webchat

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// routeChat decides whether a chat message is broadcast to everyone or forwarded to
// exactly one connection. Runs on the hub goroutine.
func (h *Hub) routeChat(client *Client, to, text string) {
	log := logrus.WithField("comp", "router").WithField("session", client.Session.ID)

	from := client.Session.Username()
	if from == "" {
		log.WithError(ErrUnboundSender).Warn("chat message dropped")
		return
	}

	log.WithField("from", from).WithField("to", to).Debug("routing chat message")

	if to == PublicChannel {
		// the sender gets its own broadcast back and recognizes it by the from field
		h.broadcast(NewEvent(EventChatBroadcast, MessageData{From: from, To: PublicChannel, Text: text}))
		return
	}

	target, ok := h.registry.Lookup(to)
	if !ok {
		log.WithError(ErrRecipientNotFound).WithField("target", to).Info("direct message undeliverable")
		h.sendTo(client, NewEvent(EventChatError, ChatErrorData{
			Message: fmt.Sprintf("User %s not found.", to),
			Target:  to,
		}))
		return
	}

	// two event kinds from the same lookup so sender and recipient render differently
	msg := MessageData{From: from, To: to, Text: text}
	h.sendTo(target, NewEvent(EventPrivateMessage, msg))
	h.sendTo(client, NewEvent(EventPrivateMessageSent, msg))
}
