package webchat

import (
	"github.com/sirupsen/logrus"
)

// Directory is the relay's view of the known-user directory. The hub records every
// successfully claimed username so the directory also learns users that were never
// provisioned over HTTP.
type Directory interface {
	Upsert(username, language string)
}

type bindRequest struct {
	client   *Client
	username string
	language string
}

type chatRequest struct {
	client *Client
	to     string
	text   string
}

type typingRequest struct {
	client *Client
	to     string
	stop   bool
}

// Hub owns the set of live connections and serializes every mutation of the registry
// and presence set on a single goroutine. Events arriving on one connection are
// processed in the order that connection emitted them; no ordering is guaranteed
// across connections.
type Hub struct {
	registry  *Registry
	directory Directory

	clients map[*Client]bool

	connect    chan *Client
	disconnect chan *Client
	bind       chan *bindRequest
	chat       chan *chatRequest
	typing     chan *typingRequest
	stop       chan struct{}

	sendBuffer int
}

// NewHub creates a new hub around the passed in registry. The directory may be nil.
func NewHub(registry *Registry, directory Directory, sendBuffer int) *Hub {
	if sendBuffer <= 0 {
		sendBuffer = 32
	}
	return &Hub{
		registry:   registry,
		directory:  directory,
		clients:    make(map[*Client]bool),
		connect:    make(chan *Client),
		disconnect: make(chan *Client),
		bind:       make(chan *bindRequest),
		chat:       make(chan *chatRequest),
		typing:     make(chan *typingRequest),
		stop:       make(chan struct{}),
		sendBuffer: sendBuffer,
	}
}

// Registry returns the hub's identity registry.
func (h *Hub) Registry() *Registry { return h.registry }

// Run processes connection events until Stop is called. It must run on its own
// goroutine before any connection is served.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.connect:
			h.clients[client] = true
		case client := <-h.disconnect:
			h.dropClient(client)
		case req := <-h.bind:
			h.bindClient(req.client, req.username, req.language)
		case req := <-h.chat:
			h.routeChat(req.client, req.to, req.text)
		case req := <-h.typing:
			h.relayTyping(req.client, req.to, req.stop)
		case <-h.stop:
			return
		}
	}
}

// Stop terminates the Run loop.
func (h *Hub) Stop() {
	close(h.stop)
}

// Connect adds a newly opened connection to the hub.
func (h *Hub) Connect(client *Client) {
	h.connect <- client
}

// Disconnect removes a connection from the hub, deregistering its bound username and
// broadcasting the updated presence set if it was identified.
func (h *Hub) Disconnect(client *Client) {
	h.disconnect <- client
}

// Bind asks the hub to bind the claimed username to the passed in connection.
func (h *Hub) Bind(client *Client, username, language string) {
	h.bind <- &bindRequest{client: client, username: username, language: language}
}

// SendChat routes a chat message from the passed in connection.
func (h *Hub) SendChat(client *Client, to, text string) {
	h.chat <- &chatRequest{client: client, to: to, text: text}
}

// SendTyping relays a typing signal from the passed in connection.
func (h *Hub) SendTyping(client *Client, to string, stop bool) {
	h.typing <- &typingRequest{client: client, to: to, stop: stop}
}

func (h *Hub) bindClient(client *Client, username, language string) {
	if !h.clients[client] {
		return
	}

	log := logrus.WithField("comp", "hub").WithField("session", client.Session.ID).WithField("username", username)

	// a verified token pins the username this connection may claim
	if client.Subject != "" && client.Subject != username {
		log.WithField("subject", client.Subject).Warn("username does not match auth token, claim dropped")
		return
	}

	if err := h.registry.Register(username, client); err != nil {
		log.WithError(err).Info("duplicate session rejected")
		h.sendTo(client, NewEvent(EventIdentityRejected, UserData{Username: username}))
		return
	}

	client.Session.Bind(username)
	if h.directory != nil {
		h.directory.Upsert(username, language)
	}

	log.Info("user online")
	h.broadcastPresence()
}

func (h *Hub) dropClient(client *Client) {
	// duplicate close signals from the transport arrive here more than once
	if !h.clients[client] {
		return
	}
	delete(h.clients, client)
	close(client.send)

	username, identified := client.Session.Close()
	if !identified {
		return
	}

	// only the connection still owning the entry tears it down, an evicted
	// connection disconnecting late leaves the usurper's binding alone
	if h.registry.DeregisterClient(username, client) {
		logrus.WithField("comp", "hub").WithField("username", username).Info("user offline")
		h.broadcastPresence()
		h.broadcast(NewEvent(EventUserDisconnected, UserData{Username: username}))
	}
}

func (h *Hub) broadcastPresence() {
	h.broadcast(NewEvent(EventOnlineUsers, OnlineUsersData{Online: h.registry.Usernames()}))
}

func (h *Hub) broadcast(event *Event) {
	for client := range h.clients {
		h.sendTo(client, event)
	}
}

func (h *Hub) broadcastExcept(sender *Client, event *Event) {
	for client := range h.clients {
		if client != sender {
			h.sendTo(client, event)
		}
	}
}

// sendTo queues an event for one connection. Delivery is best-effort: a client whose
// send buffer is full loses the event rather than stalling the hub.
func (h *Hub) sendTo(client *Client, event *Event) {
	if !h.clients[client] {
		return
	}
	select {
	case client.send <- event:
	default:
		logrus.WithFields(logrus.Fields{
			"comp":    "hub",
			"session": client.Session.ID,
			"event":   event.Event,
		}).Warn("send buffer full, dropping event")
	}
}
