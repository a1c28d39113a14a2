package webchat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestHub(t *testing.T, policy DuplicatePolicy) *Hub {
	hub := NewHub(NewRegistry(policy), nil, 16)
	go hub.Run()
	t.Cleanup(hub.Stop)
	return hub
}

func connectTestClient(hub *Hub) *Client {
	client := &Client{Session: NewSession(), hub: hub, send: make(chan *Event, 16)}
	hub.Connect(client)
	return client
}

func recvEvent(t *testing.T, client *Client) *Event {
	t.Helper()
	select {
	case event, ok := <-client.send:
		if !ok {
			t.Fatal("send channel closed while waiting for event")
		}
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
	return nil
}

func requireNoEvent(t *testing.T, client *Client) {
	t.Helper()
	select {
	case event := <-client.send:
		t.Fatalf("expected no event, got %s", event.Event)
	case <-time.After(50 * time.Millisecond):
	}
}

// bindUser claims a username for client and drains the resulting presence broadcast
// from every passed in connection.
func bindUser(t *testing.T, hub *Hub, client *Client, username string, connected ...*Client) {
	t.Helper()
	hub.Bind(client, username, "")
	for _, c := range connected {
		event := recvEvent(t, c)
		require.Equal(t, EventOnlineUsers, event.Event)
	}
}

func TestHubPresenceBroadcastOnBind(t *testing.T) {
	req := require.New(t)
	hub := newTestHub(t, LastWriterWins)

	alice := connectTestClient(hub)
	bob := connectTestClient(hub)

	hub.Bind(alice, "alice", "")
	event := recvEvent(t, alice)
	req.Equal(EventOnlineUsers, event.Event)
	req.Equal(OnlineUsersData{Online: []string{"alice"}}, event.Data)
	event = recvEvent(t, bob)
	req.Equal(OnlineUsersData{Online: []string{"alice"}}, event.Data)

	hub.Bind(bob, "bob", "")
	event = recvEvent(t, alice)
	req.Equal(OnlineUsersData{Online: []string{"alice", "bob"}}, event.Data)
	event = recvEvent(t, bob)
	req.Equal(OnlineUsersData{Online: []string{"alice", "bob"}}, event.Data)
}

func TestHubPublicChatIncludesSender(t *testing.T) {
	req := require.New(t)
	hub := newTestHub(t, LastWriterWins)

	alice := connectTestClient(hub)
	bob := connectTestClient(hub)
	bindUser(t, hub, alice, "alice", alice, bob)
	bindUser(t, hub, bob, "bob", alice, bob)

	hub.SendChat(alice, PublicChannel, "hi")

	want := MessageData{From: "alice", To: PublicChannel, Text: "hi"}
	for _, client := range []*Client{alice, bob} {
		event := recvEvent(t, client)
		req.Equal(EventChatBroadcast, event.Event)
		req.Equal(want, event.Data)
	}
}

func TestHubPrivateMessageAndAck(t *testing.T) {
	req := require.New(t)
	hub := newTestHub(t, LastWriterWins)

	alice := connectTestClient(hub)
	bob := connectTestClient(hub)
	carol := connectTestClient(hub)
	bindUser(t, hub, alice, "alice", alice, bob, carol)
	bindUser(t, hub, bob, "bob", alice, bob, carol)
	bindUser(t, hub, carol, "carol", alice, bob, carol)

	hub.SendChat(alice, "bob", "hey")

	want := MessageData{From: "alice", To: "bob", Text: "hey"}
	event := recvEvent(t, bob)
	req.Equal(EventPrivateMessage, event.Event)
	req.Equal(want, event.Data)

	event = recvEvent(t, alice)
	req.Equal(EventPrivateMessageSent, event.Event)
	req.Equal(want, event.Data)

	requireNoEvent(t, bob)
	requireNoEvent(t, alice)
	requireNoEvent(t, carol)
}

func TestHubRecipientNotFound(t *testing.T) {
	req := require.New(t)
	hub := newTestHub(t, LastWriterWins)

	alice := connectTestClient(hub)
	bob := connectTestClient(hub)
	bindUser(t, hub, alice, "alice", alice, bob)
	bindUser(t, hub, bob, "bob", alice, bob)

	hub.SendChat(alice, "carol", "hey")

	event := recvEvent(t, alice)
	req.Equal(EventChatError, event.Event)
	req.Equal("carol", event.Data.(ChatErrorData).Target)

	requireNoEvent(t, bob)
}

func TestHubUnboundSenderIsDropped(t *testing.T) {
	hub := newTestHub(t, LastWriterWins)

	anonymous := connectTestClient(hub)
	bob := connectTestClient(hub)
	bindUser(t, hub, bob, "bob", anonymous, bob)

	hub.SendChat(anonymous, PublicChannel, "hello?")
	hub.SendChat(anonymous, "bob", "hello?")
	hub.SendTyping(anonymous, PublicChannel, false)

	requireNoEvent(t, anonymous)
	requireNoEvent(t, bob)
}

func TestHubDisconnectBroadcastsDeparture(t *testing.T) {
	req := require.New(t)
	hub := newTestHub(t, LastWriterWins)

	alice := connectTestClient(hub)
	bob := connectTestClient(hub)
	bindUser(t, hub, alice, "alice", alice, bob)
	bindUser(t, hub, bob, "bob", alice, bob)

	hub.Disconnect(bob)

	event := recvEvent(t, alice)
	req.Equal(EventOnlineUsers, event.Event)
	req.Equal(OnlineUsersData{Online: []string{"alice"}}, event.Data)

	event = recvEvent(t, alice)
	req.Equal(EventUserDisconnected, event.Event)
	req.Equal(UserData{Username: "bob"}, event.Data)

	_, ok := hub.Registry().Lookup("bob")
	req.False(ok)

	// a duplicate close signal must not produce a second round of broadcasts
	hub.Disconnect(bob)
	requireNoEvent(t, alice)
}

func TestHubAnonymousDisconnectIsSilent(t *testing.T) {
	hub := newTestHub(t, LastWriterWins)

	alice := connectTestClient(hub)
	anonymous := connectTestClient(hub)
	bindUser(t, hub, alice, "alice", alice, anonymous)

	hub.Disconnect(anonymous)
	requireNoEvent(t, alice)
}

func TestHubTypingPublicExcludesSender(t *testing.T) {
	req := require.New(t)
	hub := newTestHub(t, LastWriterWins)

	alice := connectTestClient(hub)
	bob := connectTestClient(hub)
	carol := connectTestClient(hub)
	bindUser(t, hub, alice, "alice", alice, bob, carol)
	bindUser(t, hub, bob, "bob", alice, bob, carol)
	bindUser(t, hub, carol, "carol", alice, bob, carol)

	hub.SendTyping(alice, PublicChannel, false)

	for _, client := range []*Client{bob, carol} {
		event := recvEvent(t, client)
		req.Equal(EventTyping, event.Event)
		req.Equal(TypingData{From: "alice", To: PublicChannel}, event.Data)
	}
	requireNoEvent(t, alice)
}

func TestHubTypingDirectAndStop(t *testing.T) {
	req := require.New(t)
	hub := newTestHub(t, LastWriterWins)

	alice := connectTestClient(hub)
	bob := connectTestClient(hub)
	carol := connectTestClient(hub)
	bindUser(t, hub, alice, "alice", alice, bob, carol)
	bindUser(t, hub, bob, "bob", alice, bob, carol)
	bindUser(t, hub, carol, "carol", alice, bob, carol)

	hub.SendTyping(alice, "bob", false)
	event := recvEvent(t, bob)
	req.Equal(EventTyping, event.Event)
	req.Equal(TypingData{From: "alice", To: "bob"}, event.Data)

	hub.SendTyping(alice, "bob", true)
	event = recvEvent(t, bob)
	req.Equal(EventStopTyping, event.Event)

	requireNoEvent(t, alice)
	requireNoEvent(t, carol)

	// typing at an absent target is dropped without telling the sender
	hub.SendTyping(alice, "dave", false)
	requireNoEvent(t, alice)
	requireNoEvent(t, bob)
}

func TestHubLastWriterWinsEvictsQuietly(t *testing.T) {
	req := require.New(t)
	hub := newTestHub(t, LastWriterWins)

	first := connectTestClient(hub)
	second := connectTestClient(hub)
	bindUser(t, hub, first, "alice", first, second)
	bindUser(t, hub, second, "alice", first, second)

	got, ok := hub.Registry().Lookup("alice")
	req.True(ok)
	req.Same(second, got)

	// the evicted connection was not notified and its late disconnect leaves the
	// usurper registered
	requireNoEvent(t, first)
	hub.Disconnect(first)
	_, ok = hub.Registry().Lookup("alice")
	req.True(ok)
	requireNoEvent(t, second)
}

func TestHubRejectDuplicatePolicy(t *testing.T) {
	req := require.New(t)
	hub := newTestHub(t, RejectDuplicate)

	first := connectTestClient(hub)
	second := connectTestClient(hub)
	bindUser(t, hub, first, "alice", first, second)

	hub.Bind(second, "alice", "")
	event := recvEvent(t, second)
	req.Equal(EventIdentityRejected, event.Event)
	req.Equal(UserData{Username: "alice"}, event.Data)

	requireNoEvent(t, first)
	got, _ := hub.Registry().Lookup("alice")
	req.Same(first, got)
	req.Equal("", second.Session.Username())
}

func TestHubSubjectPinsClaim(t *testing.T) {
	req := require.New(t)
	hub := newTestHub(t, LastWriterWins)

	client := &Client{Session: NewSession(), Subject: "alice", hub: hub, send: make(chan *Event, 16)}
	hub.Connect(client)

	hub.Bind(client, "bob", "")
	requireNoEvent(t, client)
	req.Equal("", client.Session.Username())

	bindUser(t, hub, client, "alice", client)
	req.Equal("alice", client.Session.Username())
}
