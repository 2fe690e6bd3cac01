package chat

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recvFrame(t *testing.T, c *Client) *Frame {
	t.Helper()
	select {
	case raw := <-c.Send:
		f, err := ParseFrame(raw)
		require.NoError(t, err)
		return f
	case <-time.After(time.Second):
		t.Fatal("no frame arrived")
		return nil
	}
}

func tryRecvFrame(c *Client) (*Frame, bool) {
	select {
	case raw := <-c.Send:
		f, err := ParseFrame(raw)
		if err != nil {
			return nil, false
		}
		return f, true
	case <-time.After(50 * time.Millisecond):
		return nil, false
	}
}

func register(t *testing.T, g *Gateway, c *Client) {
	t.Helper()
	g.handleFrame(c, &Frame{
		Type: EvtRegister,
		Data: map[string]any{"userId": c.UserID},
	})
	_, ok := g.registry.Lookup(c.UserID)
	require.True(t, ok)
}

func drain(c *Client) {
	for {
		select {
		case <-c.Send:
		case <-time.After(20 * time.Millisecond):
			return
		}
	}
}

func TestRegisterBroadcastsRoster(t *testing.T) {
	g := NewGateway(8)
	alice := newTestClient("c1", "alice")

	register(t, g, alice)

	f := recvFrame(t, alice)
	assert.Equal(t, EvtOnlineUsers, f.Type)
	assert.Equal(t, []any{"alice"}, f.Data["users"])
}

func TestRegisterRejectsForeignIdentity(t *testing.T) {
	g := NewGateway(8)
	mallory := newTestClient("c1", "mallory")

	g.handleFrame(mallory, &Frame{
		Type: EvtRegister,
		Data: map[string]any{"userId": "alice"},
	})

	_, ok := g.registry.Lookup("alice")
	assert.False(t, ok)
	_, ok = g.registry.Lookup("mallory")
	assert.False(t, ok)
}

func TestRepeatedRegisterDoesNotRebroadcast(t *testing.T) {
	g := NewGateway(8)
	alice := newTestClient("c1", "alice")

	register(t, g, alice)
	recvFrame(t, alice)

	g.handleFrame(alice, &Frame{
		Type: EvtRegister,
		Data: map[string]any{"userId": "alice"},
	})
	_, got := tryRecvFrame(alice)
	assert.False(t, got)
}

func TestSecondTabEvictionClosesFirst(t *testing.T) {
	g := NewGateway(8)
	tab1 := newTestClient("c1", "alice")
	tab2 := newTestClient("c2", "alice")

	register(t, g, tab1)
	drain(tab1)
	register(t, g, tab2)

	assert.False(t, tab1.Enqueue([]byte("x")), "evicted tab must stop accepting frames")

	got, ok := g.registry.Lookup("alice")
	require.True(t, ok)
	assert.Same(t, tab2, got)
}

func TestDeliverMessageReachesNewestConnectionOnly(t *testing.T) {
	g := NewGateway(8)
	tab1 := newTestClient("c1", "alice")
	tab2 := newTestClient("c2", "alice")
	register(t, g, tab1)
	drain(tab1)
	register(t, g, tab2)
	drain(tab2)

	g.DeliverMessage("alice", map[string]any{"text": "hi"})

	f := recvFrame(t, tab2)
	assert.Equal(t, EvtReceiveMessage, f.Type)
	assert.Equal(t, "hi", f.Data["text"])
}

func TestDeliverToAbsentUserIsSilent(t *testing.T) {
	g := NewGateway(8)
	// Nobody registered; none of these may panic or error.
	g.DeliverMessage("ghost", map[string]any{"text": "hi"})
	g.DeliverAlert("ghost", MessageAlert{})
	g.DeliverNotification("ghost", map[string]any{})
}

func TestDeliverAlert(t *testing.T) {
	g := NewGateway(8)
	bob := newTestClient("c1", "bob")
	register(t, g, bob)
	drain(bob)

	g.DeliverAlert("bob", MessageAlert{
		ConversationID: "conv1",
		SenderID:       "alice-id",
		SenderHandle:   "alice",
		Preview:        "hey",
	})

	f := recvFrame(t, bob)
	assert.Equal(t, EvtNewMessageAlert, f.Type)
	assert.Equal(t, "alice", f.Data["senderHandle"])
	assert.Equal(t, "hey", f.Data["preview"])
}

func TestTypingRelayUsesSessionIdentity(t *testing.T) {
	g := NewGateway(8)
	alice := newTestClient("c1", "alice")
	bob := newTestClient("c2", "bob")
	register(t, g, alice)
	register(t, g, bob)
	drain(alice)
	drain(bob)

	// The payload claims a forged sender; the relay must stamp the session's.
	g.handleFrame(alice, &Frame{
		Type: EvtTyping,
		Data: map[string]any{"receiverId": "bob", "senderId": "mallory"},
	})

	f := recvFrame(t, bob)
	assert.Equal(t, EvtTyping, f.Type)
	assert.Equal(t, "alice", f.Data["senderId"])
}

func TestSendMessageRelay(t *testing.T) {
	g := NewGateway(8)
	alice := newTestClient("c1", "alice")
	bob := newTestClient("c2", "bob")
	register(t, g, alice)
	register(t, g, bob)
	drain(alice)
	drain(bob)

	g.handleFrame(alice, &Frame{
		Type: EvtSendMessage,
		Data: map[string]any{
			"receiverId": "bob",
			"message":    map[string]any{"text": "yo"},
		},
	})

	f := recvFrame(t, bob)
	assert.Equal(t, EvtReceiveMessage, f.Type)
	assert.Equal(t, "yo", f.Data["text"])
}

func TestGetOnlineUsersAndPing(t *testing.T) {
	g := NewGateway(8)
	alice := newTestClient("c1", "alice")
	register(t, g, alice)
	drain(alice)

	g.handleFrame(alice, &Frame{Type: EvtGetOnlineUsers})
	f := recvFrame(t, alice)
	assert.Equal(t, EvtOnlineUsers, f.Type)

	g.handleFrame(alice, &Frame{Type: EvtPing})
	f = recvFrame(t, alice)
	assert.Equal(t, EvtPong, f.Type)
}

func TestParseFrame(t *testing.T) {
	f, err := ParseFrame([]byte(`{"type":"ping"}`))
	require.NoError(t, err)
	assert.Equal(t, EvtPing, f.Type)

	_, err = ParseFrame([]byte(`{"data":{}}`))
	assert.Error(t, err)

	_, err = ParseFrame([]byte(`not json`))
	assert.Error(t, err)
}

func TestMarshalEventEnvelope(t *testing.T) {
	raw := marshalEvent(EvtPong, nil)
	require.NotNil(t, raw)

	var f Frame
	require.NoError(t, json.Unmarshal(raw, &f))
	assert.Equal(t, EvtPong, f.Type)
	assert.Nil(t, f.Data)
}
