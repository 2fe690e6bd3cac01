package chat

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"DevConnect/logger"
	"DevConnect/tools/decode"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Gateway owns the connection lifecycle and routes the three event families:
// presence, direct message delivery, and notification/alert delivery. It is
// the only writer of the presence registry. The realtime channel has no error
// responses; malformed or unauthorized events are dropped silently.
type Gateway struct {
	registry  *Registry
	fanout    *Fanout
	queueSize int
}

func NewGateway(sendQueueSize int) *Gateway {
	if sendQueueSize <= 0 {
		sendQueueSize = 256
	}
	return &Gateway{
		registry:  NewRegistry(),
		fanout:    NewFanout(4, 64),
		queueSize: sendQueueSize,
	}
}

func (g *Gateway) Registry() *Registry { return g.registry }

// Serve upgrades the request and runs the connection until the peer goes
// away. The user is already authenticated by the session middleware; the
// presence binding itself still waits for the client's register event.
func (g *Gateway) Serve(w http.ResponseWriter, r *http.Request, userID string) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Infof("[ws] upgrade failed: %v", err)
		return
	}

	client := NewClient(uuid.NewString(), userID, ws, g.queueSize)
	go client.writePump()
	g.readLoop(client)
}

func (g *Gateway) readLoop(c *Client) {
	defer func() {
		// An in-flight push to this connection dies with the Send queue;
		// persistence already succeeded independently of delivery.
		if userID, ok := g.registry.Unregister(c.ConnID); ok {
			logger.Infof("[ws] user offline: %s", userID)
			g.broadcastRoster()
		}
		c.Close()
	}()

	for {
		mt, data, err := c.WS.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				logger.Infof("[ws] read error conn=%s: %v", c.ConnID, err)
			}
			return
		}
		if mt != websocket.TextMessage && mt != websocket.BinaryMessage {
			continue
		}
		frame, err := ParseFrame(data)
		if err != nil {
			logger.Debug("[ws] dropping malformed frame")
			continue
		}
		g.handleFrame(c, frame)
	}
}

func (g *Gateway) handleFrame(c *Client, f *Frame) {
	switch f.Type {
	case EvtRegister:
		g.handleRegister(c, f)
	case EvtSendMessage:
		g.handleSendMessage(c, f)
	case EvtTyping:
		g.handleTyping(c, f)
	case EvtGetOnlineUsers:
		c.Enqueue(g.rosterEvent())
	case EvtPing:
		c.Enqueue(marshalEvent(EvtPong, nil))
	default:
		// Unknown event types are dropped, not answered.
	}
}

func (g *Gateway) handleRegister(c *Client, f *Frame) {
	p, err := decode.Map[registerPayload](f.Data)
	if err != nil || p.UserID == "" {
		return
	}
	// A client may only bind the identity its session carries.
	if p.UserID != c.UserID {
		logger.Infof("[ws] register user mismatch conn=%s", c.ConnID)
		return
	}

	evicted, changed := g.registry.Register(c)
	for _, old := range evicted {
		old.Close()
	}
	if changed {
		logger.Infof("[ws] user online: %s", c.UserID)
		g.broadcastRoster()
	}
}

// handleSendMessage relays a client-composed message to the receiver if they
// are present. This is the socket-to-socket fast path; the persisted copy
// travels through the REST send operation.
func (g *Gateway) handleSendMessage(c *Client, f *Frame) {
	p, err := decode.Map[sendMessagePayload](f.Data)
	if err != nil || p.ReceiverID == "" {
		return
	}
	if receiver, ok := g.registry.Lookup(p.ReceiverID); ok {
		receiver.Enqueue(marshalEvent(EvtReceiveMessage, p.Message))
	}
}

func (g *Gateway) handleTyping(c *Client, f *Frame) {
	p, err := decode.Map[typingPayload](f.Data)
	if err != nil || p.ReceiverID == "" {
		return
	}
	if receiver, ok := g.registry.Lookup(p.ReceiverID); ok {
		// The sender id comes from the session, never from the payload.
		receiver.Enqueue(marshalEvent(EvtTyping, typingPayload{
			ReceiverID: p.ReceiverID,
			SenderID:   c.UserID,
		}))
	}
}

// broadcastRoster pushes the full reachable-user roster to every connection.
// Full-roster beats incremental online/offline events: there is no ordering
// race for a client that sees updates out of order.
func (g *Gateway) broadcastRoster() {
	payload := g.rosterEvent()
	conns := g.registry.Snapshot()
	g.fanout.Broadcast(conns, payload)
}

func (g *Gateway) rosterEvent() []byte {
	return marshalEvent(EvtOnlineUsers, map[string]any{"users": g.registry.Roster()})
}

// Delivery implementation: the REST layer's fire-and-forget push surface.
// Absent recipients are a silent drop; the REST pull path compensates.

func (g *Gateway) DeliverMessage(receiverID string, message any) {
	g.push(receiverID, EvtReceiveMessage, message)
}

func (g *Gateway) DeliverAlert(receiverID string, alert MessageAlert) {
	g.push(receiverID, EvtNewMessageAlert, alert)
}

func (g *Gateway) DeliverNotification(recipientID string, notification any) {
	g.push(recipientID, EvtNewNotification, notification)
}

func (g *Gateway) push(userID, typ string, data any) {
	c, ok := g.registry.Lookup(userID)
	if !ok {
		return
	}
	c.Enqueue(marshalEvent(typ, data))
}
