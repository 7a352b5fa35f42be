// Package chat runs the guest/staff websocket chat.  Clients exchange
// typed JSON messages; the hub tracks who is connected and who is typing
// and also pushes booking events so open pages can refresh availability.
package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ghm/hotel-booking/internal/queue"
)

// Message types.  The first four are sent by clients; the hub answers
// with the lists and relays chat messages and booking events.
const (
	TypeChatMessage  = "chat message"
	TypeNewUser      = "new user"
	TypeWriting      = "user is writing"
	TypeStopsWriting = "user stops writing"

	TypeConnectedUsers = "connected_users"
	TypeWritingUsers   = "writing users"
	TypeBooking        = "booking"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 50 * time.Second
	maxMessageSize = 4096
)

// Message is the envelope of every frame in both directions.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type inbound struct {
	client *client
	msg    Message
}

// Hub owns all connection state.  Only Run touches the maps, so no lock
// is needed; other goroutines talk to it through channels.
type Hub struct {
	log      *zap.Logger
	upgrader websocket.Upgrader

	register   chan *client
	unregister chan *client
	incoming   chan inbound
	broadcast  chan []byte
	done       chan struct{}

	clients map[string]*client
	order   []string // client ids in join order
	writing []string // usernames currently typing
}

// NewHub returns a hub; call Run before serving connections.
// checkOrigin may be nil to accept any origin.
func NewHub(log *zap.Logger, checkOrigin func(r *http.Request) bool) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}
	return &Hub{
		log:        log,
		upgrader:   websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 1024, CheckOrigin: checkOrigin},
		register:   make(chan *client),
		unregister: make(chan *client),
		incoming:   make(chan inbound, 64),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
		clients:    make(map[string]*client),
	}
}

// Run processes hub events until ctx is cancelled, then closes every
// client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for _, c := range h.clients {
				close(c.send)
			}
			h.clients = map[string]*client{}
			h.order = nil
			return
		case c := <-h.register:
			h.clients[c.id] = c
			h.order = append(h.order, c.id)
			h.log.Debug("chat client connected", zap.String("client_id", c.id))
		case c := <-h.unregister:
			h.drop(c)
		case in := <-h.incoming:
			h.handle(in)
		case msg := <-h.broadcast:
			h.sendAll(msg)
		}
	}
}

func (h *Hub) drop(c *client) {
	if _, ok := h.clients[c.id]; !ok {
		return
	}
	delete(h.clients, c.id)
	close(c.send)
	for i, id := range h.order {
		if id == c.id {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
	h.log.Debug("chat client disconnected", zap.String("client_id", c.id), zap.String("username", c.username))
	if c.username != "" {
		h.writing = remove(h.writing, c.username)
		h.sendAll(encode(TypeConnectedUsers, h.connected()))
		h.sendAll(encode(TypeWritingUsers, h.writing))
	}
}

func (h *Hub) handle(in inbound) {
	if _, ok := h.clients[in.client.id]; !ok {
		return
	}
	var text string
	if err := json.Unmarshal(in.msg.Payload, &text); err != nil {
		h.log.Debug("chat: payload is not a string", zap.String("type", in.msg.Type))
		return
	}
	// a logged-in client always speaks under its session name
	name := text
	if in.client.session != "" {
		name = in.client.session
	}
	switch in.msg.Type {
	case TypeChatMessage:
		h.sendAll(encode(TypeChatMessage, text))
	case TypeNewUser:
		in.client.username = name
		h.sendAll(encode(TypeConnectedUsers, h.connected()))
	case TypeWriting:
		if !contains(h.writing, name) {
			h.writing = append(h.writing, name)
		}
		h.sendAll(encode(TypeWritingUsers, h.writing))
	case TypeStopsWriting:
		if contains(h.writing, name) {
			h.writing = remove(h.writing, name)
			h.sendAll(encode(TypeWritingUsers, h.writing))
		}
	}
}

// connected lists announced usernames in join order.
func (h *Hub) connected() []string {
	out := []string{}
	for _, id := range h.order {
		if c := h.clients[id]; c != nil && c.username != "" {
			out = append(out, c.username)
		}
	}
	return out
}

// sendAll queues msg for every client, dropping clients whose buffer is
// full.
func (h *Hub) sendAll(msg []byte) {
	for _, id := range append([]string(nil), h.order...) {
		c := h.clients[id]
		if c == nil {
			continue
		}
		select {
		case c.send <- msg:
		default:
			h.drop(c)
		}
	}
}

// PublishBooking pushes ev to every connected client.
func (h *Hub) PublishBooking(ctx context.Context, ev queue.BookingEvent) error {
	select {
	case h.broadcast <- encode(TypeBooking, ev):
		return nil
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ServeWS upgrades the request and attaches the connection to the hub.
// session is the logged-in username, empty for anonymous visitors, whose
// "new user" name is taken as sent.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, session string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	c := &client{id: uuid.NewString(), session: session, hub: h, conn: conn, send: make(chan []byte, 256)}
	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.Close()
		return nil
	}
	go c.writePump()
	go c.readPump()
	return nil
}

func encode(typ string, payload any) []byte {
	p, _ := json.Marshal(payload)
	b, _ := json.Marshal(Message{Type: typ, Payload: p})
	return b
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func remove(list []string, s string) []string {
	out := list[:0]
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}
