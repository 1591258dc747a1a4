package api

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	general_i "github.com/beka-birhanu/vinom-common/interfaces/general"
	"github.com/beka-birhanu/vinom-maze-runner/game"
	"github.com/beka-birhanu/vinom-maze-runner/service"
	"github.com/beka-birhanu/vinom-maze-runner/service/i"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var errSendQueueFull = errors.New("send queue full")

// Client message types.
const (
	moveMessageType    = "move"
	newGameMessageType = "new_game"
	stateMessageType   = "state"
	errorMessageType   = "error"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type clientMessage struct {
	Type      string `json:"type"`
	Direction string `json:"direction,omitempty"`
}

type serverMessage struct {
	Type    string         `json:"type"`
	State   *game.Snapshot `json:"state,omitempty"`
	Message string         `json:"message,omitempty"`
}

const (
	writeWait      = 5 * time.Second
	sendBufferSize = 32
	sessionEnded   = "session ended"
)

// client is one WebSocket connection watching a session. Only writeLoop
// writes to conn; everything else queues messages on send.
type client struct {
	conn      *websocket.Conn
	send      chan serverMessage
	quit      chan struct{}
	done      chan struct{}
	reason    string
	closeOnce sync.Once
}

func newClient(conn *websocket.Conn) *client {
	return &client{
		conn: conn,
		send: make(chan serverMessage, sendBufferSize),
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// enqueue queues msg without blocking. It reports false when the queue is full.
func (c *client) enqueue(msg serverMessage) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// shutdown asks writeLoop to flush the queue, send a close frame carrying
// reason and close the connection.
func (c *client) shutdown(reason string) {
	c.closeOnce.Do(func() {
		c.reason = reason
		close(c.quit)
	})
}

// writeLoop owns all writes on the connection until shutdown or a write error.
func (c *client) writeLoop() {
	defer close(c.done)
	defer c.conn.Close()

	for {
		select {
		case msg := <-c.send:
			if err := c.write(msg); err != nil {
				return
			}
		case <-c.quit:
			for {
				select {
				case msg := <-c.send:
					if err := c.write(msg); err != nil {
						return
					}
				default:
					frame := websocket.FormatCloseMessage(websocket.CloseNormalClosure, c.reason)
					_ = c.conn.WriteControl(websocket.CloseMessage, frame, time.Now().Add(writeWait))
					return
				}
			}
		}
	}
}

func (c *client) write(msg serverMessage) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteJSON(msg)
}

// WebSocketHub pushes session events to connected clients and forwards their
// input to the sessions. It implements i.EventSink.
type WebSocketHub struct {
	gameSessionManager i.GameSessionManager
	clients            map[uuid.UUID]map[*client]struct{}
	logger             general_i.Logger
	sync.RWMutex
}

func NewWebSocketHub(l general_i.Logger) *WebSocketHub {
	return &WebSocketHub{
		clients: make(map[uuid.UUID]map[*client]struct{}),
		logger:  l,
	}
}

// SetSessionManager sets the manager used to resolve sessions.
func (h *WebSocketHub) SetSessionManager(gsm i.GameSessionManager) {
	h.Lock()
	defer h.Unlock()
	h.gameSessionManager = gsm
}

// Handle serves GET /ws?session=<id>.
func (h *WebSocketHub) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.URL.Query().Get("session"))
	if err != nil {
		http.Error(w, "invalid session id", http.StatusBadRequest)
		return
	}

	h.RLock()
	gsm := h.gameSessionManager
	h.RUnlock()
	if gsm == nil {
		http.Error(w, "not ready", http.StatusServiceUnavailable)
		return
	}

	gs, err := gsm.Session(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warning(fmt.Sprintf("websocket upgrade failed: %s", err))
		return
	}

	c := newClient(conn)
	go c.writeLoop()
	h.register(id, c)
	defer func() {
		h.unregister(id, c)
		c.shutdown("")
		<-c.done
	}()
	h.logger.Info(fmt.Sprintf("client connected to session: %s", id))

	// The session may have ended before the client was registered, in which
	// case Close has already run for it.
	select {
	case <-gs.Done():
		c.shutdown(sessionEnded)
		return
	default:
	}

	snapshot, err := gs.State()
	if err != nil {
		c.enqueue(serverMessage{Type: errorMessageType, Message: err.Error()})
		return
	}
	c.enqueue(serverMessage{Type: string(game.EventState), State: &snapshot})

	h.handleMessages(id, gs, c)
}

// handleMessages reads client input until the connection or session closes.
func (h *WebSocketHub) handleMessages(id uuid.UUID, gs i.GameServer, c *client) {
	for {
		var msg clientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		if err := h.processMessage(gs, c, msg); err != nil {
			if errors.Is(err, service.ErrGameServerStopped) {
				c.enqueue(serverMessage{Type: errorMessageType, Message: err.Error()})
				c.shutdown(sessionEnded)
				return
			}
			h.logger.Warning(fmt.Sprintf("session %s: %s", id, err))
			if !c.enqueue(serverMessage{Type: errorMessageType, Message: err.Error()}) {
				h.drop(id, c)
				return
			}
		}
	}
}

// processMessage applies one client message. Resulting renders reach the
// client through Broadcast.
func (h *WebSocketHub) processMessage(gs i.GameServer, c *client, msg clientMessage) error {
	switch msg.Type {
	case moveMessageType:
		d, ok := game.ParseDirection(msg.Direction)
		if !ok {
			return fmt.Errorf("invalid direction %q", msg.Direction)
		}
		_, _, err := gs.Move(d)
		return err
	case newGameMessageType:
		_, err := gs.NewGame()
		return err
	case stateMessageType:
		snapshot, err := gs.State()
		if err != nil {
			return err
		}
		if !c.enqueue(serverMessage{Type: string(game.EventState), State: &snapshot}) {
			return errSendQueueFull
		}
		return nil
	}
	return fmt.Errorf("unknown message type %q", msg.Type)
}

// Broadcast queues a session event for every client watching the session.
// It never blocks on the network; clients too slow to keep up are dropped.
func (h *WebSocketHub) Broadcast(sessionID uuid.UUID, e game.Event) {
	targets := h.clientsOf(sessionID)

	state := e.State
	if state.Status.Ended() {
		h.logger.Info(fmt.Sprintf("game in session %s ended: %s, notifying %d clients", sessionID, state.Status, len(targets)))
	}
	for _, c := range targets {
		if !c.enqueue(serverMessage{Type: string(e.Type), State: &state}) {
			h.logger.Warning(fmt.Sprintf("dropping slow client of session %s on %s event", sessionID, e.Type))
			h.drop(sessionID, c)
		}
	}
}

// Close disconnects every client of an ended session with a close frame.
func (h *WebSocketHub) Close(sessionID uuid.UUID) {
	h.Lock()
	targets := h.clients[sessionID]
	delete(h.clients, sessionID)
	h.Unlock()

	for c := range targets {
		c.shutdown(sessionEnded)
	}
	if len(targets) > 0 {
		h.logger.Info(fmt.Sprintf("session %s closed, disconnected %d clients", sessionID, len(targets)))
	}
}

// drop unregisters c and closes its connection without waiting for pending
// writes.
func (h *WebSocketHub) drop(sessionID uuid.UUID, c *client) {
	h.unregister(sessionID, c)
	c.shutdown("")
	_ = c.conn.Close()
}

func (h *WebSocketHub) clientsOf(sessionID uuid.UUID) []*client {
	h.RLock()
	defer h.RUnlock()
	targets := make([]*client, 0, len(h.clients[sessionID]))
	for c := range h.clients[sessionID] {
		targets = append(targets, c)
	}
	return targets
}

func (h *WebSocketHub) register(id uuid.UUID, c *client) {
	h.Lock()
	defer h.Unlock()
	if h.clients[id] == nil {
		h.clients[id] = make(map[*client]struct{})
	}
	h.clients[id][c] = struct{}{}
}

func (h *WebSocketHub) unregister(id uuid.UUID, c *client) {
	h.Lock()
	defer h.Unlock()
	delete(h.clients[id], c)
	if len(h.clients[id]) == 0 {
		delete(h.clients, id)
	}
}
