package ws

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Notification is pushed to a connected student when their submission is
// graded or an unlock request is reviewed.
type Notification struct {
	Type         string `json:"type"` // submission_graded | unlock_reviewed | quick_task_assigned
	TaskID       string `json:"task_id,omitempty"`
	SubmissionID string `json:"submission_id,omitempty"`
	Status       string `json:"status,omitempty"`
	Points       int    `json:"points,omitempty"`
	Message      string `json:"message,omitempty"`
}

type notification struct {
	studentID string
	payload   []byte
}

// NotificationHub keeps one live connection per student and fans
// notifications out to them. Pushes are best-effort: slow clients are
// disconnected rather than blocking the hub.
type NotificationHub struct {
	register   chan *client
	unregister chan *client
	notify     chan notification
	clients    map[string]*client
}

func NewNotificationHub() *NotificationHub {
	return &NotificationHub{
		register:   make(chan *client),
		unregister: make(chan *client),
		notify:     make(chan notification, 256),
		clients:    make(map[string]*client),
	}
}

func (h *NotificationHub) Run() {
	for {
		select {
		case c := <-h.register:
			if existing, ok := h.clients[c.userID]; ok {
				existing.conn.Close()
			}
			h.clients[c.userID] = c
		case c := <-h.unregister:
			if stored, ok := h.clients[c.userID]; ok && stored == c {
				delete(h.clients, c.userID)
			}
		case msg := <-h.notify:
			if c, ok := h.clients[msg.studentID]; ok {
				select {
				case c.send <- msg.payload:
				default:
					c.conn.Close()
					delete(h.clients, msg.studentID)
				}
			}
		}
	}
}

// Notify queues a message for one student. No-op when the student is not
// connected or the hub is absent.
func (h *NotificationHub) Notify(studentID string, msg Notification) {
	if h == nil {
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case h.notify <- notification{studentID: studentID, payload: data}:
	default:
	}
}

type client struct {
	hub    *NotificationHub
	conn   *websocket.Conn
	send   chan []byte
	userID string
}

func newClient(hub *NotificationHub, conn *websocket.Conn, userID string) *client {
	return &client{
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		userID: userID,
	}
}

func (c *client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			if _, err := w.Write(msg); err != nil {
				return
			}
			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
