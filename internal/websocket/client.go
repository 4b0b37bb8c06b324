package websocket

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dom/league-rest-explorer/internal/dashboard"
	"github.com/dom/league-rest-explorer/internal/domain"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	eventBuffer    = 64
	sendBuffer     = 64
)

// Client streams one dashboard session's events to a browser and accepts
// commands that drive the session.
type Client struct {
	session *dashboard.Session
	conn    *websocket.Conn
	send    chan []byte
	events  <-chan dashboard.Event
	cancel  func()
	logger  *zap.Logger

	ctx  context.Context
	stop context.CancelFunc
}

func NewClient(session *dashboard.Session, conn *websocket.Conn, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	events, cancel := session.Bus.Subscribe(eventBuffer)
	ctx, stop := context.WithCancel(context.Background())
	return &Client{
		session: session,
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		events:  events,
		cancel:  cancel,
		logger:  logger.With(zap.String("session", session.ID.String())),
		ctx:     ctx,
		stop:    stop,
	}
}

func (c *Client) ReadPump() {
	defer func() {
		c.stop()
		c.cancel()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("websocket error", zap.Error(err))
			}
			break
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.sendError("INVALID_MESSAGE", "Message is not valid JSON")
			continue
		}

		c.session.Touch(time.Now())
		c.handleMessage(&msg)
	}
}

// WritePump forwards session events and replies. It returns when the
// session's event stream closes or the connection fails.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case e, ok := <-c.events:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			msg, err := EventMessage(e)
			if err != nil {
				c.logger.Error("failed to encode event", zap.Error(err))
				continue
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case data := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
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

func (c *Client) handleMessage(msg *Message) {
	switch msg.Type {
	case MessageTypeSyncState:
		c.SyncState()

	case MessageTypeSetSelection:
		var payload dashboard.SelectionUpdate
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			c.sendError("INVALID_PAYLOAD", "Invalid selection payload")
			return
		}
		if err := c.session.Selection.Apply(payload); err != nil {
			c.sendError("INVALID_SELECTION", err.Error())
		}

	case MessageTypeFetchSection, MessageTypeResetSection:
		var payload SectionPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			c.sendError("INVALID_PAYLOAD", "Invalid section payload")
			return
		}
		section, err := domain.ParseSection(payload.Section)
		if err != nil {
			c.sendError("UNKNOWN_SECTION", err.Error())
			return
		}
		if msg.Type == MessageTypeResetSection {
			view, _ := c.session.Reset(section)
			c.Send(MessageTypeSectionView, view)
			return
		}
		// Fetches run off the read loop; the result arrives as SECTION_VIEW.
		go func() {
			view, _ := c.session.Fetch(c.ctx, section)
			c.Send(MessageTypeSectionView, view)
		}()

	default:
		c.sendError("UNKNOWN_MESSAGE", "Unknown message type "+string(msg.Type))
	}
}

// SyncState sends the full session state.
func (c *Client) SyncState() {
	c.Send(MessageTypeStateSync, StateSyncPayload{
		Selection: c.session.Selection.Selection(),
		Sections:  c.session.Views(),
	})
}

func (c *Client) sendError(code, message string) {
	c.Send(MessageTypeError, ErrorPayload{
		Code:    code,
		Message: message,
	})
}

// Send queues a reply. A full buffer drops it.
func (c *Client) Send(msgType MessageType, payload interface{}) {
	msg, err := NewMessage(msgType, payload)
	if err != nil {
		c.logger.Error("failed to marshal message", zap.Error(err))
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		c.logger.Error("failed to marshal message", zap.Error(err))
		return
	}
	select {
	case c.send <- data:
	default:
		c.logger.Debug("send buffer full, dropping reply", zap.String("type", string(msgType)))
	}
}
