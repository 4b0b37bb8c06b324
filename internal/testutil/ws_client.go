package testutil

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/dom/league-rest-explorer/internal/dashboard"
	"github.com/dom/league-rest-explorer/internal/websocket"
	gorillaWS "github.com/gorilla/websocket"
)

// WSClient is a test WebSocket client
type WSClient struct {
	t        *testing.T
	conn     *gorillaWS.Conn
	messages chan *websocket.Message
	errors   chan error
	done     chan struct{}
	mu       sync.Mutex
}

// NewWSClient creates a new WebSocket test client
func NewWSClient(t *testing.T, url string) *WSClient {
	t.Helper()

	dialer := gorillaWS.DefaultDialer
	dialer.HandshakeTimeout = 5 * time.Second

	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to connect to websocket: %v", err)
	}

	client := &WSClient{
		t:        t,
		conn:     conn,
		messages: make(chan *websocket.Message, 100),
		errors:   make(chan error, 10),
		done:     make(chan struct{}),
	}

	go client.readPump()

	t.Cleanup(func() {
		client.Close()
	})

	return client
}

// readPump reads messages from the WebSocket connection
func (c *WSClient) readPump() {
	defer close(c.messages)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
			case c.errors <- err:
			}
			return
		}

		var msg websocket.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			select {
			case c.errors <- err:
			default:
			}
			continue
		}

		select {
		case c.messages <- &msg:
		case <-c.done:
			return
		}
	}
}

// Close closes the WebSocket connection gracefully
func (c *WSClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-c.done:
		return
	default:
		close(c.done)
		c.conn.WriteMessage(gorillaWS.CloseMessage, gorillaWS.FormatCloseMessage(gorillaWS.CloseNormalClosure, ""))
		c.conn.Close()
	}
}

// SendMessage sends a typed message to the server
func (c *WSClient) SendMessage(msgType websocket.MessageType, payload interface{}) {
	c.t.Helper()

	msg, err := websocket.NewMessage(msgType, payload)
	if err != nil {
		c.t.Fatalf("failed to build message: %v", err)
	}

	data, err := json.Marshal(msg)
	if err != nil {
		c.t.Fatalf("failed to marshal message: %v", err)
	}

	c.mu.Lock()
	err = c.conn.WriteMessage(gorillaWS.TextMessage, data)
	c.mu.Unlock()

	if err != nil {
		c.t.Fatalf("failed to send message: %v", err)
	}
}

// SyncState asks for the full session state
func (c *WSClient) SyncState() {
	c.SendMessage(websocket.MessageTypeSyncState, nil)
}

// SetSelection sends a SET_SELECTION command
func (c *WSClient) SetSelection(update dashboard.SelectionUpdate) {
	c.SendMessage(websocket.MessageTypeSetSelection, update)
}

// FetchSection sends a FETCH_SECTION command
func (c *WSClient) FetchSection(section string) {
	c.SendMessage(websocket.MessageTypeFetchSection, websocket.SectionPayload{Section: section})
}

// ResetSection sends a RESET_SECTION command
func (c *WSClient) ResetSection(section string) {
	c.SendMessage(websocket.MessageTypeResetSection, websocket.SectionPayload{Section: section})
}

// ExpectMessage waits for a message of the specified type, skipping others
func (c *WSClient) ExpectMessage(msgType websocket.MessageType, timeout time.Duration) *websocket.Message {
	c.t.Helper()

	deadline := time.After(timeout)
	for {
		select {
		case msg := <-c.messages:
			if msg == nil {
				c.t.Fatalf("connection closed while waiting for %s", msgType)
			}
			if msg.Type == msgType {
				return msg
			}
		case err := <-c.errors:
			c.t.Fatalf("error while waiting for %s: %v", msgType, err)
		case <-deadline:
			c.t.Fatalf("timeout waiting for message type %s", msgType)
		}
	}
}

func (c *WSClient) decode(msgType websocket.MessageType, timeout time.Duration, v interface{}) {
	c.t.Helper()

	msg := c.ExpectMessage(msgType, timeout)
	if err := json.Unmarshal(msg.Payload, v); err != nil {
		c.t.Fatalf("failed to decode %s payload: %v", msgType, err)
	}
}

// ExpectMessagesOfTypes waits until one message of each type has arrived, in
// any order
func (c *WSClient) ExpectMessagesOfTypes(types []websocket.MessageType, timeout time.Duration) map[websocket.MessageType]*websocket.Message {
	c.t.Helper()

	want := make(map[websocket.MessageType]bool, len(types))
	for _, typ := range types {
		want[typ] = true
	}
	got := make(map[websocket.MessageType]*websocket.Message, len(types))

	deadline := time.After(timeout)
	for len(got) < len(want) {
		select {
		case msg := <-c.messages:
			if msg == nil {
				c.t.Fatalf("connection closed while waiting for %v", types)
			}
			if want[msg.Type] && got[msg.Type] == nil {
				got[msg.Type] = msg
			}
		case err := <-c.errors:
			c.t.Fatalf("error while waiting for %v: %v", types, err)
		case <-deadline:
			c.t.Fatalf("timeout waiting for %v, got %d of them", types, len(got))
		}
	}
	return got
}

// ExpectStateSync waits for and decodes a STATE_SYNC message
func (c *WSClient) ExpectStateSync(timeout time.Duration) *websocket.StateSyncPayload {
	c.t.Helper()

	var payload websocket.StateSyncPayload
	c.decode(websocket.MessageTypeStateSync, timeout, &payload)
	return &payload
}

// SectionView is a decoded SECTION_VIEW payload. Rows stay raw since their
// shape depends on the section.
type SectionView struct {
	dashboard.View
	Rows json.RawMessage `json:"rows"`
}

// ExpectSectionView waits for and decodes a SECTION_VIEW message
func (c *WSClient) ExpectSectionView(timeout time.Duration) *SectionView {
	c.t.Helper()

	var payload SectionView
	c.decode(websocket.MessageTypeSectionView, timeout, &payload)
	return &payload
}

// ExpectEvent waits for and decodes a session event of the given type
func (c *WSClient) ExpectEvent(msgType websocket.MessageType, timeout time.Duration) *websocket.EventPayload {
	c.t.Helper()

	var payload websocket.EventPayload
	c.decode(msgType, timeout, &payload)
	return &payload
}

// ExpectError waits for and decodes an ERROR message
func (c *WSClient) ExpectError(timeout time.Duration) *websocket.ErrorPayload {
	c.t.Helper()

	var payload websocket.ErrorPayload
	c.decode(websocket.MessageTypeError, timeout, &payload)
	return &payload
}

// ExpectErrorWithCode waits for an error with a specific code
func (c *WSClient) ExpectErrorWithCode(code string, timeout time.Duration) *websocket.ErrorPayload {
	c.t.Helper()

	payload := c.ExpectError(timeout)
	if payload.Code != code {
		c.t.Fatalf("expected error code %s, got %s: %s", code, payload.Code, payload.Message)
	}

	return payload
}

// ExpectClosed waits for the server to close the connection
func (c *WSClient) ExpectClosed(timeout time.Duration) {
	c.t.Helper()

	deadline := time.After(timeout)
	for {
		select {
		case msg := <-c.messages:
			if msg == nil {
				return
			}
		case <-c.errors:
			return
		case <-deadline:
			c.t.Fatalf("timeout waiting for connection close")
		}
	}
}
