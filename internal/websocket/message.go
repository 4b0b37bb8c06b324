package websocket

import (
	"encoding/json"
	"time"

	"github.com/dom/league-rest-explorer/internal/dashboard"
	"github.com/dom/league-rest-explorer/internal/domain"
)

type MessageType string

const (
	// Client to Server
	MessageTypeSyncState    MessageType = "SYNC_STATE"
	MessageTypeSetSelection MessageType = "SET_SELECTION"
	MessageTypeFetchSection MessageType = "FETCH_SECTION"
	MessageTypeResetSection MessageType = "RESET_SECTION"

	// Server to Client
	MessageTypeStateSync        MessageType = "STATE_SYNC"
	MessageTypeSectionView      MessageType = "SECTION_VIEW"
	MessageTypeModeChanged      MessageType = MessageType(dashboard.EventModeChanged)
	MessageTypeSelectionChanged MessageType = MessageType(dashboard.EventSelectionChanged)
	MessageTypeSectionFetched   MessageType = MessageType(dashboard.EventSectionFetched)
	MessageTypeError            MessageType = "ERROR"
)

type Message struct {
	Type      MessageType     `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp int64           `json:"timestamp"`
}

func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      msgType,
		Payload:   payloadBytes,
		Timestamp: time.Now().UnixMilli(),
	}, nil
}

// Client to Server payloads

// SET_SELECTION carries a dashboard.SelectionUpdate.

type SectionPayload struct {
	Section string `json:"section"`
}

// Server to Client payloads

type StateSyncPayload struct {
	Selection domain.Selection `json:"selection"`
	Sections  []dashboard.View `json:"sections"`
}

type EventPayload struct {
	Section      domain.Section    `json:"section,omitempty"`
	Mode         domain.DataMode   `json:"mode,omitempty"`
	Selection    *domain.Selection `json:"selection,omitempty"`
	Announcement string            `json:"announcement"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// EventMessage wraps a dashboard event for the wire.
func EventMessage(e dashboard.Event) (*Message, error) {
	msg, err := NewMessage(MessageType(e.Type), EventPayload{
		Section:      e.Section,
		Mode:         e.Mode,
		Selection:    e.Selection,
		Announcement: e.Announcement,
	})
	if err != nil {
		return nil, err
	}
	msg.Timestamp = e.At.UnixMilli()
	return msg, nil
}
