package websocket

import (
	"context"
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"staff-directory/domain/directory"
	"staff-directory/domain/services"
	websocketManager "staff-directory/infrastructure/websocket"
	"staff-directory/pkg/logger"
)

// Client → server message types.
const (
	MessageQueryChange   = "query:change"
	MessageLocateRequest = "locate:request"
	MessageOverlayClose  = "overlay:close"
)

// Server → client message types.
const (
	MessageMatches        = "directory:matches"
	MessageOverlayOpened  = "overlay:opened"
	MessageOverlayClosed  = "overlay:closed"
	MessageLocateDisabled = "locate:disabled"
	MessageRosterRefresh  = "roster:refreshed"
	MessageError          = "error"
)

type queryChangePayload struct {
	Text string `json:"text"`
}

type locateRequestPayload struct {
	PersonID uint `json:"personId"`
}

type locateDisabledPayload struct {
	PersonID uint   `json:"personId"`
	Label    string `json:"label"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// sessionControl is the part of a directory session driven by client messages.
type sessionControl interface {
	ID() string
	OnQueryChange(text string)
	OnLocateRequested(personID uint) bool
	OnOverlayClosed()
	Lookup(personID uint) (directory.Row, bool)
}

type sender interface {
	Send(messageType string, data interface{}) error
}

type WebSocketHandler struct {
	directoryService services.DirectoryService
}

func NewWebSocketHandler(directoryService services.DirectoryService) *WebSocketHandler {
	return &WebSocketHandler{directoryService: directoryService}
}

func (h *WebSocketHandler) WebSocketUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// HandleWebSocket runs one directory session for the lifetime of the connection.
func (h *WebSocketHandler) HandleWebSocket(c *websocket.Conn) {
	client := websocketManager.NewClient(c)
	session := h.directoryService.OpenSession(context.Background(), newSessionListener(client))
	websocketManager.Manager.RegisterClient(session.ID(), client)

	defer func() {
		h.directoryService.CloseSession(session.ID())
		websocketManager.Manager.UnregisterClient(session.ID())
	}()

	client.Send(MessageMatches, session.Rows())

	for {
		_, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.WebSocketError("read_message", "WebSocket read error", err, map[string]interface{}{"session_id": session.ID()})
			}
			break
		}

		dispatch(session, client, message)
	}
}

// dispatch applies one client message to the session.
func dispatch(session sessionControl, out sender, raw []byte) {
	var msg websocketManager.Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		out.Send(MessageError, errorPayload{Message: "invalid message"})
		return
	}

	switch msg.Type {
	case MessageQueryChange:
		var payload queryChangePayload
		if err := decodePayload(msg.Data, &payload); err != nil {
			out.Send(MessageError, errorPayload{Message: "invalid query:change payload"})
			return
		}
		session.OnQueryChange(payload.Text)

	case MessageLocateRequest:
		var payload locateRequestPayload
		if err := decodePayload(msg.Data, &payload); err != nil || payload.PersonID == 0 {
			out.Send(MessageError, errorPayload{Message: "invalid locate:request payload"})
			return
		}
		if session.OnLocateRequested(payload.PersonID) {
			return
		}
		row, ok := session.Lookup(payload.PersonID)
		if !ok {
			logger.WebSocket("unknown_person", "Locate requested for unknown person", map[string]interface{}{"session_id": session.ID(), "person_id": payload.PersonID})
			out.Send(MessageError, errorPayload{Message: "person not found"})
			return
		}
		out.Send(MessageLocateDisabled, locateDisabledPayload{PersonID: payload.PersonID, Label: row.Location.Label})

	case MessageOverlayClose:
		session.OnOverlayClosed()

	default:
		logger.WebSocket("unknown_message", "Unknown message type", map[string]interface{}{"session_id": session.ID(), "type": msg.Type})
		out.Send(MessageError, errorPayload{Message: "unknown message type: " + msg.Type})
	}
}

func decodePayload(data json.RawMessage, dest interface{}) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dest)
}
