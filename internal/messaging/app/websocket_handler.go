package app

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"social_messaging_service/internal/messaging/domain"
	"social_messaging_service/pkg/logger"
	"social_messaging_service/pkg/middlewares"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

const (
	// time allowed to write one event to the peer
	writeWait = 10 * time.Second

	pingPeriod = 10 * time.Minute
)

// wsClient wrap a websocket connection as an EventWriter. Writes are
// serialized: the read loop, the ping goroutine and the delivery coordinator
// all write to the same connection.
type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsClient) WriteEvent(resp domain.WSResponse) error {
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, b)
}

func (c *wsClient) writePing() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.PingMessage, []byte("ping"))
}

// MessagingWebsocketHandler hold the use cases a connection can reach
type MessagingWebsocketHandler struct {
	chatUC     *ChatUseCase
	deliveryUC *DeliveryUseCase
	presence   *PresenceRegistry
}

// NewMessagingWebsocketHandler create MessagingWebsocketHandler
func NewMessagingWebsocketHandler(
	chatUC *ChatUseCase,
	deliveryUC *DeliveryUseCase,
	presence *PresenceRegistry,
) *MessagingWebsocketHandler {
	return &MessagingWebsocketHandler{
		chatUC:     chatUC,
		deliveryUC: deliveryUC,
		presence:   presence,
	}
}

// HandleConnection entry point for one WebSocket connection
func (h *MessagingWebsocketHandler) HandleConnection(ctx context.Context, conn *websocket.Conn) {
	tokenUser := conn.Locals(middlewares.TokenUserID)
	userID, ok := tokenUser.(string)
	logger.Log.Info("websocket handle userID", zap.String("userID", userID), zap.String("ok", strconv.FormatBool(ok)))
	if !ok || userID == "" {
		conn.Close()
		return
	}

	client := &wsClient{conn: conn}
	ticker := time.NewTicker(pingPeriod)
	ctxClose, cancel := context.WithCancel(context.Background())

	// connection open means the user is reachable for live delivery
	h.presence.Register(userID, client)

	defer func() {
		ticker.Stop()
		// removal by handle: a reconnect that replaced this entry survives
		h.presence.Unregister(client)
		logger.Log.Info("websocket close", zap.String("userID", userID))
		conn.Close()
		cancel()
	}()

	//fiber handles the close frame itself, hook it for the log
	conn.SetCloseHandler(func(code int, text string) error {
		logger.Log.Infof("WebSocket closed:", conn.RemoteAddr())
		return nil
	})

	conn.SetPongHandler(func(appData string) error {
		return nil
	})

	conn.SetPingHandler(func(appData string) error {
		return conn.WriteControl(
			websocket.PongMessage,
			[]byte(appData),
			time.Now().Add(time.Second),
		)
	})

	// periodic ping keeps liveness detection working
	go func() {
		for {
			select {
			case <-ticker.C:
				if err := client.writePing(); err != nil {
					logger.Log.Errorf("Ping error:", err)
					return
				}
			case <-ctxClose.Done():
				return
			}
		}
	}()

	for {
		mt, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				logger.Log.Infof("Connection closed:", err)
			} else {
				logger.Log.Errorf("websocket read error:", err)
			}
			return
		}
		h.execWebsocketAction(ctx, client, userID, mt, message)
	}
}

func (h *MessagingWebsocketHandler) execWebsocketAction(ctx context.Context, client *wsClient, userID string, mt int, msg []byte) {
	switch mt {
	case websocket.TextMessage:
		h.textMessageAction(ctx, client, userID, msg)
	default:
		h.sendError(client, "unknown message type")
	}
}

func (h *MessagingWebsocketHandler) textMessageAction(ctx context.Context, client *wsClient, userID string, msg []byte) {
	var req domain.WSRequest
	if err := json.Unmarshal(msg, &req); err != nil {
		// malformed payload never tears the connection down
		logger.Log.Warn("websocket payload unmarshal", zap.String("userID", userID), zap.String("err", err.Error()))
		h.sendError(client, "malformed payload")
		return
	}

	resp := domain.WSResponse{Action: req.Action, Success: false, Payload: map[string]interface{}{}}
	switch domain.Event(req.Action) {
	// presence is registered on connect already, the explicit join stays
	// idempotent for clients that emit it
	case domain.EventJoin:
		h.presence.Register(userID, client)
		resp.Success = true
		resp.Payload["userId"] = userID

	case domain.EventSendMessage:
		if _, err := h.deliveryUC.Send(ctx, userID, req.ChatID, req.Message, req.Media); err != nil {
			resp.Error = err.Error()
		} else {
			// the coordinator already wrote the messageSent ack to the
			// sender's connection, a response envelope here would repeat it
			return
		}

	case domain.EventTyping:
		err := h.deliveryUC.Typing(ctx, req.ChatID, userID)
		if err != nil {
			resp.Error = err.Error()
		} else {
			resp.Success = true
		}

	case domain.EventReadReceipt:
		message, err := h.deliveryUC.MarkRead(ctx, req.MessageID)
		if err != nil {
			resp.Error = err.Error()
		} else {
			resp.Success = true
			resp.Payload["message"] = message
		}

	default:
		h.sendError(client, "unknown action")
		return
	}

	if resp.Error != "" {
		logger.Log.Error("websocket err",
			zap.String("UserID", userID),
			zap.String("Action", req.Action),
			zap.String("err", resp.Error))
	}
	h.sendResponse(client, resp)
}

// sendResponse write response envelope to the client
func (h *MessagingWebsocketHandler) sendResponse(client *wsClient, resp domain.WSResponse) {
	if err := client.WriteEvent(resp); err != nil {
		logger.Log.Errorf("write message error:", err)
	}
}

func (h *MessagingWebsocketHandler) sendError(client *wsClient, errorMsg string) {
	h.sendResponse(client, domain.WSResponse{
		Action:  "error",
		Success: false,
		Payload: map[string]interface{}{
			"error": errorMsg,
		},
	})
}
