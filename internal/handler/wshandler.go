package handler

// wshandler is code for handling queries sent over a websocket.  It supports both commonly used WS protocols
// * subscriptions-transport-ws: early protocol from Apollo (sub-protocol name:graphql-ws)
// * graphql-ws is newer ws transport which can handle any operation (sub-protocol name:graphql-transport-ws).
// Each query is answered with a single data (old) or next (new) message followed by complete.

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/andrewwphillips/blogql/internal/metrics"
)

const (
	oldProtocol = "graphql-ws"
	newProtocol = "graphql-transport-ws"

	// Close codes of the graphql-transport-ws protocol
	closeBadRequest     = 4400
	closeUnauthorized   = 4401
	closeInitTimeout    = 4408
	closeDuplicateID    = 4409
	closeTooManyInits   = 4429
	closeMessageTimeout = time.Second
)

type (
	wsConnection struct {
		*websocket.Conn // handle for WS communications

		h      *Handler // we need this for the schema etc
		logger *slog.Logger

		newProtocol bool       // default to old
		writeMu     sync.Mutex // gorilla websocket allows only one concurrent writer

		// active keeps track of the cancel function associated with each operation in progress.
		//  map key = ID that identifies the operation
		//  map value = context.CancelFunc that will terminate the operation
		mu     sync.Mutex
		active map[string]context.CancelFunc
		wg     sync.WaitGroup
	}

	// wsMessage is a message received from the client
	wsMessage struct {
		Type    string          `json:"type"`
		ID      string          `json:"id,omitempty"`
		Payload json.RawMessage `json:"payload,omitempty"`
	}

	// wsReply is a message sent to the client
	wsReply struct {
		Type    string      `json:"type"`
		ID      string      `json:"id,omitempty"`
		Payload interface{} `json:"payload,omitempty"`
	}
)

var upgrader = websocket.Upgrader{
	CheckOrigin:  func(r *http.Request) bool { return true },
	Subprotocols: []string{oldProtocol, newProtocol},
}

// serveWS is called in response to a GraphQL HTTP request wanting to upgrade to a WS.
func (h *Handler) serveWS(w http.ResponseWriter, r *http.Request, logger *slog.Logger) {
	conn, err := upgrader.Upgrade(w, r, w.Header()) // includes the request ID
	if err != nil {
		logger.Info("websocket upgrade error", "error", err)
		// nothing else required here as w's HTTP status has already been set
		return
	}
	_ = conn.UnderlyingConn().SetDeadline(time.Time{}) // clear any deadlines set by the HTTP server
	h.metrics.WSOpened()
	defer h.metrics.WSClosed()

	c := &wsConnection{
		Conn:        conn,
		h:           h,
		logger:      logger,
		newProtocol: conn.Subprotocol() == newProtocol, // else assume it's the "old" (graphql-ws) WS sub-protocol
		active:      make(map[string]context.CancelFunc, 1),
	}
	ctx, cancel := context.WithCancel(r.Context())
	defer func() {
		cancel() // stops all operations
		c.wg.Wait()
		if err := c.Close(); err != nil {
			logger.Debug("websocket close error", "error", err)
		}
	}()

	if !c.init() {
		return
	}

	done := make(chan struct{})
	defer close(done)
	go c.keepAlive(done)

	for {
		message, ok := c.read()
		if !ok {
			return
		}

		switch message.Type {
		case "subscribe", "start":
			if (message.Type == "subscribe") != c.newProtocol {
				c.closeWith(closeBadRequest, "Unexpected message type "+message.Type)
				return
			}
			if !c.start(ctx, message) {
				return
			}

		case "complete", "stop":
			c.stop(message.ID)

		case "ping":
			c.send(wsReply{Type: "pong"})

		case "pong":
			_ = c.SetReadDeadline(time.Time{}) // client is alive so cancel the pong timeout

		case "connection_init":
			c.closeWith(closeTooManyInits, "Too many initialisation requests")
			return

		case "connection_terminate":
			c.closeWith(websocket.CloseNormalClosure, "")
			return

		default:
			logger.Info("websocket unexpected message type", "type", message.Type)
			c.closeWith(closeBadRequest, "Unexpected message type "+message.Type)
			return
		}
	}
}

// init handles the initial (high level) handshake by receiving an "init" message and sending an "ack"
func (c *wsConnection) init() bool {
	_ = c.SetReadDeadline(time.Now().Add(c.h.initialTimeout))
	_, p, err := c.ReadMessage()
	if err != nil {
		c.logger.Info("websocket init error", "error", err)
		if ne, ok := err.(interface{ Timeout() bool }); ok && ne.Timeout() {
			c.closeWith(closeInitTimeout, "Connection initialisation timeout")
		}
		return false
	}
	_ = c.SetReadDeadline(time.Time{})

	var message wsMessage
	if err := jsonAPI.Unmarshal(p, &message); err != nil {
		c.logger.Info("websocket init decode error", "error", err)
		c.closeWith(websocket.CloseUnsupportedData, "Invalid message")
		return false
	}
	switch message.Type {
	case "connection_init":
		// ok
	case "connection_terminate":
		c.closeWith(websocket.CloseNormalClosure, "")
		return false
	default:
		c.logger.Info("websocket expected connection_init", "type", message.Type)
		if c.newProtocol {
			c.closeWith(closeUnauthorized, "Unauthorized")
		} else {
			c.send(wsReply{Type: "connection_error"})
		}
		return false
	}

	if !c.send(wsReply{Type: "connection_ack"}) {
		return false
	}
	if !c.newProtocol {
		c.send(wsReply{Type: "ka"})
	}
	return true
}

// keepAlive periodically sends a "ka" (old protocol) or a "ping" (new protocol) until done is closed.
// After a ping the client must reply with a pong before the pong timeout or the WS is closed.
func (c *wsConnection) keepAlive(done <-chan struct{}) {
	ticker := time.NewTicker(c.h.pingFrequency)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if !c.newProtocol {
				c.send(wsReply{Type: "ka"})
				continue
			}
			_ = c.SetReadDeadline(time.Now().Add(c.h.pongTimeout))
			c.send(wsReply{Type: "ping"})
		}
	}
}

// start decodes a query from a JSON message and starts the processing of it
// Returns false if the connection has been closed due to an error
func (c *wsConnection) start(ctx context.Context, message *wsMessage) bool {
	if len(message.Payload) == 0 || string(message.Payload) == "null" {
		c.closeWith(websocket.CloseInvalidFramePayloadData, "No payload")
		return false
	}
	var g Request
	decoder := jsonAPI.NewDecoder(bytes.NewReader(message.Payload))
	decoder.UseNumber() // allows us to distinguish ints from floats in Variables map (see also FixNumberVariables())
	if err := decoder.Decode(&g); err != nil {
		c.closeWith(closeBadRequest, "Invalid payload")
		return false
	}
	FixNumberVariables(g.Variables)

	// Add to our map of operations active in this ws (first checking that the ID is not in use)
	c.mu.Lock()
	if _, ok := c.active[message.ID]; ok {
		c.mu.Unlock()
		c.closeWith(closeDuplicateID, "Subscriber for "+message.ID+" already exists")
		return false
	}
	ctx, cancel := context.WithCancel(ctx)
	c.active[message.ID] = cancel
	c.mu.Unlock()

	c.wg.Add(1)
	go c.process(ctx, message.ID, g)
	return true
}

// process executes a query and sends the result (or errors) to the client
func (c *wsConnection) process(ctx context.Context, ID string, g Request) {
	defer c.wg.Done()

	start := time.Now()
	result := c.h.Execute(ctx, g)
	c.h.metrics.Request(metrics.WebSocket, result.Outcome(), time.Since(start))
	c.logger.Debug("websocket request", "id", ID, "operation", g.OperationName, "outcome", result.Outcome(), "duration", time.Since(start))

	stopped := ctx.Err() != nil // stopped by the client or connection closed
	c.remove(ID)                // the ID may be reused once the result is ready
	if stopped {
		return
	}

	if !c.newProtocol {
		c.send(wsReply{Type: "data", ID: ID, Payload: result})
	} else if result.Data == nil {
		c.send(wsReply{Type: "error", ID: ID, Payload: result.Errors})
		return // no complete after an error message
	} else {
		c.send(wsReply{Type: "next", ID: ID, Payload: result})
	}
	c.send(wsReply{Type: "complete", ID: ID})
}

// stop kills processing of one operation by calling the cancel function of the operation's context
func (c *wsConnection) stop(ID string) {
	c.mu.Lock()
	cancel := c.active[ID]
	c.mu.Unlock()
	if cancel == nil {
		c.logger.Debug("websocket ID not found or already complete", "id", ID)
		return
	}
	cancel()
}

func (c *wsConnection) remove(ID string) {
	c.mu.Lock()
	if cancel := c.active[ID]; cancel != nil {
		cancel()
	}
	delete(c.active, ID)
	c.mu.Unlock()
}

// read gets the next message, returning false if the connection is broken or the message can't be decoded
func (c *wsConnection) read() (*wsMessage, bool) {
	_, p, err := c.ReadMessage()
	if err != nil {
		c.logger.Debug("websocket read error", "error", err)
		return nil, false
	}

	var message wsMessage
	if err := jsonAPI.Unmarshal(p, &message); err != nil {
		c.logger.Info("websocket decode error", "error", err)
		c.closeWith(closeBadRequest, "Invalid message")
		return nil, false
	}
	return &message, true
}

// send writes a message as JSON, returning false on error
func (c *wsConnection) send(reply wsReply) bool {
	buf, err := jsonAPI.Marshal(reply)
	if err != nil {
		c.logger.Error("websocket encode error", "error", err)
		return false
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.WriteMessage(websocket.TextMessage, buf); err != nil {
		c.logger.Debug("websocket write error", "error", err)
		return false
	}
	return true
}

// closeWith sends a close message with a code and reason
func (c *wsConnection) closeWith(code int, text string) {
	err := c.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, text), time.Now().Add(closeMessageTimeout))
	if err != nil {
		c.logger.Debug("websocket close message error", "error", err)
	}
}
