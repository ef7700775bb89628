package viewer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("codestudio/viewer")

// JSON-RPC error codes used on the socket.
const (
	CodeUnknownMethod = -32601
	CodeBadParams     = -32602
	CodeFailed        = -32000
)

const writeWait = 10 * time.Second

// ErrBadParams marks a handler error caused by malformed params.
var ErrBadParams = errors.New("invalid params")

// HandlerFunc serves one RPC method. The returned value is encoded as
// the response result.
type HandlerFunc func(ctx context.Context, params json.RawMessage) (any, error)

type rpcRequest struct {
	ID     any             `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

type rpcResponse struct {
	ID     any       `json:"id"`
	Result any       `json:"result,omitempty"`
	Error  *rpcError `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type notification struct {
	Method string `json:"method"`
	Params any    `json:"params,omitempty"`
}

// Hub is the WebSocket endpoint: it dispatches client requests to
// registered handlers and fans notifications out to every client.
type Hub struct {
	upgrader websocket.Upgrader

	hmu      sync.RWMutex
	handlers map[string]HandlerFunc

	mu      sync.Mutex
	clients map[*wsClient]struct{}
}

type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsClient) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		handlers: make(map[string]HandlerFunc),
		clients:  make(map[*wsClient]struct{}),
	}
}

// Handle registers fn for method, replacing any earlier handler.
func (h *Hub) Handle(method string, fn HandlerFunc) {
	h.hmu.Lock()
	h.handlers[method] = fn
	h.hmu.Unlock()
}

// Methods lists the registered method names, sorted.
func (h *Hub) Methods() []string {
	h.hmu.RLock()
	defer h.hmu.RUnlock()
	out := make([]string, 0, len(h.handlers))
	for m := range h.handlers {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// Clients reports the number of connected sockets.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warnf("websocket upgrade: %v", err)
		return
	}
	client := &wsClient{conn: conn}
	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()
	log.Debugf("client connected: %s", r.RemoteAddr)

	defer func() {
		conn.Close()
		h.mu.Lock()
		delete(h.clients, client)
		h.mu.Unlock()
		log.Debugf("client gone: %s", r.RemoteAddr)
	}()

	ctx := r.Context()
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var req rpcRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			log.Debugf("bad frame: %v", err)
			continue
		}
		data, err := json.Marshal(h.dispatch(ctx, req))
		if err != nil {
			log.Errorf("encode %s result: %v", req.Method, err)
			data, _ = json.Marshal(rpcResponse{
				ID:    req.ID,
				Error: &rpcError{Code: CodeFailed, Message: err.Error()},
			})
		}
		if err := client.write(data); err != nil {
			return
		}
	}
}

func (h *Hub) dispatch(ctx context.Context, req rpcRequest) rpcResponse {
	h.hmu.RLock()
	fn, ok := h.handlers[req.Method]
	h.hmu.RUnlock()
	if !ok {
		return rpcResponse{
			ID:    req.ID,
			Error: &rpcError{Code: CodeUnknownMethod, Message: fmt.Sprintf("unknown method: %s", req.Method)},
		}
	}

	result, err := fn(ctx, req.Params)
	if err != nil {
		code := CodeFailed
		if errors.Is(err, ErrBadParams) {
			code = CodeBadParams
		}
		return rpcResponse{ID: req.ID, Error: &rpcError{Code: code, Message: err.Error()}}
	}
	return rpcResponse{ID: req.ID, Result: result}
}

// Broadcast sends a notification to all connected clients. A client
// whose write fails is dropped.
func (h *Hub) Broadcast(method string, params any) {
	msg, err := json.Marshal(notification{Method: method, Params: params})
	if err != nil {
		log.Errorf("encode %s notification: %v", method, err)
		return
	}
	h.mu.Lock()
	clients := make([]*wsClient, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		if err := c.write(msg); err != nil {
			log.Debugf("drop client: %v", err)
			c.conn.Close()
		}
	}
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.conn.Close()
	}
}

// DecodeParams unmarshals raw into v. Failures wrap ErrBadParams.
func DecodeParams(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", ErrBadParams, err)
	}
	return nil
}
