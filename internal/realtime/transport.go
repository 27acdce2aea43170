package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	websocketPath = "/realtime/websocket"
	pollingPath   = "/realtime/polling"

	handshakeTimeout = 10 * time.Second
	writeWait        = 10 * time.Second
)

var (
	// sem pong dentro de pongWait a sessão é dada como morta
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Transport é uma sessão física com o servidor realtime.
type Transport interface {
	Name() string
	Send(ctx context.Context, msg Message) error
	// Receive bloqueia até chegar ao menos uma mensagem ou a sessão cair.
	Receive(ctx context.Context) ([]Message, error)
	Close() error
}

type TransportFactory func(ctx context.Context, cfg Config) (Transport, error)

// DefaultTransports prefere websocket e cai para long-polling.
func DefaultTransports() []TransportFactory {
	return []TransportFactory{DialWebsocket, DialPolling}
}

func endpointURL(endpoint, path string, ws bool) (*url.URL, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid realtime endpoint %q: %w", endpoint, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid realtime endpoint %q: missing host", endpoint)
	}

	if ws {
		switch u.Scheme {
		case "https", "wss":
			u.Scheme = "wss"
		default:
			u.Scheme = "ws"
		}
	} else if u.Scheme == "ws" {
		u.Scheme = "http"
	} else if u.Scheme == "wss" {
		u.Scheme = "https"
	}

	u.Path = strings.TrimSuffix(u.Path, "/") + path
	return u, nil
}

func authHeader(credential string) http.Header {
	h := http.Header{}
	if credential != "" {
		h.Set("Authorization", "Bearer "+credential)
	}
	return h
}

// ======================================================
// WEBSOCKET
// ======================================================

type websocketTransport struct {
	conn *websocket.Conn

	pongWait   time.Duration
	pingPeriod time.Duration

	writeMu   sync.Mutex
	done      chan struct{}
	closeOnce sync.Once
}

func DialWebsocket(ctx context.Context, cfg Config) (Transport, error) {
	u, err := endpointURL(cfg.Endpoint, websocketPath, true)
	if err != nil {
		return nil, err
	}
	if cfg.Credential != "" {
		q := u.Query()
		q.Set("token", cfg.Credential)
		u.RawQuery = q.Encode()
	}

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: handshakeTimeout,
	}

	conn, resp, err := dialer.DialContext(ctx, u.String(), authHeader(cfg.Credential))
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("websocket handshake failed (status: %s): %w", resp.Status, err)
		}
		return nil, fmt.Errorf("failed to dial websocket: %w", err)
	}

	t := &websocketTransport{
		conn:       conn,
		pongWait:   pongWait,
		pingPeriod: pingPeriod,
		done:       make(chan struct{}),
	}

	_ = conn.SetReadDeadline(time.Now().Add(t.pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(t.pongWait))
	})

	go t.pingLoop()

	return t, nil
}

func (t *websocketTransport) Name() string { return "websocket" }

func (t *websocketTransport) pingLoop() {
	ticker := time.NewTicker(t.pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.writeMu.Lock()
			err := t.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			t.writeMu.Unlock()
			if err != nil {
				return
			}
		case <-t.done:
			return
		}
	}
}

func (t *websocketTransport) Send(_ context.Context, msg Message) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	_ = t.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return t.conn.WriteJSON(msg)
}

func (t *websocketTransport) Receive(_ context.Context) ([]Message, error) {
	for {
		messageType, data, err := t.conn.ReadMessage()
		if err != nil {
			return nil, err
		}
		_ = t.conn.SetReadDeadline(time.Now().Add(t.pongWait))

		if messageType != websocket.TextMessage && messageType != websocket.BinaryMessage {
			continue
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Warn().Err(err).Str("message", string(data)).Msg("realtime: dropping undecodable frame")
			continue
		}
		return []Message{msg}, nil
	}
}

func (t *websocketTransport) Close() error {
	var err error
	t.closeOnce.Do(func() {
		close(t.done)

		t.writeMu.Lock()
		_ = t.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		t.writeMu.Unlock()

		err = t.conn.Close()
	})
	return err
}
