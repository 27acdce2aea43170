package realtime

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	pollInterval    = 250 * time.Millisecond
	pollHoldTimeout = 60 * time.Second
)

type handshakeResponse struct {
	SID string `json:"sid"`
}

// pollingTransport: long-polling HTTP. Handshake devolve um sid,
// GET espera mensagens, POST envia.
type pollingTransport struct {
	client     *http.Client
	url        string
	credential string
	limiter    *rate.Limiter

	closed    chan struct{}
	closeOnce sync.Once
}

func DialPolling(ctx context.Context, cfg Config) (Transport, error) {
	u, err := endpointURL(cfg.Endpoint, pollingPath, false)
	if err != nil {
		return nil, err
	}
	if cfg.Credential != "" {
		q := u.Query()
		q.Set("token", cfg.Credential)
		u.RawQuery = q.Encode()
	}

	t := &pollingTransport{
		client:     &http.Client{Timeout: pollHoldTimeout + 5*time.Second},
		credential: cfg.Credential,
		limiter:    rate.NewLimiter(rate.Every(pollInterval), 1),
		closed:     make(chan struct{}),
	}

	hctx, cancel := context.WithTimeout(ctx, handshakeTimeout)
	defer cancel()

	resp, err := t.do(hctx, http.MethodPost, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("polling handshake failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("polling handshake failed (status: %s)", resp.Status)
	}

	var hs handshakeResponse
	if err := json.NewDecoder(resp.Body).Decode(&hs); err != nil || hs.SID == "" {
		return nil, fmt.Errorf("polling handshake returned no sid")
	}

	q := u.Query()
	q.Set("sid", hs.SID)
	u.RawQuery = q.Encode()
	t.url = u.String()

	return t, nil
}

func (t *pollingTransport) Name() string { return "polling" }

func (t *pollingTransport) do(ctx context.Context, method, target string, body []byte) (*http.Response, error) {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, r)
	if err != nil {
		return nil, err
	}
	for k, v := range authHeader(t.credential) {
		req.Header[k] = v
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return t.client.Do(req)
}

func (t *pollingTransport) sessionContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		select {
		case <-t.closed:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

func (t *pollingTransport) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	ctx, cancel := t.sessionContext(ctx)
	defer cancel()

	resp, err := t.do(ctx, http.MethodPost, t.url, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("polling send failed (status: %s)", resp.Status)
	}
	return nil
}

func (t *pollingTransport) Receive(ctx context.Context) ([]Message, error) {
	ctx, cancel := t.sessionContext(ctx)
	defer cancel()

	for {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		resp, err := t.do(ctx, http.MethodGet, t.url, nil)
		if err != nil {
			return nil, err
		}

		msgs, err := decodePoll(resp)
		if err != nil {
			return nil, err
		}
		if len(msgs) > 0 {
			return msgs, nil
		}
	}
}

func decodePoll(resp *http.Response) ([]Message, error) {
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var msgs []Message
		if err := json.NewDecoder(resp.Body).Decode(&msgs); err != nil {
			return nil, fmt.Errorf("invalid poll payload: %w", err)
		}
		return msgs, nil
	case http.StatusNoContent:
		return nil, nil
	default:
		return nil, fmt.Errorf("poll failed (status: %s)", resp.Status)
	}
}

func (t *pollingTransport) Close() error {
	t.closeOnce.Do(func() {
		close(t.closed)

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if resp, err := t.do(ctx, http.MethodDelete, t.url, nil); err == nil {
			resp.Body.Close()
		}
	})
	return nil
}
