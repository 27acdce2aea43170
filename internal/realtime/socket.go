package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"
)

const (
	outboxSize        = 64
	reconnectDelay    = time.Second
	maxReconnectDelay = 30 * time.Second

	// emitido localmente a cada reconexão (não na primeira conexão)
	EventReconnect = "reconnect"
)

var (
	ErrClosed     = errors.New("realtime: connection closed")
	ErrOutboxFull = errors.New("realtime: outbox full")
)

// Socket é a implementação padrão de Conn. Conecta em background,
// enfileira emits até haver transporte e reconecta sozinho.
type Socket struct {
	cfg        Config
	transports []TransportFactory
	onError    func(error)
	delay      time.Duration

	listeners *registry
	outbox    chan Message

	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once

	mu     sync.RWMutex
	active string
}

type SocketOption func(*Socket)

func WithTransports(factories ...TransportFactory) SocketOption {
	return func(s *Socket) { s.transports = factories }
}

func WithErrorHandler(fn func(error)) SocketOption {
	return func(s *Socket) { s.onError = fn }
}

func WithReconnectDelay(d time.Duration) SocketOption {
	return func(s *Socket) {
		if d > 0 {
			s.delay = d
		}
	}
}

func NewSocket(cfg Config, opts ...SocketOption) *Socket {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Socket{
		cfg:        cfg,
		transports: DefaultTransports(),
		onError:    func(error) {},
		delay:      reconnectDelay,
		listeners:  newRegistry(),
		outbox:     make(chan Message, outboxSize),
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	go s.run()
	return s
}

// Transport devolve o nome do transporte ativo ("" se desconectado).
func (s *Socket) Transport() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *Socket) setActive(name string) {
	s.mu.Lock()
	s.active = name
	s.mu.Unlock()
}

func (s *Socket) Emit(event string, payload any) error {
	if s.ctx.Err() != nil {
		return ErrClosed
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("realtime: encode %s: %w", event, err)
	}

	select {
	case s.outbox <- Message{Event: event, Data: data}:
		return nil
	default:
		return ErrOutboxFull
	}
}

func (s *Socket) On(event string, h Handler) ListenerID {
	return s.listeners.add(event, h)
}

func (s *Socket) Off(event string, id ListenerID) {
	s.listeners.remove(event, id)
}

func (s *Socket) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()
		<-s.done
	})
	return nil
}

func (s *Socket) run() {
	defer close(s.done)

	delay := s.delay
	connected := false

	for {
		t, err := s.connect()
		if err != nil {
			if s.ctx.Err() != nil {
				return
			}
			s.onError(err)
			if !s.sleep(delay) {
				return
			}
			delay = min(delay*2, maxReconnectDelay)
			continue
		}

		delay = s.delay
		err = s.serve(t, connected)
		connected = true

		if s.ctx.Err() != nil {
			return
		}
		s.onError(fmt.Errorf("realtime: %s transport lost: %w", t.Name(), err))
		if !s.sleep(delay) {
			return
		}
	}
}

// connect tenta os transportes na ordem de preferência.
func (s *Socket) connect() (Transport, error) {
	var errs []error
	for _, dial := range s.transports {
		t, err := dial(s.ctx, s.cfg)
		if err == nil {
			return t, nil
		}
		errs = append(errs, err)
		if s.ctx.Err() != nil {
			break
		}
	}
	if len(errs) == 0 {
		return nil, errors.New("realtime: no transports configured")
	}
	return nil, errors.Join(errs...)
}

func (s *Socket) serve(t Transport, reconnect bool) error {
	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	defer t.Close()

	go func() {
		<-ctx.Done()
		t.Close()
	}()

	s.setActive(t.Name())
	defer s.setActive("")

	go s.writeLoop(ctx, t)

	if reconnect {
		s.listeners.dispatch(EventReconnect, nil)
	}

	for {
		msgs, err := t.Receive(ctx)
		if err != nil {
			return err
		}
		for _, m := range msgs {
			s.listeners.dispatch(m.Event, m.Data)
		}
	}
}

func (s *Socket) writeLoop(ctx context.Context, t Transport) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-s.outbox:
			if err := t.Send(ctx, msg); err != nil {
				s.onError(fmt.Errorf("realtime: send %s: %w", msg.Event, err))
			}
		}
	}
}

func (s *Socket) sleep(d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-s.ctx.Done():
		return false
	}
}
