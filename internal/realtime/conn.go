package realtime

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
)

type Config struct {
	Endpoint string
	// token opcional enviado no handshake
	Credential string
}

type Handler func(payload json.RawMessage)

type ListenerID string

// Conn é a conexão realtime compartilhada. Registrar e remover listeners
// não interfere no ciclo de vida da conexão.
type Conn interface {
	Emit(event string, payload any) error
	On(event string, h Handler) ListenerID
	Off(event string, id ListenerID)
	Close() error
}

type listener struct {
	id ListenerID
	h  Handler
}

// registry guarda os listeners por evento, na ordem de registro.
type registry struct {
	mu        sync.RWMutex
	listeners map[string][]listener
}

func newRegistry() *registry {
	return &registry{listeners: make(map[string][]listener)}
}

func (r *registry) add(event string, h Handler) ListenerID {
	id := ListenerID(uuid.NewString())

	r.mu.Lock()
	r.listeners[event] = append(r.listeners[event], listener{id: id, h: h})
	r.mu.Unlock()

	return id
}

func (r *registry) remove(event string, id ListenerID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ls := r.listeners[event]
	for i, l := range ls {
		if l.id == id {
			r.listeners[event] = append(ls[:i:i], ls[i+1:]...)
			break
		}
	}
	if len(r.listeners[event]) == 0 {
		delete(r.listeners, event)
	}
}

func (r *registry) count(event string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.listeners[event])
}

func (r *registry) dispatch(event string, payload json.RawMessage) {
	r.mu.RLock()
	ls := append([]listener(nil), r.listeners[event]...)
	r.mu.RUnlock()

	for _, l := range ls {
		l.h(payload)
	}
}
