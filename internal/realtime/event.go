package realtime

import (
	"encoding/json"
	"fmt"
)

const (
	EventJoinTenant         = "join:tenant"
	EventAppointmentCreated = "appointment:created"
	EventAppointmentUpdated = "appointment:updated"
	EventAppointmentStatus  = "appointment:status"
)

// Message é o envelope trafegado pelos transportes.
type Message struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Kind identifies an appointment lifecycle event.
type Kind int

const (
	KindCreated Kind = iota + 1
	KindUpdated
	KindStatus
)

// Kinds lists every kind a subscription listens to.
var Kinds = []Kind{KindCreated, KindUpdated, KindStatus}

func (k Kind) String() string {
	switch k {
	case KindCreated:
		return "created"
	case KindUpdated:
		return "updated"
	case KindStatus:
		return "status"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// EventName é o nome do evento no canal realtime.
func (k Kind) EventName() string {
	switch k {
	case KindCreated:
		return EventAppointmentCreated
	case KindUpdated:
		return EventAppointmentUpdated
	case KindStatus:
		return EventAppointmentStatus
	default:
		return ""
	}
}

func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown event kind %q", s)
}

func (k Kind) MarshalJSON() ([]byte, error) {
	if k.EventName() == "" {
		return nil, fmt.Errorf("unknown event kind %d", int(k))
	}
	return json.Marshal(k.String())
}

func (k *Kind) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// AppointmentChangeEvent carries the server payload untouched. There is
// no sequence number: consumers treat it as a hint to refresh.
type AppointmentChangeEvent struct {
	Type Kind            `json:"type"`
	Data json.RawMessage `json:"data"`
}

func newChangeEvent(kind Kind, payload json.RawMessage) AppointmentChangeEvent {
	if len(payload) == 0 {
		payload = json.RawMessage("null")
	}
	return AppointmentChangeEvent{Type: kind, Data: payload}
}
