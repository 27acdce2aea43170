package bookingapi

import (
	"encoding/json"
	"strings"
	"time"
)

// slotShape reconhece um dos formatos de disponibilidade que a API
// devolve. O formato é decidido pelo primeiro elemento da lista.
type slotShape struct {
	name    string
	matches func(first json.RawMessage) bool
	extract func(item json.RawMessage, loc *time.Location) (string, bool)
}

// ordem importa: strings "HH:MM" antes de instantes ISO
var slotShapes = []slotShape{
	{name: "bare_time", matches: isBareTime, extract: extractBareTime},
	{name: "local_time_object", matches: hasKey("local_time"), extract: extractLocalTime},
	{name: "iso_instant", matches: isISOInstant, extract: extractISOInstant},
	{name: "utc_object", matches: hasKey("utc"), extract: extractUTCObject},
}

// NormalizeSlots converte o payload de horários em uma lista de "HH:MM"
// locais. Formato vazio ou desconhecido vira lista vazia.
func NormalizeSlots(raw json.RawMessage, loc *time.Location) []string {
	out := []string{}

	items, ok := slotItems(raw)
	if !ok || len(items) == 0 {
		return out
	}

	shape, ok := detectShape(items[0])
	if !ok {
		return out
	}

	for _, item := range items {
		if hm, ok := shape.extract(item, loc); ok {
			out = append(out, hm)
		}
	}
	return out
}

func detectShape(first json.RawMessage) (slotShape, bool) {
	for _, s := range slotShapes {
		if s.matches(first) {
			return s, true
		}
	}
	return slotShape{}, false
}

// slotItems aceita a lista pura ou o envelope {"slots": [...]}.
func slotItems(raw json.RawMessage) ([]json.RawMessage, bool) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err == nil {
		return items, true
	}

	var envelope struct {
		Slots []json.RawMessage `json:"slots"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Slots != nil {
		return envelope.Slots, true
	}
	return nil, false
}

// ------------------------------------------------------
// recognizers
// ------------------------------------------------------

func asString(item json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(item, &s); err != nil {
		return "", false
	}
	return strings.TrimSpace(s), true
}

func asObject(item json.RawMessage) (map[string]json.RawMessage, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(item, &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

func parseHM(s string) (string, bool) {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04"), true
		}
	}
	return "", false
}

// parseInstant aceita RFC3339 ou data-hora sem offset; sem offset o
// horário é lido no fuso zoneless.
func parseInstant(s string, zoneless *time.Location) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, s, zoneless); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func isBareTime(first json.RawMessage) bool {
	s, ok := asString(first)
	if !ok {
		return false
	}
	_, ok = parseHM(s)
	return ok
}

func isISOInstant(first json.RawMessage) bool {
	s, ok := asString(first)
	if !ok {
		return false
	}
	_, ok = parseInstant(s, time.UTC)
	return ok
}

func hasKey(key string) func(json.RawMessage) bool {
	return func(first json.RawMessage) bool {
		obj, ok := asObject(first)
		if !ok {
			return false
		}
		_, ok = obj[key]
		return ok
	}
}

func extractBareTime(item json.RawMessage, _ *time.Location) (string, bool) {
	s, ok := asString(item)
	if !ok {
		return "", false
	}
	return parseHM(s)
}

func extractLocalTime(item json.RawMessage, _ *time.Location) (string, bool) {
	obj, ok := asObject(item)
	if !ok {
		return "", false
	}
	s, ok := asString(obj["local_time"])
	if !ok {
		return "", false
	}
	return parseHM(s)
}

func extractISOInstant(item json.RawMessage, loc *time.Location) (string, bool) {
	s, ok := asString(item)
	if !ok {
		return "", false
	}
	return instantToLocal(s, orLocal(loc), loc)
}

func extractUTCObject(item json.RawMessage, loc *time.Location) (string, bool) {
	obj, ok := asObject(item)
	if !ok {
		return "", false
	}
	s, ok := asString(obj["utc"])
	if !ok {
		return "", false
	}
	// campo utc sem offset continua sendo UTC
	return instantToLocal(s, time.UTC, loc)
}

func instantToLocal(s string, zoneless, loc *time.Location) (string, bool) {
	t, ok := parseInstant(s, zoneless)
	if !ok {
		return "", false
	}
	return t.In(orLocal(loc)).Format("15:04"), true
}

func orLocal(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}
