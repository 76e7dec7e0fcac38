package metadata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/reconcile"
	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/services"
)

// SubtitleEvent links one subtitle key to the event that voices it.
type SubtitleEvent struct {
	Key   string
	Event string
}

// SubtitleEvents lists the sound map in file order. A key repeated in the
// document keeps its first position and its last value.
type SubtitleEvents []SubtitleEvent

// LoadSubtitleEvents reads the object stored under key in the JSON document at
// path.
func LoadSubtitleEvents(path, key string) (SubtitleEvents, error) {
	r, err := openText("event map", path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	events, err := ParseSubtitleEvents(r, key)
	if err != nil {
		return nil, services.Wrap(services.ErrMalformed, "event map", "parse", path, err)
	}
	return events, nil
}

// ParseSubtitleEvents decodes the object under the top-level key. Null, number
// and boolean values are skipped; array and object values are malformed.
func ParseSubtitleEvents(r io.Reader, key string) (SubtitleEvents, error) {
	var doc map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, err
	}
	raw, ok := doc[key]
	if !ok {
		return nil, fmt.Errorf("missing top-level key %q", key)
	}

	// Decode token by token so document order survives.
	decoder := json.NewDecoder(bytes.NewReader(raw))
	tok, err := decoder.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("%q is not an object", key)
	}

	var events SubtitleEvents
	var drop []bool
	index := make(map[string]int)
	for decoder.More() {
		tok, err := decoder.Token()
		if err != nil {
			return nil, err
		}
		name, _ := tok.(string)
		var value any
		if err := decoder.Decode(&value); err != nil {
			return nil, err
		}
		var event string
		skip := false
		switch v := value.(type) {
		case string:
			event = v
		case nil, float64, bool:
			// Never an event name; the key simply has no voice line.
			skip = true
		default:
			return nil, fmt.Errorf("%s.%s: expected string, got %T", key, name, value)
		}
		if i, seen := index[name]; seen {
			events[i].Event = event
			drop[i] = skip
			continue
		}
		index[name] = len(events)
		events = append(events, SubtitleEvent{Key: name, Event: event})
		drop = append(drop, skip)
	}
	if _, err := decoder.Token(); err != nil {
		return nil, err
	}

	kept := events[:0]
	for i, ev := range events {
		if !drop[i] {
			kept = append(kept, ev)
		}
	}
	return kept, nil
}

// BuildWanted registers, for every subtitle whose event is in files, each of
// that event's files as wanted with a zero counter. A file reachable through
// several subtitles or banks is added once per reference.
func BuildWanted(events SubtitleEvents, files EventFiles) *reconcile.Ledger {
	ledger := reconcile.NewLedger()
	for _, sub := range events {
		names, ok := files[sub.Event]
		if !ok {
			continue
		}
		for _, name := range names {
			ledger.AddWanted(name)
		}
	}
	return ledger
}
