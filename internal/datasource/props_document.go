package datasource

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// PropsDocument is an ordered collection of event odds keyed by event
// ID. Downstream de-duplication keeps the first line seen for each
// player and market, so key order is part of the document's meaning
// and survives both decode and encode.
type PropsDocument struct {
	EventIDs []string
	Events   map[string]*Event
	Skipped  int // events dropped during decode for having the wrong shape
}

// NewPropsDocument creates an empty document
func NewPropsDocument() *PropsDocument {
	return &PropsDocument{Events: make(map[string]*Event)}
}

// Add appends an event, replacing in place if the ID is already present
func (d *PropsDocument) Add(id string, event *Event) {
	if d.Events == nil {
		d.Events = make(map[string]*Event)
	}
	if _, exists := d.Events[id]; !exists {
		d.EventIDs = append(d.EventIDs, id)
	}
	d.Events[id] = event
}

// Get returns the event stored under id
func (d *PropsDocument) Get(id string) (*Event, bool) {
	event, ok := d.Events[id]
	return event, ok
}

// Len returns the number of events in the document
func (d *PropsDocument) Len() int {
	return len(d.EventIDs)
}

// UnmarshalJSON decodes a props document while preserving key order.
// Events whose value has the wrong shape are counted and skipped;
// syntactically invalid JSON fails the whole document.
func (d *PropsDocument) UnmarshalJSON(data []byte) error {
	d.EventIDs = nil
	d.Events = make(map[string]*Event)
	d.Skipped = 0

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("read props document: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("props document must be a JSON object")
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("read event key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unexpected event key token %v", keyTok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("read event %s: %w", key, err)
		}

		var event Event
		if err := json.Unmarshal(raw, &event); err != nil {
			d.Skipped++
			continue
		}
		if event.ID == "" {
			event.ID = key
		}
		d.Add(key, &event)
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("read props document end: %w", err)
	}
	return nil
}

// MarshalJSON encodes the document as a JSON object in insertion order
func (d *PropsDocument) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range d.EventIDs {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(id)
		if err != nil {
			return nil, fmt.Errorf("encode event key %s: %w", id, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		event, err := json.Marshal(d.Events[id])
		if err != nil {
			return nil, fmt.Errorf("encode event %s: %w", id, err)
		}
		buf.Write(event)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// FilterBookmakers strips each event's bookmakers down to the allow
// list, preserving event order. Returns the number of bookmakers
// removed.
func (d *PropsDocument) FilterBookmakers(allowed []string) int {
	keep := make(map[string]bool, len(allowed))
	for _, key := range allowed {
		keep[key] = true
	}

	removed := 0
	for _, id := range d.EventIDs {
		event := d.Events[id]
		filtered := event.Bookmakers[:0]
		for _, bookmaker := range event.Bookmakers {
			if keep[bookmaker.Key] {
				filtered = append(filtered, bookmaker)
			} else {
				removed++
			}
		}
		event.Bookmakers = filtered
	}
	return removed
}

// LoadDocument reads a props document from disk
func LoadDocument(path string) (*PropsDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read props document: %w", err)
	}
	var doc PropsDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse props document: %w", err)
	}
	return &doc, nil
}

// Save writes the document to disk, creating parent directories
func (d *PropsDocument) Save(path string) error {
	data, err := json.MarshalIndent(d, "", "    ")
	if err != nil {
		return fmt.Errorf("encode props document: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create props directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write props document: %w", err)
	}
	return nil
}
