package store

import (
	"encoding/base64"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/goliatone/go-tracksite/pkg/model"
)

// State is a point-in-time copy of the store contents.
type State struct {
	Name          string        `json:"name"`
	Fields        []model.Field `json:"fields"`
	Status        string        `json:"status"`
	StatusMessage string        `json:"statusMessage"`
	SVGRaw        string        `json:"svgRaw"`
}

// Listener receives the store state after every mutation.
type Listener func(State)

// Store is a mutex guarded field store. The zero value is ready to use.
type Store struct {
	mu        sync.RWMutex
	state     State
	listeners map[int]Listener
	nextID    int
}

// New returns an empty store.
func New() *Store {
	return &Store{}
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Subscribe registers fn for change notifications. The returned function
// removes the subscription and is safe to call more than once.
func (s *Store) Subscribe(fn Listener) func() {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	if s.listeners == nil {
		s.listeners = make(map[int]Listener)
	}
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// SetName stores the record name.
func (s *Store) SetName(name string) {
	s.mutate(func(st *State) { st.Name = name })
}

// SetFields replaces the field list. Each field's current value starts at its
// default value, or the empty string when no default exists.
func (s *Store) SetFields(fields []model.Field) {
	initialised := make([]model.Field, 0, len(fields))
	for _, field := range fields {
		field = field.Clone()
		field.CurrentValue = defaultOf(field)
		initialised = append(initialised, field)
	}
	s.mutate(func(st *State) { st.Fields = initialised })
}

// UpdateField replaces the current value of the field with the given id.
// Unknown ids leave the store untouched.
func (s *Store) UpdateField(id string, value any) {
	s.mutateIf(func(st *State) bool {
		idx := indexOf(st.Fields, id)
		if idx < 0 {
			return false
		}
		st.Fields[idx].CurrentValue = value
		return true
	})
}

// UploadFile reads r and stores its content as a data URL in the current
// value of the field with the given id. Unknown ids are ignored without
// reading the payload.
func (s *Store) UploadFile(id string, r io.Reader, contentType string) error {
	if r == nil {
		return fmt.Errorf("store: upload %q: missing reader", id)
	}
	s.mu.RLock()
	known := indexOf(s.state.Fields, id) >= 0
	s.mu.RUnlock()
	if !known {
		return nil
	}

	payload, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("store: upload %q: %w", id, err)
	}
	s.UpdateField(id, dataURL(contentType, payload))
	return nil
}

// ResetForm restores every field's current value to its default.
func (s *Store) ResetForm() {
	s.mutate(func(st *State) {
		for i := range st.Fields {
			st.Fields[i].CurrentValue = defaultOf(st.Fields[i])
		}
	})
}

// FieldValue returns the current value of the field with the given id. The
// boolean is false when no such field exists.
func (s *Store) FieldValue(id string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := indexOf(s.state.Fields, id)
	if idx < 0 {
		return nil, false
	}
	return s.state.Fields[idx].CurrentValue, true
}

// Fields returns a copy of the field list.
func (s *Store) Fields() []model.Field {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.CloneFields(s.state.Fields)
}

// SetSVGRaw stores the raw SVG payload of the record.
func (s *Store) SetSVGRaw(svg string) {
	s.mutate(func(st *State) { st.SVGRaw = svg })
}

// SetStatus stores the status code.
func (s *Store) SetStatus(status string) {
	s.mutate(func(st *State) { st.Status = status })
}

// SetStatusMessage stores the status message.
func (s *Store) SetStatusMessage(message string) {
	s.mutate(func(st *State) { st.StatusMessage = message })
}

// SetStatusWithMessage stores status and message in one mutation.
func (s *Store) SetStatusWithMessage(status, message string) {
	s.mutate(func(st *State) {
		st.Status = status
		st.StatusMessage = message
	})
}

func (s *Store) mutate(fn func(*State)) {
	s.mutateIf(func(st *State) bool {
		fn(st)
		return true
	})
}

func (s *Store) mutateIf(fn func(*State) bool) {
	s.mu.Lock()
	if !fn(&s.state) {
		s.mu.Unlock()
		return
	}
	snapshot := s.snapshotLocked()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}
}

func (s *Store) snapshotLocked() State {
	out := s.state
	out.Fields = model.CloneFields(s.state.Fields)
	if out.Fields == nil {
		out.Fields = []model.Field{}
	}
	return out
}

func defaultOf(field model.Field) any {
	if field.DefaultValue == nil {
		return ""
	}
	return field.DefaultValue
}

func indexOf(fields []model.Field, id string) int {
	for i := range fields {
		if fields[i].ID == id {
			return i
		}
	}
	return -1
}

func dataURL(contentType string, payload []byte) string {
	contentType = strings.TrimSpace(contentType)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(payload)
}
