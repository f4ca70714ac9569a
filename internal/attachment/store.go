package attachment

import (
	"fmt"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	beaconErrors "beacon/internal/errors"
)

// Store is a keyed collection of context snapshots with toggle-add/remove
// semantics. Iteration order is insertion order. At most one attachment
// per identity key exists at any time.
type Store struct {
	order []string
	items map[string]Attachment
}

func NewStore() *Store {
	return &Store{
		items: make(map[string]Attachment),
	}
}

// Has reports whether an attachment with the given id is present.
func (s *Store) Has(id string) bool {
	_, ok := s.items[id]
	return ok
}

// Get returns the attachment with the given id.
func (s *Store) Get(id string) (Attachment, bool) {
	a, ok := s.items[id]
	return a, ok
}

// Add inserts a new attachment with OriginalValue recorded as the text
// first captured. Inserting an existing key is never additive: callers
// check Has first, and a duplicate Add leaves the store unchanged.
func (s *Store) Add(t Type, kind, name, namespace, value string) {
	id := ID(t, kind, name)
	if s.Has(id) {
		return
	}
	s.items[id] = Attachment{
		Type:          t,
		Kind:          kind,
		Name:          name,
		Namespace:     namespace,
		Value:         value,
		OriginalValue: value,
	}
	s.order = append(s.order, id)
}

// Remove deletes the attachment if present.
func (s *Store) Remove(id string) {
	if !s.Has(id) {
		return
	}
	delete(s.items, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// SetValue edits an attachment's text in place, leaving OriginalValue as
// first captured.
func (s *Store) SetValue(id, value string) {
	a, ok := s.items[id]
	if !ok {
		return
	}
	a.Value = value
	s.items[id] = a
}

// Toggle is the single entry point for the interactive attach gesture:
// if the attachment is present it is removed, otherwise its snapshot is
// constructed from the resource and added. A snapshot failure reports an
// error and does not mutate the store.
func (s *Store) Toggle(t Type, resource *unstructured.Unstructured) (added bool, err error) {
	kind := resource.GetKind()
	name := resource.GetName()
	namespace := resource.GetNamespace()

	id := ID(t, kind, name)
	if s.Has(id) {
		s.Remove(id)
		return false, nil
	}

	var value string
	switch t {
	case TypeYAML:
		value, err = snapshotYAML(resource)
	case TypeYAMLStatus:
		value, err = snapshotStatus(resource)
	default:
		return false, beaconErrors.InvalidInput(fmt.Sprintf("no snapshot for attachment type %q", t))
	}
	if err != nil {
		return false, err
	}

	s.Add(t, kind, name, namespace, value)
	return true, nil
}

// List returns the attachments in insertion order.
func (s *Store) List() []Attachment {
	list := make([]Attachment, 0, len(s.order))
	for _, id := range s.order {
		list = append(list, s.items[id])
	}
	return list
}

// Len returns the number of attachments.
func (s *Store) Len() int {
	return len(s.items)
}

// Clear removes all attachments.
func (s *Store) Clear() {
	s.order = nil
	s.items = make(map[string]Attachment)
}
