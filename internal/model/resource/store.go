package resource

// Store exposes catalog retrieval for handlers and the entitlement ledger.
type Store interface {
	List() []Resource
	ListByKind(kind Kind) []Resource
	FindByID(id string) (Resource, bool)
}

// MemoryStore implements Store with an in-memory slice, suitable for MVP.
type MemoryStore struct {
	items []Resource
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied catalog.
func NewMemoryStore(items []Resource) *MemoryStore {
	return &MemoryStore{items: append([]Resource(nil), items...)}
}

// List returns the full catalog.
func (s *MemoryStore) List() []Resource {
	return append([]Resource(nil), s.items...)
}

// ListByKind returns the catalog entries of one kind, in seed order.
func (s *MemoryStore) ListByKind(kind Kind) []Resource {
	var out []Resource
	for _, item := range s.items {
		if item.Kind == kind {
			out = append(out, item)
		}
	}
	return out
}

// FindByID looks up a catalog entry by identifier.
func (s *MemoryStore) FindByID(id string) (Resource, bool) {
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return Resource{}, false
}

// FromPersona views a coach as an unlockable resource. Coaches carry no coin
// price; access is either free or subscription-gated.
func FromPersona(id string, name string, gated bool) Resource {
	return Resource{ID: id, Kind: KindCoach, Title: name, GatedBySubscription: gated}
}
