package trace

// Registry is the directory of initialized peers for one run.
// Iteration order is initialization order.
type Registry struct {
	byID  map[PeerID]*PeerState
	order []*PeerState
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[PeerID]*PeerState)}
}

// Get returns the state of an initialized peer or an UnknownPeerError.
// role names the peer's part in the failing event for the error message.
func (r *Registry) Get(id PeerID, role string) (*PeerState, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, &UnknownPeerError{Peer: id, Role: role}
	}
	return p, nil
}

// Create inserts a fresh peer or fails with DuplicatePeerError.
func (r *Registry) Create(id PeerID, quota int) (*PeerState, error) {
	if _, exists := r.byID[id]; exists {
		return nil, &DuplicatePeerError{Peer: id}
	}
	p := newPeerState(id, quota)
	r.byID[id] = p
	r.order = append(r.order, p)
	return p, nil
}

// Peers returns all peers in initialization order.
func (r *Registry) Peers() []*PeerState {
	out := make([]*PeerState, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of initialized peers.
func (r *Registry) Len() int {
	return len(r.order)
}
