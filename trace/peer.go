package trace

// PeerID identifies a simulated node. Flat identities leave Group empty.
// Components hold the exact decimal strings captured from the log, so
// "07" and "7" are distinct peers.
type PeerID struct {
	Group string
	Local string
}

// FlatPeer returns a flat identity.
func FlatPeer(local string) PeerID {
	return PeerID{Local: local}
}

// GroupedPeer returns a (group, local) identity.
func GroupedPeer(group, local string) PeerID {
	return PeerID{Group: group, Local: local}
}

// String renders the identity the way the log does, without the /peer prefix.
func (p PeerID) String() string {
	if p.Group == "" {
		return p.Local
	}
	return p.Group + "-" + p.Local
}

// Mode reports the identity mode the peer is written in.
func (p PeerID) Mode() IdentityMode {
	if p.Group == "" {
		return IdentityFlat
	}
	return IdentityGrouped
}

// SendRecord is one observed send. Immutable after creation.
type SendRecord struct {
	Content string
	Time    float64
}

// ReceiptRecord is one matched receipt.
type ReceiptRecord struct {
	Content string
	Delay   float64 // receipt time - matched send time
}

// PeerState is everything the engine knows about one peer.
type PeerState struct {
	ID            PeerID
	DeclaredQuota int          // pending messages announced at initialization
	Outbox        []SendRecord // in send order

	// InboxBySource holds receipts keyed by the peer that originated them.
	// A source that never delivered anything has no entry.
	InboxBySource map[PeerID][]ReceiptRecord

	ReceiptCounter  int     // receipts applied so far
	LastReceiptTime float64 // time of the latest accepted receipt; 0 if none
}

func newPeerState(id PeerID, quota int) *PeerState {
	return &PeerState{
		ID:            id,
		DeclaredQuota: quota,
		Outbox:        make([]SendRecord, 0),
		InboxBySource: make(map[PeerID][]ReceiptRecord),
	}
}

// findSend returns the first send carrying content. Content identifiers are
// assumed unique per sender; on collision the earliest send wins.
func (p *PeerState) findSend(content string) (SendRecord, bool) {
	for _, s := range p.Outbox {
		if s.Content == content {
			return s, true
		}
	}
	return SendRecord{}, false
}

func (p *PeerState) hasReceipt(source PeerID, content string) bool {
	for _, r := range p.InboxBySource[source] {
		if r.Content == content {
			return true
		}
	}
	return false
}

// ReceivedFrom returns how many receipts originated at source.
func (p *PeerState) ReceivedFrom(source PeerID) int {
	return len(p.InboxBySource[source])
}
