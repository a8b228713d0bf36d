package trace

// PeerSummary aggregates one peer's activity over a run.
type PeerSummary struct {
	Peer            PeerID
	Quota           int
	Sent            int
	Received        int
	LastReceiptTime float64
}

// Summarize computes per-peer statistics in the order given.
// Safe for nil or empty input (returns an empty slice).
func Summarize(peers []*PeerState) []PeerSummary {
	summaries := make([]PeerSummary, 0, len(peers))
	for _, p := range peers {
		received := 0
		for _, receipts := range p.InboxBySource {
			received += len(receipts)
		}
		summaries = append(summaries, PeerSummary{
			Peer:            p.ID,
			Quota:           p.DeclaredQuota,
			Sent:            len(p.Outbox),
			Received:        received,
			LastReceiptTime: p.LastReceiptTime,
		})
	}
	return summaries
}
