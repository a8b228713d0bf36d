package trace

// Event defines the interface for all trace events.
// Each event carries the log Timestamp (in seconds) and an Apply method
// that advances engine state when invoked.
type Event interface {
	Timestamp() float64
	Apply(*Engine) error
}

// InitEvent announces a peer and the number of messages it will send.
type InitEvent struct {
	time  float64
	Peer  PeerID
	Quota int
}

// Timestamp returns the log time of the InitEvent.
func (e *InitEvent) Timestamp() float64 {
	return e.time
}

// Apply registers the peer. Re-initialization is fatal.
func (e *InitEvent) Apply(eng *Engine) error {
	eng.log.Debugf("<< Init: %s quota=%d at %gs", e.Peer, e.Quota, e.time)
	_, err := eng.registry.Create(e.Peer, e.Quota)
	return err
}

// SendEvent is a peer publishing one message.
type SendEvent struct {
	time    float64
	Peer    PeerID
	Content string
}

// Timestamp returns the log time of the SendEvent.
func (e *SendEvent) Timestamp() float64 {
	return e.time
}

// Apply appends the send to the sender's outbox.
func (e *SendEvent) Apply(eng *Engine) error {
	eng.log.Debugf("<< Send: %s content=%s at %gs", e.Peer, e.Content, e.time)
	sender, err := eng.registry.Get(e.Peer, "sender")
	if err != nil {
		return err
	}
	sender.Outbox = append(sender.Outbox, SendRecord{Content: e.Content, Time: e.time})
	return nil
}

// ReceiveEvent is a peer receiving a message originated by Source.
// Gateway is the neighbour the data arrived through; it is not verified.
type ReceiveEvent struct {
	time     float64
	Peer     PeerID
	Gateway  PeerID
	Source   PeerID
	Content  string
	Reported int // cumulative receipts the peer claims, including this one
}

// Timestamp returns the log time of the ReceiveEvent.
func (e *ReceiveEvent) Timestamp() float64 {
	return e.time
}

// Apply matches the receipt to its originating send and records the delay.
// Checks run in a fixed order: receiver known, cumulative count, source known,
// no self-delivery, send exists, not yet delivered.
func (e *ReceiveEvent) Apply(eng *Engine) error {
	eng.log.Debugf("<< Receive: %s from %s via %s content=%s at %gs",
		e.Peer, e.Source, e.Gateway, e.Content, e.time)

	receiver, err := eng.registry.Get(e.Peer, "receiver")
	if err != nil {
		return err
	}
	receiver.ReceiptCounter++
	if receiver.ReceiptCounter != e.Reported {
		return &ReceiptCountMismatchError{Peer: e.Peer, Reported: e.Reported, Tracked: receiver.ReceiptCounter}
	}
	source, err := eng.registry.Get(e.Source, "source")
	if err != nil {
		return err
	}
	if e.Source == e.Peer {
		return &SelfDeliveryError{Peer: e.Peer}
	}
	sent, ok := source.findSend(e.Content)
	if !ok {
		return &UnmatchedSendError{Receiver: e.Peer, Source: e.Source, Content: e.Content}
	}
	if receiver.hasReceipt(e.Source, e.Content) {
		return &DuplicateDeliveryError{Receiver: e.Peer, Source: e.Source, Content: e.Content}
	}

	delay := e.time - sent.Time
	receiver.InboxBySource[e.Source] = append(receiver.InboxBySource[e.Source],
		ReceiptRecord{Content: e.Content, Delay: delay})
	receiver.LastReceiptTime = e.time
	eng.delays.Record(e.time, delay)
	return nil
}
