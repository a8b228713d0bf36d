package trace

import (
	"errors"
	"fmt"
)

// ErrNotVerified is returned by Finalize when Verify has not succeeded.
var ErrNotVerified = errors.New("trace not verified")

// UnrecognizedLineError reports a line that matches none of the grammars.
type UnrecognizedLineError struct {
	Line string
	Err  error // numeric capture that failed to parse, if any
}

func (e *UnrecognizedLineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot recognize line %q: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("cannot recognize line %q", e.Line)
}

func (e *UnrecognizedLineError) Unwrap() error { return e.Err }

// DuplicatePeerError reports a second initialization of the same peer.
type DuplicatePeerError struct {
	Peer PeerID
}

func (e *DuplicatePeerError) Error() string {
	return fmt.Sprintf("peer %s already exists", e.Peer)
}

// UnknownPeerError reports an event referencing a peer never initialized.
type UnknownPeerError struct {
	Peer PeerID
	Role string // "sender", "receiver" or "source"
}

func (e *UnknownPeerError) Error() string {
	if e.Role == "" {
		return fmt.Sprintf("peer %s does not exist", e.Peer)
	}
	return fmt.Sprintf("%s peer %s does not exist", e.Role, e.Peer)
}

// ReceiptCountMismatchError reports a self-reported cumulative receipt count
// that disagrees with the locally tracked counter.
type ReceiptCountMismatchError struct {
	Peer     PeerID
	Reported int
	Tracked  int
}

func (e *ReceiptCountMismatchError) Error() string {
	return fmt.Sprintf("received count incorrect for peer %s: log reports %d, tracked %d",
		e.Peer, e.Reported, e.Tracked)
}

// SelfDeliveryError reports a peer receiving its own message.
type SelfDeliveryError struct {
	Peer PeerID
}

func (e *SelfDeliveryError) Error() string {
	return fmt.Sprintf("message to peer itself: %s", e.Peer)
}

// UnmatchedSendError reports a receipt whose content the source never sent.
type UnmatchedSendError struct {
	Receiver PeerID
	Source   PeerID
	Content  string
}

func (e *UnmatchedSendError) Error() string {
	return fmt.Sprintf("message %s never sent by %s (received by %s)", e.Content, e.Source, e.Receiver)
}

// DuplicateDeliveryError reports the same (source, content) delivered twice
// to one receiver.
type DuplicateDeliveryError struct {
	Receiver PeerID
	Source   PeerID
	Content  string
}

func (e *DuplicateDeliveryError) Error() string {
	return fmt.Sprintf("duplicate message %s from %s received by %s", e.Content, e.Source, e.Receiver)
}

// QuotaMismatchError reports a peer whose send count differs from its
// declared pending-message count.
type QuotaMismatchError struct {
	Peer     PeerID
	Declared int
	Actual   int
}

func (e *QuotaMismatchError) Error() string {
	return fmt.Sprintf("number of sent messages not matched: %s: declared %d, actual %d",
		e.Peer, e.Declared, e.Actual)
}

// DeliveryCountMismatchError reports a receiver that did not get every
// message a sender sent.
type DeliveryCountMismatchError struct {
	Receiver PeerID
	Sender   PeerID
	Sent     int
	Received int
}

func (e *DeliveryCountMismatchError) Error() string {
	return fmt.Sprintf("number of sent messages by %s (%d) does not match that received by %s (%d)",
		e.Sender, e.Sent, e.Receiver, e.Received)
}

// LineError attaches the log position to an event failure.
type LineError struct {
	LineNo int // 1-based, counting only non-empty lines
	Line   string
	Err    error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.LineNo, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }
