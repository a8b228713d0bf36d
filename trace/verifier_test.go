package trace

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildRegistry creates peers with the given quotas and sends, in order.
func buildRegistry(t *testing.T, quotas map[string]int, order []string, sends map[string][]string) *Registry {
	t.Helper()
	r := NewRegistry()
	for _, id := range order {
		p, err := r.Create(FlatPeer(id), quotas[id])
		require.NoError(t, err)
		for _, content := range sends[id] {
			p.Outbox = append(p.Outbox, SendRecord{Content: content})
		}
	}
	return r
}

func deliver(t *testing.T, r *Registry, to, from string, contents ...string) {
	t.Helper()
	p, err := r.Get(FlatPeer(to), "receiver")
	require.NoError(t, err)
	for _, c := range contents {
		p.InboxBySource[FlatPeer(from)] = append(p.InboxBySource[FlatPeer(from)], ReceiptRecord{Content: c})
	}
}

func TestVerify_AllDelivered_NoViolations(t *testing.T) {
	r := buildRegistry(t,
		map[string]int{"a": 1, "b": 2},
		[]string{"a", "b"},
		map[string][]string{"a": {"1"}, "b": {"2", "3"}})
	deliver(t, r, "b", "a", "1")
	deliver(t, r, "a", "b", "2", "3")

	assert.Empty(t, verifyRegistry(r, true))
	assert.Empty(t, verifyRegistry(r, false))
}

func TestVerify_MissingInboxWithEmptyOutbox_Passes(t *testing.T) {
	// GIVEN a sender that never sent anything
	r := buildRegistry(t,
		map[string]int{"a": 0, "b": 0},
		[]string{"a", "b"},
		nil)

	// THEN no inbox is required
	assert.Empty(t, verifyRegistry(r, true))
}

func TestVerify_MissingInboxWithSends_CountsAsZero(t *testing.T) {
	r := buildRegistry(t,
		map[string]int{"a": 2, "b": 0},
		[]string{"a", "b"},
		map[string][]string{"a": {"1", "2"}})

	violations := verifyRegistry(r, true)
	require.Len(t, violations, 1)

	var mismatch *DeliveryCountMismatchError
	require.True(t, errors.As(violations[0], &mismatch))
	assert.Equal(t, FlatPeer("b"), mismatch.Receiver)
	assert.Equal(t, FlatPeer("a"), mismatch.Sender)
	assert.Equal(t, 2, mismatch.Sent)
	assert.Equal(t, 0, mismatch.Received)
}

func TestVerify_QuotasCheckedBeforeDeliveries(t *testing.T) {
	// GIVEN an undelivered message from the first peer and a quota shortfall
	// on the last peer
	r := buildRegistry(t,
		map[string]int{"a": 1, "b": 0, "c": 5},
		[]string{"a", "b", "c"},
		map[string][]string{"a": {"1"}})
	deliver(t, r, "c", "a", "1")

	// WHEN verified fail-fast
	violations := verifyRegistry(r, true)

	// THEN the quota violation is reported first
	require.Len(t, violations, 1)
	var quota *QuotaMismatchError
	require.True(t, errors.As(violations[0], &quota))
	assert.Equal(t, FlatPeer("c"), quota.Peer)

	// AND collecting everything reports both kinds in order
	all := verifyRegistry(r, false)
	require.Len(t, all, 2)
	assert.IsType(t, &QuotaMismatchError{}, all[0])
	assert.IsType(t, &DeliveryCountMismatchError{}, all[1])
}

func TestVerify_ExtraReceiptsAlsoMismatch(t *testing.T) {
	r := buildRegistry(t,
		map[string]int{"a": 1, "b": 0},
		[]string{"a", "b"},
		map[string][]string{"a": {"1"}})
	deliver(t, r, "b", "a", "1", "x")

	violations := verifyRegistry(r, true)
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0].Error(), "(1)")
	assert.Contains(t, violations[0].Error(), "(2)")
}
