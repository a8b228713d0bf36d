package trace

// checkQuotas reports every peer whose outbox length differs from its
// declared quota, in initialization order.
func checkQuotas(peers []*PeerState, failFast bool) []error {
	var violations []error
	for _, p := range peers {
		if len(p.Outbox) != p.DeclaredQuota {
			violations = append(violations, &QuotaMismatchError{
				Peer: p.ID, Declared: p.DeclaredQuota, Actual: len(p.Outbox),
			})
			if failFast {
				return violations
			}
		}
	}
	return violations
}

// checkDeliveries reports every ordered (receiver, sender) pair where the
// receiver did not get exactly the sender's outbox. A missing inbox counts
// as zero receipts.
func checkDeliveries(peers []*PeerState, failFast bool) []error {
	var violations []error
	for _, receiver := range peers {
		for _, sender := range peers {
			if receiver.ID == sender.ID {
				continue
			}
			sent := len(sender.Outbox)
			received := receiver.ReceivedFrom(sender.ID)
			if sent != received {
				violations = append(violations, &DeliveryCountMismatchError{
					Receiver: receiver.ID, Sender: sender.ID, Sent: sent, Received: received,
				})
				if failFast {
					return violations
				}
			}
		}
	}
	return violations
}

// verifyRegistry runs both whole-trace passes. All quotas are checked before
// any delivery count. With failFast it stops at the first violation.
func verifyRegistry(r *Registry, failFast bool) []error {
	peers := r.Peers()
	violations := checkQuotas(peers, failFast)
	if failFast && len(violations) > 0 {
		return violations
	}
	return append(violations, checkDeliveries(peers, failFast)...)
}
