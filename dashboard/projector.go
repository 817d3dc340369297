// Package dashboard derives the two dashboard views from the transaction
// list and owns the reload cycle that keeps them current.
package dashboard

import "escrowdesk/transaction"

// Projection is the partition of one transaction list into the two disjoint
// dashboard sections.
type Projection struct {
	// Invitations are transactions the viewer has been invited to but has
	// not yet joined: status "inviting" with no role of their own.
	Invitations []transaction.ListItem
	// Active is everything not completed and not a pending invitation.
	Active []transaction.ListItem
}

// Partition splits items into pending invitations and active transactions.
// Completed transactions the viewer holds no role on land in neither set;
// they are dropped from view intentionally. Pure function of its input; the
// caller re-derives on every list change.
func Partition(items []transaction.ListItem) Projection {
	p := Projection{
		Invitations: []transaction.ListItem{},
		Active:      []transaction.ListItem{},
	}
	for _, item := range items {
		switch {
		case item.Invited():
			p.Invitations = append(p.Invitations, item)
		case item.Status != transaction.StatusCompleted:
			p.Active = append(p.Active, item)
		}
	}
	return p
}
