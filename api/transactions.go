package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"escrowdesk/transaction"
)

// ListTransactions fetches every transaction visible to the viewer, newest
// first. The dashboard partitions the result; the client never filters
// server-side.
func (c *Client) ListTransactions(ctx context.Context) ([]transaction.ListItem, error) {
	items := []transaction.ListItem{}
	if err := c.doJSON(ctx, http.MethodGet, "/api/transactions/", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// CreateTransaction submits a finished draft. It satisfies transaction.Creator.
func (c *Client) CreateTransaction(ctx context.Context, req transaction.CreateRequest) (transaction.ListItem, error) {
	var created transaction.ListItem
	if err := c.doJSON(ctx, http.MethodPost, "/api/transactions/", req, &created); err != nil {
		return transaction.ListItem{}, err
	}
	return created, nil
}

// GetTransaction fetches the full detail view for one transaction.
func (c *Client) GetTransaction(ctx context.Context, id string) (transaction.Detail, error) {
	if id == "" {
		return transaction.Detail{}, fmt.Errorf("api: empty transaction id")
	}
	var detail transaction.Detail
	path := "/api/transactions/" + url.PathEscape(id) + "/"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &detail); err != nil {
		return transaction.Detail{}, err
	}
	return detail, nil
}

// inviteCounterpartyRequest is the invite body. The platform names the field
// counterparty_email.
type inviteCounterpartyRequest struct {
	CounterpartyEmail string `json:"counterparty_email"`
}

// InviteCounterparty invites the missing party on a double-broker deal.
// Returns the updated transaction; callers reconcile by reloading the list.
func (c *Client) InviteCounterparty(ctx context.Context, id, email string) (transaction.Detail, error) {
	if id == "" {
		return transaction.Detail{}, fmt.Errorf("api: empty transaction id")
	}
	var updated transaction.Detail
	path := "/api/transactions/" + url.PathEscape(id) + "/invite-counterparty/"
	body := inviteCounterpartyRequest{CounterpartyEmail: email}
	if err := c.doJSON(ctx, http.MethodPost, path, body, &updated); err != nil {
		return transaction.Detail{}, err
	}
	return updated, nil
}

// InvitationSummary is one row of the viewer's invitation list.
type InvitationSummary struct {
	ID               string                `json:"id"`
	Transaction      string                `json:"transaction"`
	TransactionTitle string                `json:"transaction_title,omitempty"`
	Role             transaction.PartyRole `json:"role"`
	Status           string                `json:"status"`
	ExpiresAt        string                `json:"expires_at,omitempty"`
	CreatedAt        string                `json:"created_at,omitempty"`
}

// ListInvitations fetches the viewer's pending invitations.
func (c *Client) ListInvitations(ctx context.Context) ([]InvitationSummary, error) {
	invites := []InvitationSummary{}
	if err := c.doJSON(ctx, http.MethodGet, "/api/invitations/", nil, &invites); err != nil {
		return nil, err
	}
	return invites, nil
}

// AcceptInvitation redeems an invitation token and returns the joined
// transaction's detail view.
func (c *Client) AcceptInvitation(ctx context.Context, token string) (transaction.Detail, error) {
	if token == "" {
		return transaction.Detail{}, fmt.Errorf("api: empty invitation token")
	}
	var detail transaction.Detail
	path := "/api/invitations/" + url.PathEscape(token) + "/accept/"
	if err := c.doJSON(ctx, http.MethodPost, path, nil, &detail); err != nil {
		return transaction.Detail{}, err
	}
	return detail, nil
}

// HealthStatus is the health endpoint body.
type HealthStatus struct {
	Status string `json:"status"`
}

// CheckHealth pings the platform health endpoint.
func (c *Client) CheckHealth(ctx context.Context) (HealthStatus, error) {
	var status HealthStatus
	if err := c.doJSON(ctx, http.MethodGet, "/api/health/", nil, &status); err != nil {
		return HealthStatus{}, err
	}
	return status, nil
}
