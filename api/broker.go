package api

import (
	"context"
	"net/http"

	"escrowdesk/broker"
)

// FetchBrokerApplication returns the viewer's broker status and any
// previously submitted application.
func (c *Client) FetchBrokerApplication(ctx context.Context) (broker.Status, error) {
	var status broker.Status
	if err := c.doJSON(ctx, http.MethodGet, "/api/broker/application/", nil, &status); err != nil {
		return broker.Status{}, err
	}
	return status, nil
}

// SubmitBrokerApplication validates and uploads a broker application with its
// identity documents. Re-submission updates the existing application.
func (c *Client) SubmitBrokerApplication(ctx context.Context, app broker.Application, docs broker.Documents) (broker.Status, error) {
	if err := app.Validate(); err != nil {
		return broker.Status{}, err
	}

	body, contentType, err := broker.EncodeMultipart(app, docs)
	if err != nil {
		return broker.Status{}, err
	}

	var status broker.Status
	if err := c.do(ctx, http.MethodPost, "/api/broker/application/", body, contentType, &status); err != nil {
		return broker.Status{}, err
	}
	return status, nil
}
