// Package httpsubmit is the optional, swappable transport collaborator
// for shipping a ballot.Submission to a voting authority over HTTP
// (spec.md §1, §6.2). It is deliberately outside the cryptographic
// core: the core produces the JSON payload, this package only knows
// how to post it.
package httpsubmit

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	"github.com/xlab-crypto/ballotcore/ballot"
)

const (
	contentTypeHeader = "Content-Type"
	contentTypeJSON   = "application/json"
	voteTypeHeader    = "X-Vote-Type"
	voteTypePaillier  = "paillier-zkp"
)

// ErrUnexpectedStatus is returned when the authority responds with a
// non-2xx status code.
var ErrUnexpectedStatus = errors.New("httpsubmit: unexpected response status")

// Client posts ballot.Submission payloads to a fixed endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient builds a Client targeting endpoint. A nil httpClient falls
// back to http.DefaultClient.
func NewClient(endpoint string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{endpoint: endpoint, httpClient: httpClient}
}

// Submit POSTs sub as JSON with the headers spec.md §6.2 mandates and
// reports a non-2xx response as ErrUnexpectedStatus.
func (c *Client) Submit(ctx context.Context, sub *ballot.Submission) error {
	body, err := json.Marshal(sub)
	if err != nil {
		return errors.Wrap(err, "httpsubmit: marshaling submission")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "httpsubmit: building request")
	}
	req.Header.Set(contentTypeHeader, contentTypeJSON)
	req.Header.Set(voteTypeHeader, voteTypePaillier)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "httpsubmit: request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Wrapf(ErrUnexpectedStatus, "httpsubmit: status %d", resp.StatusCode)
	}
	return nil
}
