package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"bizdesk/internal/domain/casefile"
	"bizdesk/internal/domain/client"
	"bizdesk/internal/domain/payment"
	"bizdesk/internal/listquery"

	"github.com/google/uuid"
)

// List fetches one page of a list endpoint such as "/api/v1/clients".
func List[T any](ctx context.Context, c *Client, path string, q listquery.ListQuery) (listquery.PageResult[T], error) {
	var resp listquery.PageResponse[T]
	if _, err := c.do(ctx, http.MethodGet, path, listquery.ToQueryParams(q).Values(), nil, nil, &resp); err != nil {
		return listquery.PageResult[T]{}, err
	}
	return listquery.FromPageResponse(resp), nil
}

// Browse is List for interactive callers. When q points past the end of the
// list it fetches the previous page instead and returns the query it used.
func Browse[T any](ctx context.Context, c *Client, path string, q listquery.ListQuery) (listquery.PageResult[T], listquery.ListQuery, error) {
	page, err := List[T](ctx, c, path, q)
	if err != nil {
		return page, q, err
	}
	if !listquery.ShouldStepBack(q, page) {
		return page, q, nil
	}
	q = q.StepBack()
	page, err = List[T](ctx, c, path, q)
	return page, q, err
}

func (c *Client) ListClients(ctx context.Context, q listquery.ListQuery) (listquery.PageResult[client.Client], error) {
	return List[client.Client](ctx, c, "/api/v1/clients", q)
}

func (c *Client) ListCases(ctx context.Context, q listquery.ListQuery) (listquery.PageResult[casefile.Case], error) {
	return List[casefile.Case](ctx, c, "/api/v1/cases", q)
}

func (c *Client) ListPayments(ctx context.Context, q listquery.ListQuery) (listquery.PageResult[payment.Payment], error) {
	return List[payment.Payment](ctx, c, "/api/v1/payments", q)
}

// CaptureResult is the payment after a capture call.
type CaptureResult struct {
	Payment        payment.Payment
	IdempotencyKey string
	Replayed       bool
}

// CapturePayment captures a pending payment. An empty key gets a fresh one,
// so retries inside this call reuse it and stay idempotent.
func (c *Client) CapturePayment(ctx context.Context, id int64, key string) (*CaptureResult, error) {
	if key == "" {
		key = uuid.NewString()
	}
	res := &CaptureResult{IdempotencyKey: key}
	header := http.Header{"Idempotency-Key": {key}}
	respHeader, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/v1/payments/%d/capture", id), nil, header, nil, &res.Payment)
	if err != nil {
		return nil, err
	}
	res.Replayed = respHeader.Get("Idempotent-Replayed") == "true"
	return res, nil
}
