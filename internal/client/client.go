// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package client is a thin REST client for the binder API.

Every failure is returned as an [apperr.AppError]: server errors are rebuilt
from the response envelope, so callers can match them with errors.Is against
the binder sentinels exactly as they would in-process. Network failures become
TRANSPORT_ERROR and are safe to retry.
*/
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/taibuivan/pokebinder/internal/core/binder"
	"github.com/taibuivan/pokebinder/internal/core/dragdrop"
	"github.com/taibuivan/pokebinder/internal/core/grid"
	"github.com/taibuivan/pokebinder/internal/platform/apperr"
	"github.com/taibuivan/pokebinder/internal/platform/constants"
	"github.com/taibuivan/pokebinder/internal/platform/respond"
	"github.com/taibuivan/pokebinder/pkg/pagination"
)

// DefaultTimeout bounds a request when the caller's context has no deadline.
const DefaultTimeout = 10 * time.Second

// Client calls the /binders endpoints of one API server.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option configures a [Client].
type Option func(*Client)

// WithToken sends a bearer token with every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = timeout }
}

// New creates a client for the API rooted at baseURL (e.g. http://host/api/v1).
func New(baseURL string, options ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// # Binder Operations

// List returns one page of the caller's binder summaries.
func (c *Client) List(ctx context.Context, params pagination.Params) ([]binder.Summary, pagination.Meta, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(params.Page))
	query.Set("limit", strconv.Itoa(params.Limit))

	var envelope respond.PaginatedEnvelope
	var summaries []binder.Summary
	envelope.Data = &summaries

	if err := c.do(ctx, http.MethodGet, "/binders?"+query.Encode(), nil, &envelope); err != nil {
		return nil, pagination.Meta{}, err
	}
	return summaries, envelope.Meta, nil
}

// Create creates a binder.
func (c *Client) Create(ctx context.Context, request binder.CreateRequest) (*binder.Binder, error) {
	return c.binder(ctx, http.MethodPost, "/binders", request)
}

// Get fetches a binder by id or slug.
func (c *Client) Get(ctx context.Context, identifier string) (*binder.Binder, error) {
	return c.binder(ctx, http.MethodGet, binderPath(identifier), nil)
}

// Update renames, describes or changes the visibility of a binder.
func (c *Client) Update(ctx context.Context, id string, request binder.UpdateRequest) (*binder.Binder, error) {
	return c.binder(ctx, http.MethodPatch, binderPath(id), request)
}

// Delete removes a binder.
func (c *Client) Delete(ctx context.Context, id string) error {
	var result map[string]bool
	if err := c.do(ctx, http.MethodDelete, binderPath(id), nil, &respond.SuccessEnvelope{Data: &result}); err != nil {
		return err
	}
	if !result[binder.FieldSuccess] {
		return apperr.Internal(fmt.Errorf("client: delete of %s was not acknowledged", id))
	}
	return nil
}

// AddPage appends an empty page.
func (c *Client) AddPage(ctx context.Context, id string) (*binder.Binder, error) {
	return c.binder(ctx, http.MethodPost, binderPath(id)+"/pages", nil)
}

// Page fetches one clamped page view.
func (c *Client) Page(ctx context.Context, identifier string, page int) (binder.PageView, error) {
	var view binder.PageView
	err := c.do(ctx, http.MethodGet, binderPath(identifier)+"/pages/"+strconv.Itoa(page), nil, &respond.SuccessEnvelope{Data: &view})
	return view, err
}

// AddCard places a card.
func (c *Client) AddCard(ctx context.Context, id string, request binder.AddCardRequest) (*binder.Binder, error) {
	return c.binder(ctx, http.MethodPost, binderPath(id)+"/cards", request)
}

// RemoveCard clears a slot.
func (c *Client) RemoveCard(ctx context.Context, id string, address grid.Address) (*binder.Binder, error) {
	body := binder.RemoveCardBody{PageNumber: address.Page, Position: address.Position}
	return c.binder(ctx, http.MethodDelete, binderPath(id)+"/cards", body)
}

// MoveCard relocates a card to an empty slot.
func (c *Client) MoveCard(ctx context.Context, id string, source, destination grid.Address) (*binder.Binder, error) {
	return c.binder(ctx, http.MethodPatch, binderPath(id)+"/cards/move", binder.NewMoveCardBody(source, destination))
}

// Mover binds the move operation to one binder for a drag controller.
func (c *Client) Mover(id string) dragdrop.Mover {
	return dragdrop.MoverFunc(func(ctx context.Context, source, destination grid.Address) (*binder.Binder, error) {
		return c.MoveCard(ctx, id, source, destination)
	})
}

// # Transport

func binderPath(identifier string) string {
	return "/binders/" + url.PathEscape(identifier)
}

func (c *Client) binder(ctx context.Context, method, path string, body any) (*binder.Binder, error) {
	var result binder.Binder
	if err := c.do(ctx, method, path, body, &respond.SuccessEnvelope{Data: &result}); err != nil {
		return nil, err
	}
	return &result, nil
}

// do sends one request and decodes a 2xx envelope into out.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return apperr.Internal(fmt.Errorf("client: encode %s %s: %w", method, path, err))
		}
		reader = bytes.NewReader(raw)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return apperr.Internal(fmt.Errorf("client: build %s %s: %w", method, path, err))
	}
	request.Header.Set("Accept", "application/json")
	if body != nil {
		request.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)
	}
	if c.token != "" {
		request.Header.Set(constants.HeaderAuthorization, constants.BearerPrefix+c.token)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return apperr.Transport(fmt.Errorf("client: %s %s: %w", method, path, err))
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		return apperr.Transport(fmt.Errorf("client: read %s %s: %w", method, path, err))
	}

	if response.StatusCode >= http.StatusBadRequest {
		return decodeError(response.StatusCode, raw)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return apperr.Transport(fmt.Errorf("client: decode %s %s: %w", method, path, err))
	}
	return nil
}

// decodeError rebuilds the server's AppError from its envelope.
func decodeError(status int, raw []byte) *apperr.AppError {
	var envelope respond.ErrorEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil || envelope.Code == "" {
		if status >= http.StatusInternalServerError {
			return apperr.Transport(fmt.Errorf("client: unexpected %d response", status))
		}
		return apperr.New(status, http.StatusText(status), strings.TrimSpace(string(raw)))
	}

	return &apperr.AppError{
		Code:       envelope.Code,
		Message:    envelope.Error,
		HTTPStatus: status,
		Details:    envelope.Details,
	}
}
