// Package rest implements the service.Service interface over the remote
// HTTP collection endpoint.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/api/googleapi"

	"todos/internal/config"
	"todos/internal/observability"
	"todos/internal/service"
)

// CollectionPath is the collection root below the base URL.
const CollectionPath = "/todos"

// errTimedOut marks requests cut off by the caller's deadline.
var errTimedOut = errors.New("request timed out")

// Client implements service.Service using plain HTTP and JSON.
type Client struct {
	http    *http.Client
	baseURL string
	log     zerolog.Logger
}

// New creates a client for the configured base URL.
func New(cfg *config.Config, logger zerolog.Logger) *Client {
	return NewWithHTTPClient(cfg.BaseURL, http.DefaultClient, logger)
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(baseURL string, httpClient *http.Client, logger zerolog.Logger) *Client {
	return &Client{
		http:    httpClient,
		baseURL: baseURL,
		log:     observability.Component(logger, "rest"),
	}
}

// FetchAll returns the whole collection.
func (c *Client) FetchAll(ctx context.Context) (service.Page, error) {
	var page service.Page
	if err := c.do(ctx, "fetch", http.MethodGet, CollectionPath, nil, &page); err != nil {
		return service.Page{}, err
	}
	return page, nil
}

// Create creates a new todo.
func (c *Client) Create(ctx context.Context, draft service.Draft) (service.Item, error) {
	var item service.Item
	if err := c.do(ctx, "create", http.MethodPost, CollectionPath+"/add", draft, &item); err != nil {
		return service.Item{}, err
	}
	return item, nil
}

// Remove deletes a todo.
func (c *Client) Remove(ctx context.Context, id int64) (service.Item, error) {
	var item service.Item
	if err := c.do(ctx, "remove", http.MethodDelete, itemPath(id), nil, &item); err != nil {
		return service.Item{}, err
	}
	return item, nil
}

// Update applies a partial update.
func (c *Client) Update(ctx context.Context, id int64, fields service.Fields) (service.Item, error) {
	var item service.Item
	if err := c.do(ctx, "update", http.MethodPut, itemPath(id), fields, &item); err != nil {
		return service.Item{}, err
	}
	return item, nil
}

func itemPath(id int64) string {
	return CollectionPath + "/" + strconv.FormatInt(id, 10)
}

// do performs one request/response exchange. It logs before sending and after
// receiving, and returns *service.TransportError on any failure. There is no
// deadline of its own; ctx and the HTTP client govern how long it waits.
func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	url := c.baseURL + path
	fail := func(status int, err error) error {
		return &service.TransportError{Op: op, Method: method, URL: url, Status: status, Err: err}
	}

	var payload []byte
	var body io.Reader
	if in != nil {
		var err error
		payload, err = json.Marshal(in)
		if err != nil {
			return fail(0, fmt.Errorf("encode request: %w", err))
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fail(0, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	event := c.log.Debug().Str("op", op).Str("method", method).Str("url", url)
	if payload != nil {
		event = event.RawJSON("body", payload)
	}
	event.Msg("request")

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		err = wrapError(err)
		observability.RecordRemoteRequest(op, method, 0, time.Since(start), false)
		c.log.Debug().Str("op", op).Err(err).Dur("duration", time.Since(start)).Msg("response")
		return fail(0, err)
	}
	defer res.Body.Close()

	if err := googleapi.CheckResponse(res); err != nil {
		observability.RecordRemoteRequest(op, method, res.StatusCode, time.Since(start), false)
		event := c.log.Debug().Str("op", op).Int("status", res.StatusCode).Bool("ok", false)
		var gerr *googleapi.Error
		if errors.As(err, &gerr) {
			event = event.Str("body", gerr.Body)
		}
		event.Dur("duration", time.Since(start)).Msg("response")
		return fail(res.StatusCode, err)
	}

	data, err := io.ReadAll(res.Body)
	observability.RecordRemoteRequest(op, method, res.StatusCode, time.Since(start), err == nil)
	if err != nil {
		return fail(0, fmt.Errorf("read response: %w", wrapError(err)))
	}
	c.log.Debug().
		Str("op", op).
		Int("status", res.StatusCode).
		Bool("ok", true).
		Str("body", string(data)).
		Dur("duration", time.Since(start)).
		Msg("response")

	if err := json.Unmarshal(data, out); err != nil {
		return fail(0, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// wrapError maps transport errors to user-friendly ones.
func wrapError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", errTimedOut, err)
	}
	return err
}
