/*
Copyright 2025 the Unikorn Authors.
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package players drives the player management API.
package players

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/unikorn-cloud/player-harness/pkg/client"
	"github.com/unikorn-cloud/player-harness/pkg/config"
)

// ContextProvider supplies the shared request context, client.Lazy is the
// usual implementation.
type ContextProvider interface {
	Get() (*client.RequestContext, error)
}

// ContextProviderFunc adapts a function, such as client.Shared, to a
// ContextProvider.
type ContextProviderFunc func() (*client.RequestContext, error)

func (f ContextProviderFunc) Get() (*client.RequestContext, error) {
	return f()
}

// NoContent is the success shape of a delete.
type NoContent struct{}

// playerID is the body of get and delete requests, a nil ID is sent as null.
type playerID struct {
	PlayerID *int64 `json:"playerId"`
}

// Client maps player operations onto HTTP requests.  Every call is a fresh
// request, there are no retries or caching.
type Client struct {
	provider  ContextProvider
	settings  *config.Settings
	endpoints *Endpoints
	options   []client.ResponseOption
}

// Option modifies a client.
type Option func(*Client)

// WithResponseOptions are applied to every response after those of the
// request context.
func WithResponseOptions(options ...client.ResponseOption) Option {
	return func(c *Client) {
		c.options = append(c.options, options...)
	}
}

// New creates a client, the request context is not resolved until the first
// call.
func New(provider ContextProvider, settings *config.Settings, options ...Option) *Client {
	c := &Client{
		provider:  provider,
		settings:  settings,
		endpoints: NewEndpoints(settings.Endpoints),
	}

	for _, o := range options {
		o(c)
	}

	return c
}

// DefaultSupervisor is the configured supervisor login.
func (c *Client) DefaultSupervisor() string {
	return c.settings.SupervisorLogin
}

// DefaultAdmin is the configured admin login.
func (c *Client) DefaultAdmin() string {
	return c.settings.AdminLogin
}

// Endpoints exposes the expanded routes.
func (c *Client) Endpoints() *Endpoints {
	return c.endpoints
}

func do[T any](ctx context.Context, c *Client, method, path string, query url.Values, body any) (*client.Response[T], error) {
	rc, err := c.provider.Get()
	if err != nil {
		return nil, fmt.Errorf("getting request context: %w", err)
	}

	raw, err := rc.Do(ctx, method, path, query, body)
	if err != nil {
		return nil, err
	}

	options := append(rc.ResponseOptions(), c.options...)

	return client.NewResponse[T](raw, options...), nil
}

// createQuery encodes the set fields of a player as query parameters.
func createQuery(p Player) url.Values {
	query := url.Values{}

	if p.Age != nil {
		query.Set("age", strconv.Itoa(*p.Age))
	}

	fields := map[string]*string{
		"gender":     p.Gender,
		"login":      p.Login,
		"password":   p.Password,
		"role":       p.Role,
		"screenName": p.ScreenName,
	}

	for key, value := range fields {
		if value != nil {
			query.Set(key, *value)
		}
	}

	return query
}

// Create creates a player on behalf of editor, all fields are sent as query
// parameters.
func (c *Client) Create(ctx context.Context, editor string, p Player) (*client.Response[PlayerResponse], error) {
	path, err := c.endpoints.Create(editor)
	if err != nil {
		return nil, fmt.Errorf("creating player: %w", err)
	}

	response, err := do[PlayerResponse](ctx, c, http.MethodGet, path, createQuery(p), nil)
	if err != nil {
		return nil, fmt.Errorf("creating player: %w", err)
	}

	return response, nil
}

// GetByID reads a single player, the ID may be nil.
func (c *Client) GetByID(ctx context.Context, id *int64) (*client.Response[PlayerResponse], error) {
	response, err := do[PlayerResponse](ctx, c, http.MethodPost, c.endpoints.Get(), nil, playerID{PlayerID: id})
	if err != nil {
		return nil, fmt.Errorf("getting player: %w", err)
	}

	return response, nil
}

// GetAll lists every player.
func (c *Client) GetAll(ctx context.Context) (*client.Response[PlayersResponse], error) {
	response, err := do[PlayersResponse](ctx, c, http.MethodGet, c.endpoints.GetAll(), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("listing players: %w", err)
	}

	return response, nil
}

// Update applies a partial update on behalf of editor, only set fields are
// sent.
func (c *Client) Update(ctx context.Context, editor string, id int64, p Player) (*client.Response[PlayerResponse], error) {
	path, err := c.endpoints.Update(editor, id)
	if err != nil {
		return nil, fmt.Errorf("updating player: %w", err)
	}

	response, err := do[PlayerResponse](ctx, c, http.MethodPatch, path, nil, p)
	if err != nil {
		return nil, fmt.Errorf("updating player: %w", err)
	}

	return response, nil
}

// Delete removes a player on behalf of editor.
func (c *Client) Delete(ctx context.Context, editor string, id int64) (*client.Response[NoContent], error) {
	path, err := c.endpoints.Delete(editor)
	if err != nil {
		return nil, fmt.Errorf("deleting player: %w", err)
	}

	response, err := do[NoContent](ctx, c, http.MethodDelete, path, nil, playerID{PlayerID: &id})
	if err != nil {
		return nil, fmt.Errorf("deleting player: %w", err)
	}

	return response, nil
}
