package blogql

// blogql.go provides the gql type for generating a GraphQL HTTP handler or schema

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/andrewwphillips/blogql/internal/field"
	"github.com/andrewwphillips/blogql/internal/handler"
	"github.com/andrewwphillips/blogql/internal/resolver"
	"github.com/andrewwphillips/blogql/internal/schema"
	"github.com/andrewwphillips/blogql/internal/store"
)

type (
	gql struct {
		store    *store.Store
		registry *schema.Registry
		opt      options

		h *handler.Handler // created on first use
	}

	// observer logs references that do not resolve and counts them in the metrics (if any)
	observer struct {
		logger  *slog.Logger
		metrics *Metrics
	}
)

// New creates a new instance that resolves queries on the blog schema using the entities of
// the store s.  Options (NoConcurrency, Logger, etc) control the resolver and handler.
func New(s *Store, opts ...func(*options)) gql {
	g := gql{store: s, registry: schema.Default()}
	for _, opt := range opts {
		opt(&g.opt)
	}
	if g.opt.logger == nil {
		g.opt.logger = slog.Default()
	}
	return g
}

// GetSchema returns the GraphQL schema (SDL)
func (g *gql) GetSchema() string {
	return g.registry.SDL()
}

// GetHandler returns the HTTP handler that handles GraphQL queries (including over websockets).
// An error is returned if no store was provided.
func (g *gql) GetHandler() (http.Handler, error) {
	return g.handler()
}

// Execute runs a single GraphQL request without going through HTTP
func (g *gql) Execute(ctx context.Context, r Request) (Result, error) {
	h, err := g.handler()
	if err != nil {
		return Result{}, err
	}
	return h.Execute(ctx, r), nil
}

func (g *gql) handler() (*handler.Handler, error) {
	if g.h != nil {
		return g.h, nil
	}
	if g.store == nil {
		return nil, errors.New("blogql: no store")
	}
	res, err := resolver.New(g.store, g.registry,
		resolver.NoConcurrency(g.opt.noConcurrency),
		resolver.Observe(observer{logger: g.opt.logger, metrics: g.opt.metrics}),
	)
	if err != nil {
		return nil, err
	}
	g.h = handler.New(g.registry.SDL(), res,
		handler.Logger(g.opt.logger),
		handler.Metrics(g.opt.metrics),
		handler.QueryTimeout(g.opt.queryTimeout),
		handler.InitialTimeout(g.opt.initialTimeout),
		handler.PingFrequency(g.opt.pingFrequency),
		handler.PongTimeout(g.opt.pongTimeout),
	)
	return g.h, nil
}

func (o observer) ReferenceMiss(relation field.Relation, id store.ID) {
	o.logger.Debug("reference not found", "relation", relation.String(), "id", string(id))
	o.metrics.ReferenceMiss(relation, id)
}
