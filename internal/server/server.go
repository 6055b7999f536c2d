// Package server wires the demo blog application onto the view
// framework: it builds the component configs from the loaded
// configuration (failing fast on invalid parameters), mounts the post
// list view, and runs the HTTP server behind the middleware chain.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/viewcraft/viewcraft/internal/blog"
	"github.com/viewcraft/viewcraft/internal/component"
	"github.com/viewcraft/viewcraft/internal/components/filter"
	"github.com/viewcraft/viewcraft/internal/components/paginate"
	"github.com/viewcraft/viewcraft/internal/components/search"
	"github.com/viewcraft/viewcraft/internal/config"
	"github.com/viewcraft/viewcraft/internal/query"
	"github.com/viewcraft/viewcraft/internal/view"
)

// Server hosts the demo blog.
type Server struct {
	cfg        *config.Config
	store      *blog.Store
	configs    []component.Config
	httpServer *http.Server
}

// New builds the server. Component configs are constructed here, so
// invalid component parameters abort startup rather than surfacing on
// the first request.
func New(cfg *config.Config, store *blog.Store) (*Server, error) {
	configs, err := buildComponents(cfg.Blog)
	if err != nil {
		return nil, err
	}

	s := &Server{cfg: cfg, store: store, configs: configs}

	mux := http.NewServeMux()
	mux.Handle("/{$}", s.postListHandler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      panicRecovery(requestLogging(security(mux))),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	return s, nil
}

// buildComponents translates the YAML component settings into
// validated component configs. Sections left empty in the YAML are
// simply not installed.
func buildComponents(cfg config.BlogConfig) ([]component.Config, error) {
	var configs []component.Config

	if len(cfg.Search.Fields) > 0 {
		fields := make([]search.FieldSpec, len(cfg.Search.Fields))
		for i, f := range cfg.Search.Fields {
			matches := make([]search.MatchType, len(f.Matches))
			for j, m := range f.Matches {
				matches[j] = search.MatchType(m)
			}
			fields[i] = search.FieldSpec{
				Name:    f.Name,
				Label:   f.Label,
				Matches: matches,
				Default: search.MatchType(f.Default),
			}
		}
		sc, err := search.NewConfig(search.Options{
			Param:     cfg.Search.Param,
			MinLength: cfg.Search.MinLength,
			Fields:    fields,
		})
		if err != nil {
			return nil, err
		}
		configs = append(configs, sc)
	}

	if len(cfg.Filter.Fields) > 0 {
		fc, err := filter.NewConfig(filter.Options{
			Param:  cfg.Filter.Param,
			Fields: cfg.Filter.Fields,
		})
		if err != nil {
			return nil, err
		}
		configs = append(configs, fc)
	}

	// Pagination runs last so it slices the already-narrowed queryset.
	pc, err := paginate.NewConfig(paginate.Options{
		PerPage:      cfg.Pagination.PerPage,
		PageParam:    cfg.Pagination.Param,
		MaxPages:     cfg.Pagination.MaxPages,
		VisiblePages: cfg.Pagination.VisiblePages,
		Sequence:     100,
	})
	if err != nil {
		return nil, err
	}
	configs = append(configs, pc)

	return configs, nil
}

// postListHandler mounts the component-aware post list view. A fresh
// view instance is built for every request.
func (s *Server) postListHandler() http.Handler {
	return view.Handler(func(r *http.Request) view.Options {
		return view.Options{
			Source: func(r *http.Request) *query.Queryset {
				return s.store.Posts()
			},
			Collect: func(r *http.Request, qs *query.Queryset) (any, error) {
				return blog.Collect(r.Context(), qs)
			},
			Template: listTemplate,
			Configs:  s.configs,
		}
	})
}

// Handler exposes the full middleware-wrapped handler, used by tests.
func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

// Start runs the HTTP server until it is shut down.
func (s *Server) Start() error {
	log.Info().Str("addr", s.httpServer.Addr).Msg("server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
