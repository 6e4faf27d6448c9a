package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/circed/circed/pkg/observability"
	"github.com/circed/circed/pkg/schematic"
)

// serveCommand creates the read-only document API server command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [document.json]",
		Short: "Serve a document over a read-only HTTP API",
		Long: `Serve a document over a read-only HTTP API.

Endpoints:

  GET /healthz       liveness probe
  GET /v1/model      layered draw model as JSON
  GET /v1/nets       nets with their vertices and ports
  GET /v1/floating   nets flagged as floating
  GET /v1/netlist    SPICE netlist as plain text
  GET /v1/snapshot   the document snapshot as stored on disk

The server is for viewers and tooling; editing stays in the terminal.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), args[0], addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8235", "listen address")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, input, addr string) error {
	doc, err := schematic.LoadFile(input, c.docConfig())
	if err != nil {
		return fmt.Errorf("load %s: %w", input, err)
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           newDocHandler(doc),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("serving document", "addr", addr, "doc", doc.ID())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// newDocHandler builds the router for one loaded document.
func newDocHandler(doc *schematic.Document) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(hookMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Get("/model", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, doc.DrawModel())
		})
		r.Get("/nets", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, doc.Nets())
		})
		r.Get("/floating", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, doc.FloatingNets())
		})
		r.Get("/netlist", func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			fmt.Fprint(w, doc.Netlist())
		})
		r.Get("/snapshot", func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if err := doc.Save(w); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
		})
	})

	return r
}

// hookMiddleware reports request lifecycle events to the observability hooks.
func hookMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		observability.HTTP().OnRequest(req.Context(), req.Method, req.URL.Path)
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		next.ServeHTTP(ww, req)
		observability.HTTP().OnResponse(req.Context(), req.Method, req.URL.Path, ww.Status(), time.Since(start))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
