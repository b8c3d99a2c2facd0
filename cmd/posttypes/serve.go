package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-posttypes/pkg/memhost"
)

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve edit screens over HTTP",
	Long: `Serve exposes the edit screens of every defined post type. Requests act as
the admin user; bind to a loopback address.

Routes:
  GET  /types                    registered post types
  GET  /posts/{type}/{id}/edit   edit screen
  POST /posts/{type}/{id}        save submitted form values
  GET  /posts/{type}/{id}/meta   stored meta as JSON`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "listen address (default: config addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.close()

	addr := flagAddr
	if addr == "" {
		addr = cfg.Addr
	}
	server := &http.Server{
		Addr:              addr,
		Handler:           a.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.InfoContext(ctx, "listening", "addr", addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

func (a *app) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(a.requestLogger)
	r.Use(a.asAdmin)

	r.Get("/types", a.handleTypes)
	r.Route("/posts/{type}/{id}", func(r chi.Router) {
		r.Get("/edit", a.handleEdit)
		r.Post("/", a.handleSave)
		r.Get("/meta", a.handleMeta)
	})
	return r
}

func (a *app) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		a.logger.InfoContext(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (a *app) asAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(memhost.WithUser(r.Context(), a.admin)))
	})
}

func (a *app) handleTypes(w http.ResponseWriter, r *http.Request) {
	type typeResponse struct {
		ID        string   `json:"id"`
		Name      string   `json:"name"`
		MetaBoxes []string `json:"meta_boxes"`
	}
	resp := make([]typeResponse, 0, len(a.types))
	for _, id := range a.site.PostTypes() {
		pt, ok := a.types[id]
		if !ok {
			continue
		}
		item := typeResponse{ID: id, MetaBoxes: []string{}}
		if object, ok := a.site.PostTypeObject(id); ok {
			item.Name = object.Labels["name"]
		}
		for _, box := range pt.MetaBoxes() {
			item.MetaBoxes = append(item.MetaBoxes, box.ID())
		}
		resp = append(resp, item)
	}
	render.JSON(w, r, resp)
}

func (a *app) handleEdit(w http.ResponseWriter, r *http.Request) {
	typeID, postID, ok := a.postParams(w, r)
	if !ok {
		return
	}
	post, err := a.post(typeID, postID)
	if err != nil {
		a.fail(w, r, http.StatusNotFound, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := a.site.RenderEditScreen(r.Context(), w, post.ID); err != nil {
		a.fail(w, r, http.StatusInternalServerError, err)
	}
}

func (a *app) handleSave(w http.ResponseWriter, r *http.Request) {
	typeID, postID, ok := a.postParams(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		a.fail(w, r, http.StatusBadRequest, err)
		return
	}
	post, err := a.post(typeID, postID)
	if err != nil {
		a.fail(w, r, http.StatusNotFound, err)
		return
	}

	ctx := memhost.WithRequest(r.Context(), r.PostForm)
	if err := a.site.SavePost(ctx, post.ID); err != nil {
		a.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/posts/%s/%d/edit", typeID, postID), http.StatusSeeOther)
}

func (a *app) handleMeta(w http.ResponseWriter, r *http.Request) {
	typeID, postID, ok := a.postParams(w, r)
	if !ok {
		return
	}
	stored, err := a.storedMeta(r.Context(), typeID, postID)
	if err != nil {
		a.fail(w, r, http.StatusNotFound, err)
		return
	}
	render.JSON(w, r, stored)
}

func (a *app) postParams(w http.ResponseWriter, r *http.Request) (string, int64, bool) {
	typeID := chi.URLParam(r, "type")
	postID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || postID <= 0 {
		a.fail(w, r, http.StatusBadRequest, fmt.Errorf("invalid post id %q", chi.URLParam(r, "id")))
		return "", 0, false
	}
	return typeID, postID, true
}

func (a *app) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	a.logger.WarnContext(r.Context(), "request failed", "status", status, "error", err)
	render.Status(r, status)
	render.JSON(w, r, map[string]string{"error": err.Error()})
}
