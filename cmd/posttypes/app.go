package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/goliatone/go-posttypes/pkg/host"
	"github.com/goliatone/go-posttypes/pkg/loader"
	"github.com/goliatone/go-posttypes/pkg/memhost"
	"github.com/goliatone/go-posttypes/pkg/metabox"
	"github.com/goliatone/go-posttypes/pkg/metastore"
	"github.com/goliatone/go-posttypes/pkg/metastore/postgres"
	"github.com/goliatone/go-posttypes/pkg/metastore/sqlite"
	"github.com/goliatone/go-posttypes/pkg/posttype"
)

// app is a site with every defined post type registered.
type app struct {
	site   *memhost.Site
	types  map[string]*posttype.PostType
	admin  *memhost.User
	logger *slog.Logger
	close  func() error
}

func newApp(ctx context.Context, cfg config, logger *slog.Logger) (*app, error) {
	var definitions fs.FS
	if cfg.Definitions != "" {
		if _, err := os.Stat(cfg.Definitions); err == nil {
			definitions = os.DirFS(cfg.Definitions)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("definitions %s: %w", cfg.Definitions, err)
		}
	}
	defs, err := loader.LoadFS(definitions)
	if err != nil {
		return nil, err
	}
	return newAppFromDefinitions(ctx, cfg, defs, logger)
}

func newAppFromDefinitions(ctx context.Context, cfg config, defs loader.Definitions, logger *slog.Logger) (*app, error) {
	options := []memhost.Option{
		memhost.WithLogger(logger),
		memhost.WithSecret(cfg.Secret),
		memhost.WithNonceLife(cfg.NonceLife),
	}

	store, closeStore, err := openStore(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if store != nil {
		options = append(options, memhost.WithStore(store))
	}

	site := memhost.New(options...)
	engine, err := site.Templates()
	if err != nil {
		_ = closeStore()
		return nil, err
	}
	built, err := loader.Build(site, defs,
		metabox.WithLogger(logger),
		metabox.WithTemplateRenderer(engine),
	)
	if err != nil {
		_ = closeStore()
		return nil, err
	}

	a := &app{
		site:   site,
		types:  make(map[string]*posttype.PostType, len(built)),
		admin:  adminUser(defs),
		logger: logger,
		close:  closeStore,
	}
	for _, pt := range built {
		pt.SetLogger(logger)
		pt.Update(true)
		a.types[pt.TypeID()] = pt
	}
	if err := site.Init(ctx); err != nil {
		_ = closeStore()
		return nil, fmt.Errorf("init: %w", err)
	}
	logger.DebugContext(ctx, "site ready", "post_types", site.PostTypes())
	return a, nil
}

// openStore picks the meta store for dsn: postgres:// and postgresql:// URLs
// connect to Postgres, any other non-empty value is a SQLite path, and an
// empty dsn keeps meta in memory.
func openStore(ctx context.Context, dsn string) (metastore.Store, func() error, error) {
	switch {
	case dsn == "":
		return nil, func() error { return nil }, nil
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		store, pool, err := postgres.Connect(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}
		return store, func() error { pool.Close(); return nil }, nil
	default:
		store, err := sqlite.Open(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	}
}

// adminUser may edit every defined post type.
func adminUser(defs loader.Definitions) *memhost.User {
	caps := map[string]bool{"edit_posts": true}
	for _, def := range defs.Types {
		for _, box := range def.MetaBoxes {
			if box.CapabilityType != "" {
				caps["edit_"+box.CapabilityType+"s"] = true
			}
		}
	}
	return &memhost.User{ID: 1, Login: "admin", Caps: caps}
}

// post returns the stored post, creating it when missing.
func (a *app) post(typeID string, id int64) (host.Post, error) {
	if _, ok := a.types[typeID]; !ok {
		return host.Post{}, fmt.Errorf("%w: %q", memhost.ErrUnknownPostType, typeID)
	}
	if id <= 0 {
		return host.Post{}, fmt.Errorf("post id must be positive, got %d", id)
	}
	if existing, ok := a.site.Post(id); ok {
		if existing.Type != typeID {
			return host.Post{}, fmt.Errorf("post %d is a %q, not a %q", id, existing.Type, typeID)
		}
		return existing, nil
	}
	return a.site.InsertPost(host.Post{ID: id, Type: typeID})
}

// storedMeta reads the meta value of every box attached to typeID.
func (a *app) storedMeta(ctx context.Context, typeID string, postID int64) (map[string][]string, error) {
	pt, ok := a.types[typeID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", memhost.ErrUnknownPostType, typeID)
	}
	out := make(map[string][]string)
	for _, box := range pt.MetaBoxes() {
		values, err := a.site.PostMeta(ctx, postID, box.MetaKey())
		if err != nil {
			return nil, err
		}
		out[box.MetaKey()] = values
	}
	return out, nil
}
