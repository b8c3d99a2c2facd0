package memhost

import (
	"errors"
	"io/fs"
	"log/slog"
	"sync"
	"time"

	theme "github.com/goliatone/go-theme"
	"github.com/google/uuid"

	"github.com/goliatone/go-posttypes/pkg/host"
	"github.com/goliatone/go-posttypes/pkg/metastore"
	"github.com/goliatone/go-posttypes/pkg/metastore/memory"
	"github.com/goliatone/go-posttypes/pkg/render"
	rendertemplate "github.com/goliatone/go-posttypes/pkg/render/template"
)

// ErrUnknownPostType is returned for operations on unregistered post types.
var ErrUnknownPostType = errors.New("memhost: unknown post type")

// ErrUnknownPost is returned when a post ID is not known to the site.
var ErrUnknownPost = errors.New("memhost: unknown post")

// Option configures a Site.
type Option func(*Site)

// WithStore sets the meta store. Defaults to an in-memory store.
func WithStore(store metastore.Store) Option {
	return func(s *Site) {
		if store != nil {
			s.store = store
		}
	}
}

// WithSecret sets the nonce signing secret. Defaults to a random value, which
// invalidates issued nonces on restart.
func WithSecret(secret string) Option {
	return func(s *Site) {
		if secret != "" {
			s.secret = []byte(secret)
		}
	}
}

// WithNonceLife sets how long a nonce stays valid. Defaults to one day; a
// nonce is accepted during the tick it was issued in and the following one.
func WithNonceLife(life time.Duration) Option {
	return func(s *Site) {
		if life > 0 {
			s.nonceLife = life
		}
	}
}

// WithClock overrides the time source used for nonce ticks.
func WithClock(now func() time.Time) Option {
	return func(s *Site) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the site logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Site) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTemplatesFS layers templates over the embedded edit screen templates.
func WithTemplatesFS(fsys fs.FS) Option {
	return func(s *Site) {
		if fsys != nil {
			s.templateFS = append(s.templateFS, fsys)
		}
	}
}

// WithThemeSelector resolves panel and screen template overrides through a
// go-theme selector for the given theme and variant.
func WithThemeSelector(selector theme.ThemeSelector, name, variant string) Option {
	return func(s *Site) {
		s.themeSelector = selector
		s.themeName = name
		s.themeVariant = variant
	}
}

// WithTranslator translates type labels and meta box titles on the edit
// screen for locale.
func WithTranslator(translator render.Translator, locale string) Option {
	return func(s *Site) {
		s.translator = translator
		s.locale = locale
	}
}

// Site is an in-memory host.
type Site struct {
	logger    *slog.Logger
	store     metastore.Store
	secret    []byte
	nonceLife time.Duration
	now       func() time.Time

	templateFS    []fs.FS
	themeSelector theme.ThemeSelector
	themeName     string
	themeVariant  string

	translator render.Translator
	locale     string

	engineOnce sync.Once
	engine     rendertemplate.TemplateRenderer
	engineErr  error

	mu        sync.RWMutex
	types     map[string]*registeredType
	typeOrder []string
	actions   map[string][]action
	boxes     map[string][]host.Box
	posts     map[int64]host.Post
	nextPost  int64
}

var _ host.Host = (*Site)(nil)

// New creates a site applying any options.
func New(options ...Option) *Site {
	s := &Site{
		logger:    slog.New(slog.DiscardHandler),
		nonceLife: 24 * time.Hour,
		now:       time.Now,
		types:     make(map[string]*registeredType),
		actions:   make(map[string][]action),
		boxes:     make(map[string][]host.Box),
		posts:     make(map[int64]host.Post),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.store == nil {
		s.store = memory.New()
	}
	if len(s.secret) == 0 {
		s.secret = []byte(uuid.NewString())
	}
	return s
}

// Store returns the meta store backing the site.
func (s *Site) Store() metastore.Store {
	return s.store
}
