// Package theme keeps the active storefront theme in memory and renders its
// palettes as CSS custom properties.
package theme

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/junaidrashid-git/storefront-api/realtime"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type State int

const (
	// StateEmpty: no active theme has been loaded.
	StateEmpty State = iota
	// StateApplied: the cached theme is the active one.
	StateApplied
	// StateStale: the cached theme was changed or deactivated and must be reloaded.
	StateStale
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateApplied:
		return "applied"
	case StateStale:
		return "stale"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

type Applier struct {
	db *gorm.DB

	mu     sync.RWMutex
	state  State
	active *models.Theme
}

func NewApplier(db *gorm.DB) *Applier {
	return &Applier{db: db}
}

func (a *Applier) State() State {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

// Active returns a copy of the cached theme.
func (a *Applier) Active() (models.Theme, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.active == nil {
		return models.Theme{}, false
	}
	return *a.active, true
}

// Load reads the active theme from the database. Having no active theme is
// not an error; the applier is left empty.
func (a *Applier) Load(ctx context.Context) error {
	var t models.Theme
	err := a.db.WithContext(ctx).Where("is_active = ?", true).Order("updated_at desc").First(&t).Error

	a.mu.Lock()
	defer a.mu.Unlock()

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		a.active = nil
		a.state = StateEmpty
		return nil
	case err != nil:
		return fmt.Errorf("load active theme: %w", err)
	}
	a.active = &t
	a.state = StateApplied
	return nil
}

// Variables returns the custom properties for mode, reloading first unless
// the cache is known to be current.
func (a *Applier) Variables(ctx context.Context, mode models.ColorMode) (map[string]string, error) {
	if a.State() != StateApplied {
		if err := a.Load(ctx); err != nil {
			return nil, err
		}
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	vars := make(map[string]string)
	if a.active == nil {
		return vars, nil
	}
	for k, v := range a.active.Palette(mode) {
		vars[k] = v
	}
	return vars, nil
}

// CSS renders the palette for mode as a :root rule.
func (a *Applier) CSS(ctx context.Context, mode models.ColorMode) (string, error) {
	vars, err := a.Variables(ctx, mode)
	if err != nil {
		return "", err
	}
	return RenderCSS(vars), nil
}

func RenderCSS(vars map[string]string) string {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, k := range keys {
		fmt.Fprintf(&b, "  --%s: %s;\n", strings.TrimPrefix(k, "--"), vars[k])
	}
	b.WriteString("}\n")
	return b.String()
}

// Apply folds one themes-table event into the cache.
func (a *Applier) Apply(ev realtime.Event) {
	var t models.Theme
	if err := json.Unmarshal(ev.Record, &t); err != nil {
		zap.L().Warn("ignoring malformed theme event", zap.String("type", ev.Type), zap.Error(err))
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	cached := a.active != nil && a.active.ID == t.ID
	switch {
	case ev.Type == realtime.EventDelete:
		if cached {
			a.state = StateStale
		}
	case t.IsActive:
		a.active = &t
		a.state = StateApplied
	case cached:
		a.state = StateStale
	}
}

// Watch applies theme events from hub until ctx is done or the hub is
// closed. When the hub drops the subscription the cache is marked stale
// and Watch subscribes again.
func (a *Applier) Watch(ctx context.Context, hub *realtime.Hub) {
	for {
		if !a.follow(ctx, hub) {
			return
		}
		a.markStale()
		if hub.Closed() {
			zap.L().Warn("theme feed closed")
			return
		}
		zap.L().Warn("theme feed dropped, resubscribing")
	}
}

// follow consumes one subscription. It reports false when ctx ended and
// true when the feed was closed under it.
func (a *Applier) follow(ctx context.Context, hub *realtime.Hub) bool {
	events, unsubscribe := hub.Subscribe(realtime.TopicThemes)
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return false
		case ev, ok := <-events:
			if !ok {
				return true
			}
			a.Apply(ev)
		}
	}
}

func (a *Applier) markStale() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state == StateApplied {
		a.state = StateStale
	}
}
