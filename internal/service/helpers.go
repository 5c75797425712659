package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/alexanderramin/trayflow/internal/domain"
	"github.com/alexanderramin/trayflow/internal/repository"
	"github.com/alexanderramin/trayflow/internal/scheduler"
)

// compiledRecipe is a recipe and the result of compiling it. Exactly one of
// timeline and err is set.
type compiledRecipe struct {
	recipe   *domain.Recipe
	timeline *scheduler.Timeline
	err      error
}

// timelineCache memoises compiled timelines by recipe id. Recipes are
// immutable once stored, so entries never go stale.
type timelineCache struct {
	recipes repository.RecipeRepo

	mu      sync.RWMutex
	entries map[string]compiledRecipe
}

func newTimelineCache(recipes repository.RecipeRepo) *timelineCache {
	return &timelineCache{recipes: recipes, entries: make(map[string]compiledRecipe)}
}

// get returns the recipe and its timeline. A recipe that fails to compile
// is returned together with an error matching domain.ErrInvalidRecipe.
func (c *timelineCache) get(ctx context.Context, recipeID string) (*domain.Recipe, *scheduler.Timeline, error) {
	c.mu.RLock()
	e, ok := c.entries[recipeID]
	c.mu.RUnlock()
	if ok {
		return e.recipe, e.timeline, e.err
	}

	r, err := c.recipes.GetByID(ctx, recipeID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading recipe %s: %w", recipeID, err)
	}
	e = c.store(r)
	return e.recipe, e.timeline, e.err
}

// getMany loads every id not cached yet with one query.
func (c *timelineCache) getMany(ctx context.Context, ids []string) (map[string]compiledRecipe, error) {
	out := make(map[string]compiledRecipe, len(ids))
	var missing []string
	c.mu.RLock()
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if e, ok := c.entries[id]; ok {
			out[id] = e
		} else {
			missing = append(missing, id)
		}
	}
	c.mu.RUnlock()

	if len(missing) == 0 {
		return out, nil
	}
	loaded, err := c.recipes.ListByIDs(ctx, missing)
	if err != nil {
		return nil, fmt.Errorf("loading recipes: %w", err)
	}
	for _, id := range missing {
		r, ok := loaded[id]
		if !ok {
			return nil, fmt.Errorf("recipe %s: %w", id, repository.ErrNotFound)
		}
		out[id] = c.store(r)
	}
	return out, nil
}

func (c *timelineCache) store(r *domain.Recipe) compiledRecipe {
	tl, err := scheduler.Compile(r)
	e := compiledRecipe{recipe: r, timeline: tl, err: err}
	c.mu.Lock()
	c.entries[r.ID] = e
	c.mu.Unlock()
	return e
}

// orderRecipes resolves the recipe of every order's product. Orders whose
// product has no recipe map to "".
func orderRecipes(ctx context.Context, products repository.ProductRepo, orders []*domain.StandingOrder) (map[string]string, error) {
	byProduct := make(map[string]string)
	out := make(map[string]string, len(orders))
	for _, o := range orders {
		recipeID, ok := byProduct[o.ProductID]
		if !ok {
			p, err := products.GetByID(ctx, o.ProductID)
			if err != nil {
				return nil, fmt.Errorf("loading product %s of order %s: %w", o.ProductID, o.ID, err)
			}
			if p.RecipeID != nil {
				recipeID = *p.RecipeID
			}
			byProduct[o.ProductID] = recipeID
		}
		out[o.ID] = recipeID
	}
	return out, nil
}

func filterOrders(orders []*domain.StandingOrder, ids []string) []*domain.StandingOrder {
	if len(ids) == 0 {
		return orders
	}
	scope := make(map[string]bool, len(ids))
	for _, id := range ids {
		scope[id] = true
	}
	var out []*domain.StandingOrder
	for _, o := range orders {
		if scope[o.ID] {
			out = append(out, o)
		}
	}
	return out
}

func nowOr(t *time.Time) time.Time {
	if t != nil {
		return t.UTC()
	}
	return time.Now().UTC()
}

// localDate is the civil date of t in loc. A nil loc means UTC.
func localDate(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return domain.DateOf(t.In(loc))
}

func checkWindow(from, to time.Time) error {
	if domain.DateOf(to).Before(domain.DateOf(from)) {
		return fmt.Errorf("%w: window end %s is before start %s",
			domain.ErrInvalidInput, domain.FormatDate(to), domain.FormatDate(from))
	}
	return nil
}

// guardFailure explains why a guarded write changed nothing: the row is
// gone, or it already left the expected state.
func guardFailure(lookupErr error, stateErr error) error {
	if lookupErr != nil {
		if errors.Is(lookupErr, repository.ErrNotFound) {
			return lookupErr
		}
		return fmt.Errorf("re-reading after guarded write: %w", lookupErr)
	}
	return stateErr
}
