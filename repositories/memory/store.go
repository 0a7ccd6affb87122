// Package memory provides the in-memory reference implementation of the
// repository ports. It backs the test suite and local development; the store
// is constructed once and injected, never package-level state.
package memory

import (
	"context"
	"strings"
	"sync"

	"geovista-api/models"
	"geovista-api/repositories"
)

// data holds every table. Entries are stored by value so reads hand out
// copies and writers replace whole entries.
type data struct {
	regions     map[string]models.Region
	places      map[string]models.Place
	checkins    map[string]models.Checkin
	regionFavs  map[string]models.RegionFavorite  // keyed userID|regionID
	placeFavs   map[string]models.PlaceFavorite   // keyed userID|placeID
	pins        map[string]models.RegionPin       // keyed userID|regionID
	permissions map[string]models.PlacePermission // keyed by permission id
	reports     map[string]models.Report
	users       map[string]models.User
	sessions    map[string]models.Session // keyed by token
	nextID      uint
}

func newData() *data {
	return &data{
		regions:     make(map[string]models.Region),
		places:      make(map[string]models.Place),
		checkins:    make(map[string]models.Checkin),
		regionFavs:  make(map[string]models.RegionFavorite),
		placeFavs:   make(map[string]models.PlaceFavorite),
		pins:        make(map[string]models.RegionPin),
		permissions: make(map[string]models.PlacePermission),
		reports:     make(map[string]models.Report),
		users:       make(map[string]models.User),
		sessions:    make(map[string]models.Session),
		nextID:      1,
	}
}

func (d *data) clone() *data {
	c := newData()
	c.nextID = d.nextID
	for k, v := range d.regions {
		c.regions[k] = v
	}
	for k, v := range d.places {
		c.places[k] = v
	}
	for k, v := range d.checkins {
		c.checkins[k] = v
	}
	for k, v := range d.regionFavs {
		c.regionFavs[k] = v
	}
	for k, v := range d.placeFavs {
		c.placeFavs[k] = v
	}
	for k, v := range d.pins {
		c.pins[k] = v
	}
	for k, v := range d.permissions {
		c.permissions[k] = v
	}
	for k, v := range d.reports {
		c.reports[k] = v
	}
	for k, v := range d.users {
		c.users[k] = v
	}
	for k, v := range d.sessions {
		c.sessions[k] = v
	}
	return c
}

// Store owns the backing maps and serializes conflicting writes, the same
// role row-level locking plays for the SQL implementation.
type Store struct {
	mu   sync.Mutex
	data *data
}

func NewStore() *Store {
	return &Store{data: newData()}
}

// lock acquires the store mutex unless the caller already holds it because
// the call happens inside a transaction closure.
func (s *Store) lock(inTx bool) func() {
	if inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) allocID() uint {
	id := s.data.nextID
	s.data.nextID++
	return id
}

func (s *Store) repos(inTx bool) *repositories.Repos {
	return &repositories.Repos{
		Regions:     &regionRepo{s: s, inTx: inTx},
		Places:      &placeRepo{s: s, inTx: inTx},
		Checkins:    &checkinRepo{s: s, inTx: inTx},
		RegionFavs:  &regionFavoriteRepo{s: s, inTx: inTx},
		PlaceFavs:   &placeFavoriteRepo{s: s, inTx: inTx},
		Pins:        &pinRepo{s: s, inTx: inTx},
		Permissions: &permissionRepo{s: s, inTx: inTx},
		Reports:     &reportRepo{s: s, inTx: inTx},
		Users:       &userRepo{s: s, inTx: inTx},
		Sessions:    &sessionRepo{s: s, inTx: inTx},
	}
}

// Repos returns the port bundle bound to this store.
func (s *Store) Repos() *repositories.Repos {
	return s.repos(false)
}

// Transactor returns the coordinator for this store. A failed closure
// restores the pre-transaction snapshot, so multi-step mutations never
// partially apply.
func (s *Store) Transactor() repositories.Transactor {
	return &transactor{s: s}
}

type transactor struct {
	s *Store
}

func (t *transactor) WithinTransaction(ctx context.Context, fn func(r *repositories.Repos) error) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	snapshot := t.s.data.clone()
	if err := fn(t.s.repos(true)); err != nil {
		t.s.data = snapshot
		return err
	}
	return nil
}

func pairKey(a, b string) string {
	return a + "|" + b
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// paginate slices items for the normalized page; out-of-range pages yield an
// empty slice, not an error.
func paginateBounds(total int, page repositories.Pagination) (int, int) {
	page = page.Normalize()
	start := page.Offset()
	if start >= total {
		return 0, 0
	}
	end := start + page.Limit
	if end > total {
		end = total
	}
	return start, end
}
