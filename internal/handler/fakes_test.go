package handler

import (
	"context"
	"sort"
	"time"

	"github.com/rmarchan/cine-gestion/internal/repository"
)

// fakeStore is an in-memory Store implementation for handler tests.
// setID assigns the generated primary key to the entity.
type fakeStore[T any] struct {
	items  map[uint64]T
	nextID uint64
	setID  func(*T, uint64)
	err    error // when set, every operation fails with it
}

func newFakeStore[T any](setID func(*T, uint64)) *fakeStore[T] {
	return &fakeStore[T]{items: map[uint64]T{}, setID: setID}
}

func (s *fakeStore[T]) Create(ctx context.Context, item T) (T, error) {
	var zero T
	if s.err != nil {
		return zero, s.err
	}
	s.nextID++
	s.setID(&item, s.nextID)
	s.items[s.nextID] = item
	return item, nil
}

func (s *fakeStore[T]) List(ctx context.Context) ([]T, error) {
	if s.err != nil {
		return nil, s.err
	}
	ids := make([]uint64, 0, len(s.items))
	for id := range s.items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.items[id])
	}
	return out, nil
}

func (s *fakeStore[T]) Get(ctx context.Context, id uint64) (T, error) {
	var zero T
	if s.err != nil {
		return zero, s.err
	}
	item, ok := s.items[id]
	if !ok {
		return zero, repository.ErrNotFound
	}
	return item, nil
}

func (s *fakeStore[T]) Update(ctx context.Context, id uint64, item T) (T, error) {
	var zero T
	if s.err != nil {
		return zero, s.err
	}
	if _, ok := s.items[id]; !ok {
		return zero, repository.ErrNotFound
	}
	s.setID(&item, id)
	s.items[id] = item
	return item, nil
}

func (s *fakeStore[T]) Delete(ctx context.Context, id uint64) (T, error) {
	var zero T
	if s.err != nil {
		return zero, s.err
	}
	item, ok := s.items[id]
	if !ok {
		return zero, repository.ErrNotFound
	}
	delete(s.items, id)
	return item, nil
}

// fakeOrderStore adds the product reference check and the order-only
// operations on top of the generic fake.
type fakeOrderStore struct {
	*fakeStore[repository.Order]
	products *fakeStore[repository.Product]
}

func newFakeOrderStore(products *fakeStore[repository.Product]) *fakeOrderStore {
	return &fakeOrderStore{
		fakeStore: newFakeStore(func(o *repository.Order, id uint64) { o.ID = id }),
		products:  products,
	}
}

func (s *fakeOrderStore) checkProduct(productID uint64) error {
	if _, ok := s.products.items[productID]; !ok {
		return repository.Invalid("product not found")
	}
	return nil
}

func (s *fakeOrderStore) Create(ctx context.Context, o repository.Order) (repository.Order, error) {
	if err := s.checkProduct(o.ProductID); err != nil {
		return repository.Order{}, err
	}
	o.OrderDate = time.Now().UTC()
	return s.fakeStore.Create(ctx, o)
}

func (s *fakeOrderStore) Update(ctx context.Context, id uint64, o repository.Order) (repository.Order, error) {
	if err := s.checkProduct(o.ProductID); err != nil {
		return repository.Order{}, err
	}
	return s.fakeStore.Update(ctx, id, o)
}

func (s *fakeOrderStore) Latest(ctx context.Context) ([]repository.Order, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(all) > 5 {
		all = all[:5]
	}
	return all, nil
}

func (s *fakeOrderStore) DeleteRelation(ctx context.Context, orderID, productID uint64) (repository.Order, error) {
	o, ok := s.items[orderID]
	if !ok || o.ProductID != productID {
		return repository.Order{}, repository.ErrNotFound
	}
	delete(s.items, orderID)
	return o, nil
}

// fakeShowtimeStore adds the movie and room reference checks on top of
// the generic fake, in the same order the real gateway runs them.
type fakeShowtimeStore struct {
	*fakeStore[repository.Showtime]
	movies *fakeStore[repository.Movie]
	rooms  *fakeStore[repository.Room]
}

func newFakeShowtimeStore(movies *fakeStore[repository.Movie], rooms *fakeStore[repository.Room]) *fakeShowtimeStore {
	return &fakeShowtimeStore{
		fakeStore: newFakeStore(func(f *repository.Showtime, id uint64) { f.ID = id }),
		movies:    movies,
		rooms:     rooms,
	}
}

func (s *fakeShowtimeStore) checkRefs(movieID, roomID uint64) error {
	if _, ok := s.movies.items[movieID]; !ok {
		return repository.Invalid("movie not found")
	}
	if _, ok := s.rooms.items[roomID]; !ok {
		return repository.Invalid("room not found")
	}
	return nil
}

func (s *fakeShowtimeStore) Create(ctx context.Context, f repository.Showtime) (repository.Showtime, error) {
	if err := s.checkRefs(f.MovieID, f.RoomID); err != nil {
		return repository.Showtime{}, err
	}
	return s.fakeStore.Create(ctx, f)
}

func (s *fakeShowtimeStore) Update(ctx context.Context, id uint64, f repository.Showtime) (repository.Showtime, error) {
	if err := s.checkRefs(f.MovieID, f.RoomID); err != nil {
		return repository.Showtime{}, err
	}
	return s.fakeStore.Update(ctx, id, f)
}

// fakeUserStore implements UserOps in memory with the same uniqueness and
// deactivation semantics as the real gateway.
type fakeUserStore struct {
	*fakeStore[repository.User]
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{newFakeStore(func(u *repository.User, id uint64) { u.ID = id })}
}

func (s *fakeUserStore) taken(username, email string, exclude uint64) bool {
	for id, u := range s.items {
		if id == exclude {
			continue
		}
		if u.Username == username || u.Email == email {
			return true
		}
	}
	return false
}

func (s *fakeUserStore) Create(ctx context.Context, u repository.User) (repository.User, error) {
	if s.taken(u.Username, u.Email, 0) {
		return repository.User{}, repository.ErrConflict
	}
	return s.fakeStore.Create(ctx, u)
}

func (s *fakeUserStore) Update(ctx context.Context, id uint64, u repository.User) (repository.User, error) {
	if s.taken(u.Username, u.Email, id) {
		return repository.User{}, repository.ErrConflict
	}
	existing, ok := s.items[id]
	if !ok {
		return repository.User{}, repository.ErrNotFound
	}
	if u.PasswordHash == "" {
		u.PasswordHash = existing.PasswordHash
	}
	return s.fakeStore.Update(ctx, id, u)
}

// Delete deactivates instead of removing, like the real gateway.
func (s *fakeUserStore) Delete(ctx context.Context, id uint64) (repository.User, error) {
	return s.SetActive(ctx, id, false)
}

func (s *fakeUserStore) SetActive(ctx context.Context, id uint64, active bool) (repository.User, error) {
	u, ok := s.items[id]
	if !ok {
		return repository.User{}, repository.ErrNotFound
	}
	u.Active = active
	s.items[id] = u
	return u, nil
}

func (s *fakeUserStore) GetByUsername(ctx context.Context, username string) (repository.User, error) {
	for _, u := range s.items {
		if u.Username == username {
			return u, nil
		}
	}
	return repository.User{}, repository.ErrNotFound
}

func (s *fakeUserStore) GetByEmail(ctx context.Context, email string) (repository.User, error) {
	for _, u := range s.items {
		if u.Email == email {
			return u, nil
		}
	}
	return repository.User{}, repository.ErrNotFound
}
