package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/warunglab/storeapi/internal/store"
)

// fakeUserStore is an in-memory UserStore for handler tests.
type fakeUserStore struct {
	nextID int64
	users  map[int64]*store.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int64]*store.User)}
}

func (f *fakeUserStore) Create(_ context.Context, u *store.User) error {
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return store.ErrDuplicate
		}
	}
	f.nextID++
	u.ID = f.nextID
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id int64) (*store.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) List(_ context.Context, offset, limit int) ([]*store.User, error) {
	ids := make([]int64, 0, len(f.users))
	for id := range f.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var out []*store.User
	for i, id := range ids {
		if i < offset {
			continue
		}
		if len(out) >= limit {
			break
		}
		cp := *f.users[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeUserStore) Update(_ context.Context, u *store.User) error {
	if _, ok := f.users[u.ID]; !ok {
		return store.ErrNotFound
	}
	for id, existing := range f.users {
		if id != u.ID && existing.Email == u.Email {
			return store.ErrDuplicate
		}
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

// fakeProductStore is an in-memory ProductStore for handler tests.
type fakeProductStore struct {
	nextID   int64
	products map[int64]*store.Product
}

func newFakeProductStore() *fakeProductStore {
	return &fakeProductStore{products: make(map[int64]*store.Product)}
}

func (f *fakeProductStore) Create(_ context.Context, p *store.Product) error {
	f.nextID++
	p.ID = f.nextID
	cp := *p
	f.products[p.ID] = &cp
	return nil
}

func (f *fakeProductStore) GetByID(_ context.Context, id int64) (*store.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductStore) List(_ context.Context, offset, limit int) ([]*store.Product, error) {
	ids := make([]int64, 0, len(f.products))
	for id := range f.products {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var out []*store.Product
	for i, id := range ids {
		if i < offset {
			continue
		}
		if len(out) >= limit {
			break
		}
		cp := *f.products[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeProductStore) Update(_ context.Context, p *store.Product) error {
	if _, ok := f.products[p.ID]; !ok {
		return store.ErrNotFound
	}
	cp := *p
	f.products[p.ID] = &cp
	return nil
}

func (f *fakeProductStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.products[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.products, id)
	return nil
}

// fakePinger implements Pinger with a fixed result.
type fakePinger struct{ err error }

func (p *fakePinger) PingContext(context.Context) error { return p.err }

// newTestRouter builds the full route tree over fake stores.
func newTestRouter(users UserStore, products ProductStore, pinger Pinger) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewMux()
	SetupRoutes(r, NewHandlers(users, products, pinger, logger))
	return r
}

// doRequest runs a request through the router and returns the recorder.
func doRequest(h http.Handler, method, target string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
