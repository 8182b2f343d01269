package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
)

var errStorage = errors.New("storage unavailable")

// memStore — хранилище в памяти с поддержкой отката транзакции.
type memStore struct {
	mu         sync.Mutex
	products   map[int64]domain.Product
	warranties map[int64]domain.Warranty
	productSeq int64
	warrSeq    int64

	// failOn — имя метода репозитория, который вернёт errStorage
	failOn string
	now    func() time.Time
}

func newMemStore() *memStore {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	return &memStore{
		products:   make(map[int64]domain.Product),
		warranties: make(map[int64]domain.Warranty),
		now: func() time.Time {
			tick++
			return base.Add(time.Duration(tick) * time.Second)
		},
	}
}

func (s *memStore) fail(method string) error {
	if s.failOn == method {
		return errStorage
	}
	return nil
}

type snapshot struct {
	products   map[int64]domain.Product
	warranties map[int64]domain.Warranty
	productSeq int64
	warrSeq    int64
}

func (s *memStore) snapshot() snapshot {
	return snapshot{
		products:   maps.Clone(s.products),
		warranties: maps.Clone(s.warranties),
		productSeq: s.productSeq,
		warrSeq:    s.warrSeq,
	}
}

func (s *memStore) restore(snap snapshot) {
	s.products = snap.products
	s.warranties = snap.warranties
	s.productSeq = snap.productSeq
	s.warrSeq = snap.warrSeq
}

func (s *memStore) warrantyOf(productID int64) *domain.Warranty {
	for _, w := range s.warranties {
		if w.ProductID == productID {
			return &w
		}
	}
	return nil
}

// memTx откатывает состояние memStore, если fn вернула ошибку.
type memTx struct {
	store *memStore
}

func (t *memTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	t.store.mu.Lock()
	snap := t.store.snapshot()
	t.store.mu.Unlock()

	if err := fn(ctx); err != nil {
		t.store.mu.Lock()
		t.store.restore(snap)
		t.store.mu.Unlock()
		return err
	}
	return nil
}

type memProductRepo struct {
	store *memStore
}

func (r *memProductRepo) Create(_ context.Context, product *domain.Product) (*domain.Product, error) {
	if err := r.store.fail("Product.Create"); err != nil {
		return nil, err
	}

	r.store.productSeq++
	p := *product
	p.ID = r.store.productSeq
	p.CreatedAt = r.store.now()
	p.UpdatedAt = p.CreatedAt
	r.store.products[p.ID] = p

	return &p, nil
}

func (r *memProductRepo) GetForUpdate(_ context.Context, id int64) (*domain.Product, error) {
	if err := r.store.fail("Product.GetForUpdate"); err != nil {
		return nil, err
	}

	p, ok := r.store.products[id]
	if !ok {
		return nil, e.ErrProductNotFound
	}
	return &p, nil
}

func (r *memProductRepo) Update(_ context.Context, product *domain.Product) (*domain.Product, error) {
	if err := r.store.fail("Product.Update"); err != nil {
		return nil, err
	}

	p, ok := r.store.products[product.ID]
	if !ok {
		return nil, e.ErrProductNotFound
	}
	p.Name = product.Name
	p.Price = product.Price
	p.UpdatedAt = r.store.now()
	r.store.products[p.ID] = p

	return &p, nil
}

func (r *memProductRepo) Delete(_ context.Context, id int64) error {
	if err := r.store.fail("Product.Delete"); err != nil {
		return err
	}

	if _, ok := r.store.products[id]; !ok {
		return e.ErrProductNotFound
	}
	delete(r.store.products, id)
	return nil
}

func (r *memProductRepo) GetWithWarranty(_ context.Context, id int64) (*ProductDetails, error) {
	if err := r.store.fail("Product.GetWithWarranty"); err != nil {
		return nil, err
	}

	p, ok := r.store.products[id]
	if !ok {
		return nil, e.ErrProductNotFound
	}
	return NewProductDetails(p, r.store.warrantyOf(id)), nil
}

func (r *memProductRepo) ListWithWarranty(_ context.Context) ([]ProductDetails, error) {
	if err := r.store.fail("Product.ListWithWarranty"); err != nil {
		return nil, err
	}

	ids := slices.Sorted(maps.Keys(r.store.products))
	res := make([]ProductDetails, 0, len(ids))
	for _, id := range ids {
		res = append(res, *NewProductDetails(r.store.products[id], r.store.warrantyOf(id)))
	}
	return res, nil
}

type memWarrantyRepo struct {
	store *memStore
}

func (r *memWarrantyRepo) GetByProductID(_ context.Context, productID int64) (*domain.Warranty, error) {
	if err := r.store.fail("Warranty.GetByProductID"); err != nil {
		return nil, err
	}

	if w := r.store.warrantyOf(productID); w != nil {
		return w, nil
	}
	return nil, e.ErrWarrantyNotFound
}

func (r *memWarrantyRepo) Create(_ context.Context, warranty *domain.Warranty) (*domain.Warranty, error) {
	if err := r.store.fail("Warranty.Create"); err != nil {
		return nil, err
	}

	r.store.warrSeq++
	w := *warranty
	w.ID = r.store.warrSeq
	w.CreatedAt = r.store.now()
	w.UpdatedAt = w.CreatedAt
	r.store.warranties[w.ID] = w

	return &w, nil
}

func (r *memWarrantyRepo) UpdatePeriod(_ context.Context, id int64, period int32) (*domain.Warranty, error) {
	if err := r.store.fail("Warranty.UpdatePeriod"); err != nil {
		return nil, err
	}

	w, ok := r.store.warranties[id]
	if !ok {
		return nil, e.ErrWarrantyNotFound
	}
	w.WarrantyPeriod = period
	w.UpdatedAt = r.store.now()
	r.store.warranties[id] = w

	return &w, nil
}

func (r *memWarrantyRepo) DeleteByProductID(_ context.Context, productID int64) (int64, error) {
	if err := r.store.fail("Warranty.DeleteByProductID"); err != nil {
		return 0, err
	}

	var n int64
	for id, w := range r.store.warranties {
		if w.ProductID == productID {
			delete(r.store.warranties, id)
			n++
		}
	}
	return n, nil
}

func newTestLogger() logger.Logger {
	return logger.NewSlogLoggerWithWriter(io.Discard, slog.LevelDebug)
}

func newTestUC() (*ProductUseCase, *memStore) {
	store := newMemStore()
	log := newTestLogger()
	wm := NewWarrantyManager(&memWarrantyRepo{store: store}, log)
	uc := NewProductUC(&memProductRepo{store: store}, wm, &memTx{store: store}, log)
	return uc, store
}
