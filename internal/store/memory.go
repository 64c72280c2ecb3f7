package store

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/models"
)

// In-memory store implementations. They back the test suites and make the
// server runnable without a mongo instance; behavior mirrors the mongo
// stores including the unique-key sentinels.

type MemoryUserStore struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]models.User

	// SaveErr, when set, is returned by Save. Lets tests exercise the
	// persist-failure paths.
	SaveErr error
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[primitive.ObjectID]models.User)}
}

func (s *MemoryUserStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneUser(u), nil
}

func (s *MemoryUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = models.NormalizeEmail(email)
	for _, u := range s.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryUserStore) Insert(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.Email = models.NormalizeEmail(u.Email)
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return ErrDuplicate
		}
	}
	now := time.Now()
	u.ID = primitive.NewObjectID()
	u.CreatedAt, u.UpdatedAt = now, now
	if u.CartItems == nil {
		u.CartItems = []models.CartLine{}
	}
	s.users[u.ID] = *cloneUser(*u)
	return nil
}

func (s *MemoryUserStore) Save(_ context.Context, u *models.User) error {
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; !ok {
		return ErrNotFound
	}
	u.UpdatedAt = time.Now()
	s.users[u.ID] = *cloneUser(*u)
	return nil
}

func (s *MemoryUserStore) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.users)), nil
}

func cloneUser(u models.User) *models.User {
	cp := u
	cp.CartItems = append([]models.CartLine(nil), u.CartItems...)
	return &cp
}

type MemoryProductStore struct {
	mu       sync.Mutex
	products map[primitive.ObjectID]models.Product
}

func NewMemoryProductStore() *MemoryProductStore {
	return &MemoryProductStore{products: make(map[primitive.ObjectID]models.Product)}
}

func (s *MemoryProductStore) list(match func(models.Product) bool) []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Product
	for _, p := range s.products {
		if match(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Hex() < out[j].ID.Hex() })
	return out
}

func (s *MemoryProductStore) All(_ context.Context) ([]models.Product, error) {
	return s.list(func(models.Product) bool { return true }), nil
}

func (s *MemoryProductStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *MemoryProductStore) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	want := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	return s.list(func(p models.Product) bool { return want[p.ID] }), nil
}

func (s *MemoryProductStore) FindFeatured(_ context.Context) ([]models.Product, error) {
	return s.list(func(p models.Product) bool { return p.IsFeatured }), nil
}

func (s *MemoryProductStore) FindByCategory(_ context.Context, category string) ([]models.Product, error) {
	return s.list(func(p models.Product) bool { return p.Category == category }), nil
}

func (s *MemoryProductStore) Sample(_ context.Context, n int) ([]models.Product, error) {
	all := s.list(func(models.Product) bool { return true })
	rand.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
	if len(all) > n {
		all = all[:n]
	}
	return all, nil
}

func (s *MemoryProductStore) Insert(_ context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	p.ID = primitive.NewObjectID()
	p.CreatedAt, p.UpdatedAt = now, now
	s.products[p.ID] = *p
	return nil
}

func (s *MemoryProductStore) Save(_ context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[p.ID]; !ok {
		return ErrNotFound
	}
	p.UpdatedAt = time.Now()
	s.products[p.ID] = *p
	return nil
}

func (s *MemoryProductStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return ErrNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *MemoryProductStore) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.products)), nil
}

type MemoryCouponStore struct {
	mu      sync.Mutex
	coupons map[primitive.ObjectID]models.Coupon
}

func NewMemoryCouponStore() *MemoryCouponStore {
	return &MemoryCouponStore{coupons: make(map[primitive.ObjectID]models.Coupon)}
}

func (s *MemoryCouponStore) findOne(match func(models.Coupon) bool) (*models.Coupon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.coupons {
		if match(c) {
			cp := c
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryCouponStore) FindActiveByUser(_ context.Context, userID primitive.ObjectID) (*models.Coupon, error) {
	return s.findOne(func(c models.Coupon) bool { return c.UserID == userID && c.IsActive })
}

func (s *MemoryCouponStore) FindActiveByCode(_ context.Context, code string, userID primitive.ObjectID) (*models.Coupon, error) {
	return s.findOne(func(c models.Coupon) bool {
		return c.Code == code && c.UserID == userID && c.IsActive
	})
}

func (s *MemoryCouponStore) FindByCode(_ context.Context, code string, userID primitive.ObjectID) (*models.Coupon, error) {
	return s.findOne(func(c models.Coupon) bool { return c.Code == code && c.UserID == userID })
}

func (s *MemoryCouponStore) Insert(_ context.Context, c *models.Coupon) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.coupons {
		if existing.Code == c.Code {
			return ErrDuplicate
		}
	}
	now := time.Now()
	c.ID = primitive.NewObjectID()
	c.CreatedAt, c.UpdatedAt = now, now
	s.coupons[c.ID] = *c
	return nil
}

func (s *MemoryCouponStore) Save(_ context.Context, c *models.Coupon) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.coupons[c.ID]; !ok {
		return ErrNotFound
	}
	c.UpdatedAt = time.Now()
	s.coupons[c.ID] = *c
	return nil
}

func (s *MemoryCouponStore) DeactivateByUser(_ context.Context, userID primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, c := range s.coupons {
		if c.UserID == userID && c.IsActive {
			c.IsActive = false
			c.UpdatedAt = time.Now()
			s.coupons[id] = c
			n++
		}
	}
	return n, nil
}

type MemoryOrderStore struct {
	mu     sync.Mutex
	orders []models.Order

	InsertErr error
}

func NewMemoryOrderStore() *MemoryOrderStore {
	return &MemoryOrderStore{}
}

func (s *MemoryOrderStore) Insert(_ context.Context, o *models.Order) error {
	if s.InsertErr != nil {
		return s.InsertErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.orders {
		if existing.StripeSessionID == o.StripeSessionID {
			return ErrDuplicate
		}
	}
	o.ID = primitive.NewObjectID()
	o.CreatedAt = time.Now()
	s.orders = append(s.orders, *o)
	return nil
}

func (s *MemoryOrderStore) FindBySessionID(_ context.Context, sessionID string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.StripeSessionID == sessionID {
			cp := o
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryOrderStore) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.orders)), nil
}

func (s *MemoryOrderStore) Totals(_ context.Context) (int64, float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var revenue float64
	for _, o := range s.orders {
		revenue += o.TotalAmount
	}
	return int64(len(s.orders)), revenue, nil
}

func (s *MemoryOrderStore) DailySales(_ context.Context, start, end time.Time) ([]DailyStat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byDay := make(map[string]*DailyStat)
	for _, o := range s.orders {
		if o.CreatedAt.Before(start) || o.CreatedAt.After(end) {
			continue
		}
		day := o.CreatedAt.UTC().Format("2006-01-02")
		st, ok := byDay[day]
		if !ok {
			st = &DailyStat{Date: day}
			byDay[day] = st
		}
		st.Sales++
		st.Revenue += o.TotalAmount
	}
	var out []DailyStat
	for _, st := range byDay {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}
