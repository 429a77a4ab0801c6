package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/celidone/customers/internal/model"
	"github.com/celidone/customers/pkg/db/transactor"
	"github.com/google/uuid"
)

// committingTransactor runs commit hooks once function succeeds
var committingTransactor = transactor.TransactorFunc(func(ctx context.Context, txFunc func(context.Context) error) error {
	txCtx, hooks := transactor.WithCommitHooks(ctx)
	if err := txFunc(txCtx); err != nil {
		return err
	}
	hooks.Run(ctx)
	return nil
})

type memoryCustomerCache struct {
	mu        sync.Mutex
	customers map[string]model.Customer
}

func newMemoryCustomerCache() *memoryCustomerCache {
	return &memoryCustomerCache{customers: make(map[string]model.Customer)}
}

func (m *memoryCustomerCache) FindByID(_ context.Context, id string) (*model.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (m *memoryCustomerCache) DeleteByID(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.customers, id)
	return nil
}

func (m *memoryCustomerCache) Create(_ context.Context, c *model.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customers[c.ID] = *c
	return nil
}

// memoryCustomerRepository keeps customers in map, it backs scenario tests of services
type memoryCustomerRepository struct {
	mu        sync.Mutex
	customers map[string]model.Customer
}

func newMemoryCustomerRepository(customers ...*model.Customer) *memoryCustomerRepository {
	r := &memoryCustomerRepository{customers: make(map[string]model.Customer)}
	for _, c := range customers {
		r.customers[c.ID] = *c
	}
	return r
}

func (r *memoryCustomerRepository) FindAll(_ context.Context, spec model.PageSpec) (*model.CustomerPage, error) {
	all := r.sorted()
	total := int64(len(all))

	from := spec.Offset()
	if from > len(all) {
		from = len(all)
	}

	to := from + spec.Size
	if to > len(all) {
		to = len(all)
	}
	return model.NewCustomerPage(all[from:to], spec, total), nil
}

func (r *memoryCustomerRepository) FindByID(_ context.Context, id string) (*model.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *memoryCustomerRepository) Save(_ context.Context, c *model.Customer) (*model.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	saved := *c
	if saved.ID == "" {
		saved.ID = uuid.NewString()
	} else if _, ok := r.customers[saved.ID]; !ok {
		return nil, nil
	}
	r.customers[saved.ID] = saved
	return &saved, nil
}

func (r *memoryCustomerRepository) DeleteByID(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.customers, id)
	return nil
}

func (r *memoryCustomerRepository) ExistsByID(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.customers[id]
	return ok, nil
}

func (r *memoryCustomerRepository) ExistsByEmail(_ context.Context, email string, excludeID string) (bool, error) {
	return r.any(func(c model.Customer) bool { return c.Email == email && c.ID != excludeID }), nil
}

func (r *memoryCustomerRepository) ExistsByOrganizationID(_ context.Context, organizationID string, excludeID string) (bool, error) {
	return r.any(func(c model.Customer) bool { return c.OrganizationID == organizationID && c.ID != excludeID }), nil
}

func (r *memoryCustomerRepository) Count(_ context.Context) (int64, error) {
	return r.count(func(model.Customer) bool { return true }), nil
}

func (r *memoryCustomerRepository) CountByRegisteredAtBetween(_ context.Context, from, to time.Time) (int64, error) {
	return r.count(func(c model.Customer) bool {
		return !c.RegisteredAt.Before(from) && !c.RegisteredAt.After(to)
	}), nil
}

func (r *memoryCustomerRepository) CountByPersonType(_ context.Context, pt model.PersonType) (int64, error) {
	return r.count(func(c model.Customer) bool { return c.PersonType == pt }), nil
}

func (r *memoryCustomerRepository) TopCityByCount(_ context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	counts := make(map[string]int)
	for _, c := range r.customers {
		if c.City != "" {
			counts[c.City]++
		}
	}

	top := ""
	for city, n := range counts {
		if top == "" || n > counts[top] || (n == counts[top] && city < top) {
			top = city
		}
	}
	return top, nil
}

func (r *memoryCustomerRepository) CountByCity(_ context.Context, city string) (int64, error) {
	return r.count(func(c model.Customer) bool { return c.City == city }), nil
}

func (r *memoryCustomerRepository) Search(_ context.Context, term string) ([]*model.Customer, error) {
	term = strings.ToLower(term)
	found := make([]*model.Customer, 0)
	for _, c := range r.sorted() {
		if strings.Contains(strings.ToLower(c.Name), term) || strings.Contains(strings.ToLower(c.Email), term) {
			found = append(found, c)
		}
	}
	return found, nil
}

func (r *memoryCustomerRepository) RecentFirst(_ context.Context, n int) ([]*model.Customer, error) {
	all := r.sorted()
	if n < len(all) {
		all = all[:n]
	}
	return all, nil
}

func (r *memoryCustomerRepository) sorted() []*model.Customer {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := make([]*model.Customer, 0, len(r.customers))
	for _, c := range r.customers {
		c := c
		all = append(all, &c)
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].RegisteredAt.Equal(all[j].RegisteredAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].RegisteredAt.After(all[j].RegisteredAt)
	})
	return all
}

func (r *memoryCustomerRepository) any(match func(model.Customer) bool) bool {
	return r.count(match) > 0
}

func (r *memoryCustomerRepository) count(match func(model.Customer) bool) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, c := range r.customers {
		if match(c) {
			n++
		}
	}
	return n
}
