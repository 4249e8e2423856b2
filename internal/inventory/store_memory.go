package inventory

import (
	"context"
	"errors"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// MemStore is the process-memory Store. One lock covers both entity tables and
// the association index so a delete and its cascade are observed together.
type MemStore struct {
	mu        sync.RWMutex
	products  *table[Product]
	suppliers *table[Supplier]

	links   []Association
	linkSet map[Association]struct{}

	validate *validator.Validate
}

var _ Store = (*MemStore)(nil)

func NewMemStore() *MemStore {
	return &MemStore{
		products: newTable(func(p Product, id int64) Product {
			p.ID = id
			return p
		}),
		suppliers: newTable(func(s Supplier, id int64) Supplier {
			s.ID = id
			return s
		}),
		linkSet:  make(map[Association]struct{}),
		validate: newValidator(),
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// checkRequired turns validator output into a *FieldError listing json field names.
func (s *MemStore) checkRequired(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fe := &FieldError{}
	for _, e := range verrs {
		fe.Fields = append(fe.Fields, e.Field())
	}
	return fe
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) ListProducts(ctx context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.products.list(), nil
}

func (s *MemStore) GetProduct(ctx context.Context, id int64) (Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products.get(id)
	if !ok {
		return Product{}, ErrNotFound
	}
	return p, nil
}

func (s *MemStore) CreateProduct(ctx context.Context, p Product) (Product, error) {
	if err := s.checkRequired(p); err != nil {
		return Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products.insert(p), nil
}

func (s *MemStore) UpdateProduct(ctx context.Context, id int64, patch ProductPatch) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products.get(id)
	if !ok {
		return Product{}, ErrNotFound
	}
	patch.apply(&p)
	return s.products.replace(id, p), nil
}

func (s *MemStore) DeleteProduct(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products.remove(id)
	s.unlinkWhere(func(a Association) bool { return a.ProductID == id })
	return nil
}

func (s *MemStore) ListSuppliers(ctx context.Context) ([]Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.suppliers.list(), nil
}

func (s *MemStore) GetSupplier(ctx context.Context, id int64) (Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sp, ok := s.suppliers.get(id)
	if !ok {
		return Supplier{}, ErrNotFound
	}
	return sp, nil
}

func (s *MemStore) CreateSupplier(ctx context.Context, sp Supplier) (Supplier, error) {
	if err := s.checkRequired(sp); err != nil {
		return Supplier{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.suppliers.insert(sp), nil
}

func (s *MemStore) UpdateSupplier(ctx context.Context, id int64, patch SupplierPatch) (Supplier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sp, ok := s.suppliers.get(id)
	if !ok {
		return Supplier{}, ErrNotFound
	}
	patch.apply(&sp)
	return s.suppliers.replace(id, sp), nil
}

func (s *MemStore) DeleteSupplier(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.suppliers.remove(id)
	s.unlinkWhere(func(a Association) bool { return a.SupplierID == id })
	return nil
}

// ListAssociations resolves display names at read time. A link whose entity is
// gone gets a placeholder name instead of failing the whole list.
func (s *MemStore) ListAssociations(ctx context.Context) ([]EnrichedAssociation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]EnrichedAssociation, 0, len(s.links))
	for _, a := range s.links {
		e := EnrichedAssociation{
			ProductID:    a.ProductID,
			SupplierID:   a.SupplierID,
			ProductName:  UnknownProductName,
			SupplierName: UnknownSupplierName,
		}
		if p, ok := s.products.get(a.ProductID); ok {
			e.ProductName = p.Nome
		}
		if sp, ok := s.suppliers.get(a.SupplierID); ok {
			e.SupplierName = sp.Nome
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *MemStore) CreateAssociation(ctx context.Context, productID, supplierID int64) (Association, error) {
	if err := checkLinkIDs(productID, supplierID); err != nil {
		return Association{}, err
	}
	a := Association{ProductID: productID, SupplierID: supplierID}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.linkSet[a]; dup {
		return Association{}, ErrDuplicate
	}
	s.linkSet[a] = struct{}{}
	s.links = append(s.links, a)
	return a, nil
}

func (s *MemStore) DeleteAssociation(ctx context.Context, productID, supplierID int64) error {
	if err := checkLinkIDs(productID, supplierID); err != nil {
		return err
	}
	a := Association{ProductID: productID, SupplierID: supplierID}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.unlinkWhere(func(x Association) bool { return x == a })
	return nil
}

// Counts reports collection sizes for the store gauges.
func (s *MemStore) Counts() (products, suppliers, associations int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.products.len(), s.suppliers.len(), len(s.links)
}

// unlinkWhere drops matching associations. Callers hold s.mu for writing.
func (s *MemStore) unlinkWhere(match func(Association) bool) {
	s.links = slices.DeleteFunc(s.links, func(a Association) bool {
		if !match(a) {
			return false
		}
		delete(s.linkSet, a)
		return true
	})
}

func checkLinkIDs(productID, supplierID int64) error {
	if productID < 0 || supplierID < 0 {
		return ErrInvalidID
	}

	var missing []string
	if productID == 0 {
		missing = append(missing, "productId")
	}
	if supplierID == 0 {
		missing = append(missing, "supplierId")
	}
	if len(missing) > 0 {
		return &FieldError{Fields: missing}
	}
	return nil
}
