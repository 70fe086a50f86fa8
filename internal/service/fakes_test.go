package service

import (
	"database/sql"
	"sort"

	"go-seedstock/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory repository fakes. The gorm.DB parameters of transactional methods
// are ignored; fakeTransactor supplies the atomicity that gorm normally does.

type fakeProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *fakeProductRepo) Create(product *model.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	r.products[product.ID] = product
	return nil
}

func (r *fakeProductRepo) FindAll() ([]model.Product, error) {
	var products []model.Product
	for _, p := range r.products {
		products = append(products, *p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Name < products[j].Name })
	return products, nil
}

func (r *fakeProductRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	if p, ok := r.products[id]; ok {
		return p, nil
	}
	return &model.Product{}, gorm.ErrRecordNotFound
}

func (r *fakeProductRepo) FindByCode(code string) (*model.Product, error) {
	for _, p := range r.products {
		if p.Code == code {
			return p, nil
		}
	}
	return &model.Product{}, gorm.ErrRecordNotFound
}

func (r *fakeProductRepo) Update(product *model.Product) error {
	r.products[product.ID] = product
	return nil
}

func (r *fakeProductRepo) Delete(id uuid.UUID) error {
	delete(r.products, id)
	return nil
}

type fakeCustomerRepo struct {
	customers map[uuid.UUID]*model.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[uuid.UUID]*model.Customer)}
}

func (r *fakeCustomerRepo) Create(customer *model.Customer) error {
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	r.customers[customer.ID] = customer
	return nil
}

func (r *fakeCustomerRepo) FindAll() ([]model.Customer, error) {
	var customers []model.Customer
	for _, c := range r.customers {
		customers = append(customers, *c)
	}
	return customers, nil
}

func (r *fakeCustomerRepo) FindByID(id uuid.UUID) (*model.Customer, error) {
	if c, ok := r.customers[id]; ok {
		return c, nil
	}
	return &model.Customer{}, gorm.ErrRecordNotFound
}

func (r *fakeCustomerRepo) Update(customer *model.Customer) error {
	r.customers[customer.ID] = customer
	return nil
}

func (r *fakeCustomerRepo) Delete(id uuid.UUID) error {
	delete(r.customers, id)
	return nil
}

type fakeBatchRepo struct {
	batches map[uuid.UUID]*model.InventoryBatch
}

func newFakeBatchRepo() *fakeBatchRepo {
	return &fakeBatchRepo{batches: make(map[uuid.UUID]*model.InventoryBatch)}
}

func (r *fakeBatchRepo) Create(batch *model.InventoryBatch) error {
	if batch.ID == uuid.Nil {
		batch.ID = uuid.New()
	}
	r.batches[batch.ID] = batch
	return nil
}

func (r *fakeBatchRepo) FindAll() ([]model.InventoryBatch, error) {
	var batches []model.InventoryBatch
	for _, b := range r.batches {
		batches = append(batches, *b)
	}
	return batches, nil
}

func (r *fakeBatchRepo) FindByID(id uuid.UUID) (*model.InventoryBatch, error) {
	if b, ok := r.batches[id]; ok {
		return b, nil
	}
	return &model.InventoryBatch{}, gorm.ErrRecordNotFound
}

func (r *fakeBatchRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.InventoryBatch, error) {
	return r.FindByID(id)
}

func (r *fakeBatchRepo) FindAvailableByProduct(tx *gorm.DB, productID uuid.UUID) ([]model.InventoryBatch, error) {
	var batches []model.InventoryBatch
	for _, b := range r.batches {
		if b.ProductID == productID && b.Quantity > 0 {
			batches = append(batches, *b)
		}
	}
	sort.Slice(batches, func(i, j int) bool { return batches[i].CreatedAt.Before(batches[j].CreatedAt) })
	return batches, nil
}

func (r *fakeBatchRepo) CountByProduct(productID uuid.UUID) (int64, error) {
	var count int64
	for _, b := range r.batches {
		if b.ProductID == productID {
			count++
		}
	}
	return count, nil
}

func (r *fakeBatchRepo) Update(batch *model.InventoryBatch) error {
	r.batches[batch.ID] = batch
	return nil
}

func (r *fakeBatchRepo) UpdateQuantity(tx *gorm.DB, id uuid.UUID, quantity int) error {
	if b, ok := r.batches[id]; ok {
		b.Quantity = quantity
	}
	return nil
}

func (r *fakeBatchRepo) UpdateQuantities(tx *gorm.DB, id uuid.UUID, quantity, initialQuantity int) error {
	if b, ok := r.batches[id]; ok {
		b.Quantity = quantity
		b.InitialQuantity = initialQuantity
	}
	return nil
}

func (r *fakeBatchRepo) Delete(id uuid.UUID) error {
	delete(r.batches, id)
	return nil
}

type fakeOrderRepo struct {
	orders         map[uuid.UUID]*model.Order
	itemsByProduct map[uuid.UUID]int64
	itemsByBatch   map[uuid.UUID]int64
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		orders:         make(map[uuid.UUID]*model.Order),
		itemsByProduct: make(map[uuid.UUID]int64),
		itemsByBatch:   make(map[uuid.UUID]int64),
	}
}

func (r *fakeOrderRepo) Create(tx *gorm.DB, order *model.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	r.orders[order.ID] = order
	return nil
}

func (r *fakeOrderRepo) CreateItems(tx *gorm.DB, items []model.OrderItem) error {
	for _, item := range items {
		if order, ok := r.orders[item.OrderID]; ok {
			order.Items = append(order.Items, item)
		}
		r.itemsByProduct[item.ProductID]++
		if item.BatchID != nil {
			r.itemsByBatch[*item.BatchID]++
		}
	}
	return nil
}

func (r *fakeOrderRepo) FindAll() ([]model.Order, error) {
	var orders []model.Order
	for _, o := range r.orders {
		orders = append(orders, *o)
	}
	return orders, nil
}

func (r *fakeOrderRepo) FindByID(id uuid.UUID) (*model.Order, error) {
	if o, ok := r.orders[id]; ok {
		copied := *o
		return &copied, nil
	}
	return &model.Order{}, gorm.ErrRecordNotFound
}

func (r *fakeOrderRepo) UpdateStatus(id uuid.UUID, status model.OrderStatus) error {
	if o, ok := r.orders[id]; ok {
		o.Status = status
	}
	return nil
}

func (r *fakeOrderRepo) CountByCustomer(customerID uuid.UUID) (int64, error) {
	var count int64
	for _, o := range r.orders {
		if o.CustomerID == customerID {
			count++
		}
	}
	return count, nil
}

func (r *fakeOrderRepo) CountItemsByProduct(productID uuid.UUID) (int64, error) {
	return r.itemsByProduct[productID], nil
}

func (r *fakeOrderRepo) CountItemsByBatch(batchID uuid.UUID) (int64, error) {
	return r.itemsByBatch[batchID], nil
}

func (r *fakeBatchRepo) snapshot() map[uuid.UUID]model.InventoryBatch {
	snap := make(map[uuid.UUID]model.InventoryBatch, len(r.batches))
	for id, b := range r.batches {
		snap[id] = *b
	}
	return snap
}

func (r *fakeBatchRepo) restore(snap map[uuid.UUID]model.InventoryBatch) {
	r.batches = make(map[uuid.UUID]*model.InventoryBatch, len(snap))
	for id, b := range snap {
		copied := b
		r.batches[id] = &copied
	}
}

type orderSnapshot struct {
	orders         map[uuid.UUID]model.Order
	itemsByProduct map[uuid.UUID]int64
	itemsByBatch   map[uuid.UUID]int64
}

func (r *fakeOrderRepo) snapshot() orderSnapshot {
	snap := orderSnapshot{
		orders:         make(map[uuid.UUID]model.Order, len(r.orders)),
		itemsByProduct: make(map[uuid.UUID]int64, len(r.itemsByProduct)),
		itemsByBatch:   make(map[uuid.UUID]int64, len(r.itemsByBatch)),
	}
	for id, o := range r.orders {
		copied := *o
		copied.Items = append([]model.OrderItem(nil), o.Items...)
		snap.orders[id] = copied
	}
	for id, n := range r.itemsByProduct {
		snap.itemsByProduct[id] = n
	}
	for id, n := range r.itemsByBatch {
		snap.itemsByBatch[id] = n
	}
	return snap
}

func (r *fakeOrderRepo) restore(snap orderSnapshot) {
	r.orders = make(map[uuid.UUID]*model.Order, len(snap.orders))
	for id, o := range snap.orders {
		copied := o
		r.orders[id] = &copied
	}
	r.itemsByProduct = snap.itemsByProduct
	r.itemsByBatch = snap.itemsByBatch
}

// fakeTransactor stands in for *gorm.DB in the services: the callback runs
// against the live fake maps, and an error restores the pre-transaction
// snapshot so tests can assert rollback behavior.
type fakeTransactor struct {
	batches *fakeBatchRepo
	orders  *fakeOrderRepo
}

func (t *fakeTransactor) Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error {
	var batchSnap map[uuid.UUID]model.InventoryBatch
	var orderSnap orderSnapshot
	if t.batches != nil {
		batchSnap = t.batches.snapshot()
	}
	if t.orders != nil {
		orderSnap = t.orders.snapshot()
	}

	if err := fc(nil); err != nil {
		if t.batches != nil {
			t.batches.restore(batchSnap)
		}
		if t.orders != nil {
			t.orders.restore(orderSnap)
		}
		return err
	}
	return nil
}
