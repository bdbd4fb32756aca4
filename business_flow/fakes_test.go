package businessflow

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pulsecrm/pulse/models"
	"github.com/pulsecrm/pulse/segment"
	"github.com/pulsecrm/pulse/utils"
)

var errFakeStorage = errors.New("storage unavailable")

type fakeCustomerRepo struct {
	mu        sync.Mutex
	customers []*models.Customer
	failList  bool
}

func (f *fakeCustomerRepo) add(c *models.Customer) *models.Customer {
	f.mu.Lock()
	defer f.mu.Unlock()
	c.ID = uint(len(f.customers) + 1)
	f.customers = append(f.customers, c)
	return c
}

func (f *fakeCustomerRepo) ByID(ctx context.Context, id uint) (*models.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.customers {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeCustomerRepo) ByFilter(ctx context.Context, filter models.CustomerFilter, orderBy string, limit, offset int) ([]*models.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*models.Customer(nil), f.customers...), nil
}

func (f *fakeCustomerRepo) Save(ctx context.Context, c *models.Customer) error {
	f.add(c)
	return nil
}

func (f *fakeCustomerRepo) SaveBatch(ctx context.Context, customers []*models.Customer) error {
	for _, c := range customers {
		f.add(c)
	}
	return nil
}

func (f *fakeCustomerRepo) Count(ctx context.Context, filter models.CustomerFilter) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.customers)), nil
}

func (f *fakeCustomerRepo) Exists(ctx context.Context, filter models.CustomerFilter) (bool, error) {
	count, _ := f.Count(ctx, filter)
	return count > 0, nil
}

func (f *fakeCustomerRepo) ByEmail(ctx context.Context, email string) (*models.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.customers {
		if c.Email == email {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeCustomerRepo) ByAudience(ctx context.Context, predicate segment.Predicate) ([]*models.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failList {
		return nil, errFakeStorage
	}
	var matched []*models.Customer
	for _, c := range f.customers {
		if predicate.Match(c) {
			matched = append(matched, c)
		}
	}
	return matched, nil
}

func (f *fakeCustomerRepo) ListNewest(ctx context.Context, limit int) ([]*models.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]*models.Customer(nil), f.customers...)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeCustomerRepo) TopBySpend(ctx context.Context, limit int) ([]*models.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]*models.Customer(nil), f.customers...)
	for i := range out {
		for j := i + 1; j < len(out); j++ {
			if out[j].Spend > out[i].Spend {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeCustomerRepo) RecordOrderActivity(ctx context.Context, customerID uint, amount float64, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.customers {
		if c.ID == customerID {
			c.Spend += amount
			c.Visits++
			c.LastActive = at
			return nil
		}
	}
	return errFakeStorage
}

type fakeCampaignRepo struct {
	mu        sync.Mutex
	campaigns []*models.Campaign
	failSave  bool
}

func (f *fakeCampaignRepo) ByID(ctx context.Context, id uint) (*models.Campaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.campaigns {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeCampaignRepo) ByFilter(ctx context.Context, filter models.CampaignFilter, orderBy string, limit, offset int) ([]*models.Campaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*models.Campaign(nil), f.campaigns...), nil
}

func (f *fakeCampaignRepo) Save(ctx context.Context, c *models.Campaign) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSave {
		return errFakeStorage
	}
	c.ID = uint(len(f.campaigns) + 1)
	if c.UUID == uuid.Nil {
		c.UUID = uuid.New()
	}
	c.CreatedAt = utils.UTCNow()
	f.campaigns = append(f.campaigns, c)
	return nil
}

func (f *fakeCampaignRepo) SaveBatch(ctx context.Context, campaigns []*models.Campaign) error {
	for _, c := range campaigns {
		if err := f.Save(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeCampaignRepo) Count(ctx context.Context, filter models.CampaignFilter) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.campaigns)), nil
}

func (f *fakeCampaignRepo) Exists(ctx context.Context, filter models.CampaignFilter) (bool, error) {
	count, _ := f.Count(ctx, filter)
	return count > 0, nil
}

func (f *fakeCampaignRepo) ByUUID(ctx context.Context, id string) (*models.Campaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.campaigns {
		if c.UUID.String() == id {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeCampaignRepo) ListNewest(ctx context.Context, limit, offset int) ([]*models.Campaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]*models.Campaign(nil), f.campaigns...)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeLogRepo struct {
	mu          sync.Mutex
	logs        []*models.CommunicationLog
	failSaveFor map[uint]bool // customer IDs whose log writes fail
}

func (f *fakeLogRepo) ByID(ctx context.Context, id uint) (*models.CommunicationLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.logs {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, nil
}

func (f *fakeLogRepo) ByFilter(ctx context.Context, filter models.CommunicationLogFilter, orderBy string, limit, offset int) ([]*models.CommunicationLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*models.CommunicationLog(nil), f.logs...), nil
}

func (f *fakeLogRepo) Save(ctx context.Context, l *models.CommunicationLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSaveFor[l.CustomerID] {
		return errFakeStorage
	}
	l.ID = uint(len(f.logs) + 1)
	if l.UUID == uuid.Nil {
		l.UUID = uuid.New()
	}
	if l.Status == "" {
		l.Status = models.DeliveryStatusPending
	}
	l.CreatedAt = utils.UTCNow()
	l.UpdatedAt = l.CreatedAt
	f.logs = append(f.logs, l)
	return nil
}

func (f *fakeLogRepo) SaveBatch(ctx context.Context, logs []*models.CommunicationLog) error {
	for _, l := range logs {
		if err := f.Save(ctx, l); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeLogRepo) Count(ctx context.Context, filter models.CommunicationLogFilter) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.logs)), nil
}

func (f *fakeLogRepo) Exists(ctx context.Context, filter models.CommunicationLogFilter) (bool, error) {
	count, _ := f.Count(ctx, filter)
	return count > 0, nil
}

func (f *fakeLogRepo) ByUUID(ctx context.Context, id string) (*models.CommunicationLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.logs {
		if l.UUID.String() == id {
			return l, nil
		}
	}
	return nil, nil
}

func (f *fakeLogRepo) ApplyReceipt(ctx context.Context, logID uint, status models.DeliveryStatus, vendorResponse string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.logs {
		if l.ID == logID {
			if l.Status != models.DeliveryStatusPending {
				return false, nil
			}
			l.Status = status
			l.VendorResponse = &vendorResponse
			l.UpdatedAt = utils.UTCNow()
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLogRepo) CountByStatus(ctx context.Context, campaignID uint) (map[models.DeliveryStatus]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := map[models.DeliveryStatus]int64{
		models.DeliveryStatusPending: 0,
		models.DeliveryStatusSent:    0,
		models.DeliveryStatusFailed:  0,
	}
	for _, l := range f.logs {
		if l.CampaignID == campaignID {
			counts[l.Status]++
		}
	}
	return counts, nil
}

type fakeVendor struct {
	mu    sync.Mutex
	sends []string // log UUIDs handed to the vendor
}

func (f *fakeVendor) Send(ctx context.Context, logID, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sends = append(f.sends, logID)
	return nil
}

func (f *fakeVendor) sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sends...)
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders []*models.Order
}

func (f *fakeOrderRepo) ByID(ctx context.Context, id uint) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, nil
}

func (f *fakeOrderRepo) ByFilter(ctx context.Context, filter models.OrderFilter, orderBy string, limit, offset int) ([]*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*models.Order(nil), f.orders...), nil
}

func (f *fakeOrderRepo) Save(ctx context.Context, o *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o.ID = uint(len(f.orders) + 1)
	o.CreatedAt = utils.UTCNow()
	f.orders = append(f.orders, o)
	return nil
}

func (f *fakeOrderRepo) SaveBatch(ctx context.Context, orders []*models.Order) error {
	for _, o := range orders {
		if err := f.Save(ctx, o); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeOrderRepo) Count(ctx context.Context, filter models.OrderFilter) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.orders)), nil
}

func (f *fakeOrderRepo) Exists(ctx context.Context, filter models.OrderFilter) (bool, error) {
	count, _ := f.Count(ctx, filter)
	return count > 0, nil
}

func (f *fakeOrderRepo) ListNewestWithCustomer(ctx context.Context, limit, offset int) ([]*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]*models.Order(nil), f.orders...)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeOrderRepo) Totals(ctx context.Context) (int64, float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var revenue float64
	for _, o := range f.orders {
		revenue += o.Amount
	}
	return int64(len(f.orders)), revenue, nil
}
