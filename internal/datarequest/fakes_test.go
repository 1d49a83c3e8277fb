package datarequest

import (
	"context"
	"sort"
	"sync"

	"github.com/stretchr/testify/mock"

	countersmodel "github.com/wso2/data-request-api/internal/counters/model"
	"github.com/wso2/data-request-api/internal/datarequest/model"
	notificationmodel "github.com/wso2/data-request-api/internal/notification/model"
	dbmodel "github.com/wso2/data-request-api/internal/system/database/model"
	dbmocks "github.com/wso2/data-request-api/internal/system/database/provider/mocks"
)

// memoryRequestStore is an in-memory DataRequestStore.
type memoryRequestStore struct {
	mu          sync.Mutex
	requests    map[string]model.DataRequest
	maintainers map[string][]model.MaintainerAssignment
}

func newMemoryRequestStore() *memoryRequestStore {
	return &memoryRequestStore{
		requests:    map[string]model.DataRequest{},
		maintainers: map[string][]model.MaintainerAssignment{},
	}
}

func (m *memoryRequestStore) GetByID(_ context.Context, requestID, packageID string) (*model.DataRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.requests[requestID]
	if !ok || (packageID != "" && r.PackageID != packageID) {
		return nil, nil
	}
	return &r, nil
}

func (m *memoryRequestStore) Search(_ context.Context, filters model.RequestSearchFilters) ([]model.DataRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	packages := map[string]bool{}
	for _, id := range filters.PackageIDs {
		packages[id] = true
	}

	result := make([]model.DataRequest, 0)
	for _, r := range m.requests {
		if filters.PackageIDs != nil && !packages[r.PackageID] {
			continue
		}
		if filters.MaintainerID != "" && !m.hasMaintainer(r.ID, filters.MaintainerID) {
			continue
		}
		result = append(result, r)
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].CreatedAt > result[j].CreatedAt })
	return result, nil
}

func (m *memoryRequestStore) hasMaintainer(requestID, maintainerID string) bool {
	for _, a := range m.maintainers[requestID] {
		if a.MaintainerID == maintainerID {
			return true
		}
	}
	return false
}

func (m *memoryRequestStore) GetMaintainers(_ context.Context, requestID string) ([]model.MaintainerAssignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.MaintainerAssignment{}, m.maintainers[requestID]...), nil
}

func (m *memoryRequestStore) Create(_ dbmodel.TxInterface, r *model.DataRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[r.ID] = *r
	return nil
}

func (m *memoryRequestStore) CreateMaintainers(_ dbmodel.TxInterface, assignments []model.MaintainerAssignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range assignments {
		m.maintainers[a.RequestID] = append(m.maintainers[a.RequestID], a)
	}
	return nil
}

func (m *memoryRequestStore) Update(_ dbmodel.TxInterface, r *model.DataRequest, previousModifiedAt int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.requests[r.ID]
	if !ok || current.PackageID != r.PackageID || current.ModifiedAt != previousModifiedAt {
		return model.ErrRequestModified
	}
	current.State, current.DataShared, current.Rejected, current.ModifiedAt = r.State, r.DataShared, r.Rejected, r.ModifiedAt
	m.requests[r.ID] = current
	return nil
}

// memoryCountersStore applies increments the way the SQL upsert does.
type memoryCountersStore struct {
	mu   sync.Mutex
	rows map[string]*countersmodel.RequestCounters
}

func newMemoryCountersStore() *memoryCountersStore {
	return &memoryCountersStore{rows: map[string]*countersmodel.RequestCounters{}}
}

func (m *memoryCountersStore) GetByPackageID(_ context.Context, packageID string) (*countersmodel.RequestCounters, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.rows[packageID]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, nil
}

func (m *memoryCountersStore) GetByOrgID(_ context.Context, orgID string) ([]countersmodel.RequestCounters, error) {
	return nil, nil
}

func (m *memoryCountersStore) GetAll(_ context.Context) ([]countersmodel.RequestCounters, error) {
	return nil, nil
}

func (m *memoryCountersStore) Increment(_ dbmodel.TxInterface, packageID, orgID string, flag countersmodel.Flag) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d := flag.Delta()
	c, ok := m.rows[packageID]
	if !ok {
		m.rows[packageID] = &countersmodel.RequestCounters{
			PackageID: packageID, OrgID: orgID, Requests: 1, Replied: d.Replied, Declined: d.Declined, Shared: d.Shared,
		}
		return nil
	}
	c.Requests += d.Requests
	c.Replied += d.Replied
	c.Declined += d.Declined
	c.Shared += d.Shared
	return nil
}

// memoryNotificationStore records upserted maintainer ids.
type memoryNotificationStore struct {
	mu   sync.Mutex
	rows map[string]bool
}

func (m *memoryNotificationStore) GetByMaintainerID(_ context.Context, id string) (*notificationmodel.UserNotification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	return &notificationmodel.UserNotification{PackageMaintainerID: id, Seen: seen}, nil
}

func (m *memoryNotificationStore) Upsert(_ dbmodel.TxInterface, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[id] = false
	return nil
}

func (m *memoryNotificationStore) MarkSeen(_ dbmodel.TxInterface, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; ok {
		m.rows[id] = true
	}
	return nil
}

func newTxClient() (*dbmocks.MockDBClient, *dbmocks.MockTx) {
	tx := &dbmocks.MockTx{}
	tx.On("Commit").Return(nil).Maybe()
	tx.On("Rollback").Return(nil).Maybe()
	client := &dbmocks.MockDBClient{}
	client.On("BeginTx", mock.Anything).Return(tx, nil).Maybe()
	return client, tx
}
