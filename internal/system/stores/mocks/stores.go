package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	countersModel "github.com/wso2/data-request-api/internal/counters/model"
	requestModel "github.com/wso2/data-request-api/internal/datarequest/model"
	notificationModel "github.com/wso2/data-request-api/internal/notification/model"
	dbmodel "github.com/wso2/data-request-api/internal/system/database/model"
)

// MockDataRequestStore is a mock implementation of interfaces.DataRequestStore
type MockDataRequestStore struct {
	mock.Mock
}

func (m *MockDataRequestStore) GetByID(ctx context.Context, requestID, packageID string) (*requestModel.DataRequest, error) {
	args := m.Called(ctx, requestID, packageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*requestModel.DataRequest), args.Error(1)
}

func (m *MockDataRequestStore) Search(ctx context.Context, filters requestModel.RequestSearchFilters) ([]requestModel.DataRequest, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]requestModel.DataRequest), args.Error(1)
}

func (m *MockDataRequestStore) GetMaintainers(ctx context.Context, requestID string) ([]requestModel.MaintainerAssignment, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]requestModel.MaintainerAssignment), args.Error(1)
}

func (m *MockDataRequestStore) Create(tx dbmodel.TxInterface, request *requestModel.DataRequest) error {
	return m.Called(tx, request).Error(0)
}

func (m *MockDataRequestStore) CreateMaintainers(tx dbmodel.TxInterface, assignments []requestModel.MaintainerAssignment) error {
	return m.Called(tx, assignments).Error(0)
}

func (m *MockDataRequestStore) Update(tx dbmodel.TxInterface, request *requestModel.DataRequest, previousModifiedAt int64) error {
	return m.Called(tx, request, previousModifiedAt).Error(0)
}

// MockCountersStore is a mock implementation of interfaces.CountersStore
type MockCountersStore struct {
	mock.Mock
}

func (m *MockCountersStore) GetByPackageID(ctx context.Context, packageID string) (*countersModel.RequestCounters, error) {
	args := m.Called(ctx, packageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*countersModel.RequestCounters), args.Error(1)
}

func (m *MockCountersStore) GetByOrgID(ctx context.Context, orgID string) ([]countersModel.RequestCounters, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]countersModel.RequestCounters), args.Error(1)
}

func (m *MockCountersStore) GetAll(ctx context.Context) ([]countersModel.RequestCounters, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]countersModel.RequestCounters), args.Error(1)
}

func (m *MockCountersStore) Increment(tx dbmodel.TxInterface, packageID, orgID string, flag countersModel.Flag) error {
	return m.Called(tx, packageID, orgID, flag).Error(0)
}

// MockNotificationStore is a mock implementation of interfaces.NotificationStore
type MockNotificationStore struct {
	mock.Mock
}

func (m *MockNotificationStore) GetByMaintainerID(ctx context.Context, maintainerID string) (*notificationModel.UserNotification, error) {
	args := m.Called(ctx, maintainerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notificationModel.UserNotification), args.Error(1)
}

func (m *MockNotificationStore) Upsert(tx dbmodel.TxInterface, maintainerID string) error {
	return m.Called(tx, maintainerID).Error(0)
}

func (m *MockNotificationStore) MarkSeen(tx dbmodel.TxInterface, maintainerID string) error {
	return m.Called(tx, maintainerID).Error(0)
}
