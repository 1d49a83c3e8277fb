package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	dbmodel "github.com/wso2/data-request-api/internal/system/database/model"
)

// MockDBClient is a mock implementation of provider.DBClientInterface
type MockDBClient struct {
	mock.Mock
}

func (m *MockDBClient) Query(ctx context.Context, query dbmodel.DBQueryInterface, args ...interface{}) ([]map[string]interface{}, error) {
	called := m.Called(ctx, query.GetID(), args)
	if called.Get(0) == nil {
		return nil, called.Error(1)
	}
	return called.Get(0).([]map[string]interface{}), called.Error(1)
}

func (m *MockDBClient) Execute(ctx context.Context, query dbmodel.DBQueryInterface, args ...interface{}) (int64, error) {
	called := m.Called(ctx, query.GetID(), args)
	return called.Get(0).(int64), called.Error(1)
}

func (m *MockDBClient) BeginTx(ctx context.Context) (dbmodel.TxInterface, error) {
	called := m.Called(ctx)
	if called.Get(0) == nil {
		return nil, called.Error(1)
	}
	return called.Get(0).(dbmodel.TxInterface), called.Error(1)
}

func (m *MockDBClient) DBType() string {
	return m.Called().String(0)
}

// MockTx is a mock implementation of model.TxInterface
type MockTx struct {
	mock.Mock
}

func (m *MockTx) Exec(query dbmodel.DBQueryInterface, args ...interface{}) (int64, error) {
	called := m.Called(query.GetID(), args)
	return called.Get(0).(int64), called.Error(1)
}

func (m *MockTx) Query(query dbmodel.DBQueryInterface, args ...interface{}) ([]map[string]interface{}, error) {
	called := m.Called(query.GetID(), args)
	if called.Get(0) == nil {
		return nil, called.Error(1)
	}
	return called.Get(0).([]map[string]interface{}), called.Error(1)
}

func (m *MockTx) Commit() error {
	return m.Called().Error(0)
}

func (m *MockTx) Rollback() error {
	return m.Called().Error(0)
}
