package stores

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	dbmodel "github.com/wso2/data-request-api/internal/system/database/model"
	"github.com/wso2/data-request-api/internal/system/database/provider/mocks"
)

func TestExecuteTransaction_CommitsAllQueries(t *testing.T) {
	tx := &mocks.MockTx{}
	tx.On("Commit").Return(nil)
	client := &mocks.MockDBClient{}
	client.On("BeginTx", mock.Anything).Return(tx, nil)

	calls := 0
	step := func(dbmodel.TxInterface) error { calls++; return nil }

	err := NewStoreRegistry(client, nil, nil, nil).ExecuteTransaction(context.Background(),
		[]func(tx dbmodel.TxInterface) error{step, step})

	assert.NoError(t, err)
	assert.Equal(t, 2, calls)
	tx.AssertExpectations(t)
	tx.AssertNotCalled(t, "Rollback")
}

func TestExecuteTransaction_RollsBackOnFailure(t *testing.T) {
	tx := &mocks.MockTx{}
	tx.On("Rollback").Return(nil)
	client := &mocks.MockDBClient{}
	client.On("BeginTx", mock.Anything).Return(tx, nil)

	boom := errors.New("boom")
	reached := false
	err := NewStoreRegistry(client, nil, nil, nil).ExecuteTransaction(context.Background(),
		[]func(tx dbmodel.TxInterface) error{
			func(dbmodel.TxInterface) error { return boom },
			func(dbmodel.TxInterface) error { reached = true; return nil },
		})

	assert.ErrorIs(t, err, boom)
	assert.False(t, reached)
	tx.AssertNotCalled(t, "Commit")
	tx.AssertExpectations(t)
}

func TestExecuteTransaction_BeginFailure(t *testing.T) {
	client := &mocks.MockDBClient{}
	client.On("BeginTx", mock.Anything).Return(nil, errors.New("no connection"))

	err := NewStoreRegistry(client, nil, nil, nil).ExecuteTransaction(context.Background(),
		[]func(tx dbmodel.TxInterface) error{func(dbmodel.TxInterface) error { return nil }})
	assert.EqualError(t, err, "no connection")
}
