package stores

import (
	"context"
	"fmt"

	dbmodel "github.com/wso2/data-request-api/internal/system/database/model"
	"github.com/wso2/data-request-api/internal/system/database/provider"
	"github.com/wso2/data-request-api/internal/system/log"
	"github.com/wso2/data-request-api/internal/system/stores/interfaces"
)

// StoreRegistry provides centralized access to all stores
type StoreRegistry struct {
	dbClient provider.DBClientInterface

	DataRequest  interfaces.DataRequestStore
	Counters     interfaces.CountersStore
	Notification interfaces.NotificationStore
}

// NewStoreRegistry creates a new store registry with all initialized stores
func NewStoreRegistry(
	dbClient provider.DBClientInterface,
	dataRequestStore interfaces.DataRequestStore,
	countersStore interfaces.CountersStore,
	notificationStore interfaces.NotificationStore,
) *StoreRegistry {
	return &StoreRegistry{
		dbClient:     dbClient,
		DataRequest:  dataRequestStore,
		Counters:     countersStore,
		Notification: notificationStore,
	}
}

// ExecuteTransaction runs queries in order inside one transaction. The first
// failing query rolls the whole transaction back and its error is returned.
func (r *StoreRegistry) ExecuteTransaction(ctx context.Context, queries []func(tx dbmodel.TxInterface) error) error {
	logger := log.GetLogger().WithContext(ctx)
	logger.Debug("Starting transaction", log.Int("query_count", len(queries)))

	tx, err := r.dbClient.BeginTx(ctx)
	if err != nil {
		logger.Error("Failed to begin transaction", log.Error(err))
		return err
	}

	for i, query := range queries {
		if err := query(tx); err != nil {
			logger.Warn("Transaction query failed, rolling back",
				log.Error(err),
				log.Int("failed_query_index", i),
			)
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.Error("Failed to rollback transaction", log.Error(rbErr))
			}
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		logger.Error("Failed to commit transaction", log.Error(err))
		return fmt.Errorf("transaction commit failed: %w", err)
	}

	logger.Debug("Transaction committed successfully", log.Int("query_count", len(queries)))
	return nil
}
