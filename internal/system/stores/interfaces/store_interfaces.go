package interfaces

import (
	"context"

	countersModel "github.com/wso2/data-request-api/internal/counters/model"
	requestModel "github.com/wso2/data-request-api/internal/datarequest/model"
	notificationModel "github.com/wso2/data-request-api/internal/notification/model"
	dbmodel "github.com/wso2/data-request-api/internal/system/database/model"
)

// DataRequestStore defines the interface for data request and maintainer assignment operations
type DataRequestStore interface {
	GetByID(ctx context.Context, requestID, packageID string) (*requestModel.DataRequest, error)
	Search(ctx context.Context, filters requestModel.RequestSearchFilters) ([]requestModel.DataRequest, error)
	GetMaintainers(ctx context.Context, requestID string) ([]requestModel.MaintainerAssignment, error)
	Create(tx dbmodel.TxInterface, request *requestModel.DataRequest) error
	CreateMaintainers(tx dbmodel.TxInterface, assignments []requestModel.MaintainerAssignment) error
	Update(tx dbmodel.TxInterface, request *requestModel.DataRequest, previousModifiedAt int64) error
}

// CountersStore defines the interface for per-dataset counter operations
type CountersStore interface {
	GetByPackageID(ctx context.Context, packageID string) (*countersModel.RequestCounters, error)
	GetByOrgID(ctx context.Context, orgID string) ([]countersModel.RequestCounters, error)
	GetAll(ctx context.Context) ([]countersModel.RequestCounters, error)
	Increment(tx dbmodel.TxInterface, packageID, orgID string, flag countersModel.Flag) error
}

// NotificationStore defines the interface for maintainer notification operations
type NotificationStore interface {
	GetByMaintainerID(ctx context.Context, maintainerID string) (*notificationModel.UserNotification, error)
	Upsert(tx dbmodel.TxInterface, maintainerID string) error
	MarkSeen(tx dbmodel.TxInterface, maintainerID string) error
}
