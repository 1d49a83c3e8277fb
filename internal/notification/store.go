package notification

import (
	"context"

	"github.com/wso2/data-request-api/internal/notification/model"
	dbmodel "github.com/wso2/data-request-api/internal/system/database/model"
	"github.com/wso2/data-request-api/internal/system/database/provider"
	dbutils "github.com/wso2/data-request-api/internal/system/database/utils"
	"github.com/wso2/data-request-api/internal/system/stores/interfaces"
)

var (
	QueryUpsertNotification = dbmodel.DBQuery{
		ID: "UPSERT_REQUEST_NOTIFICATION",
		Query: "INSERT INTO DATA_REQUEST_NOTIFICATION (PACKAGE_MAINTAINER_ID, SEEN) VALUES (?, FALSE) " +
			"ON DUPLICATE KEY UPDATE SEEN = FALSE",
		PostgresQuery: "INSERT INTO DATA_REQUEST_NOTIFICATION (PACKAGE_MAINTAINER_ID, SEEN) VALUES (?, FALSE) " +
			"ON CONFLICT (PACKAGE_MAINTAINER_ID) DO UPDATE SET SEEN = FALSE",
	}

	QueryGetNotificationByMaintainerID = dbmodel.DBQuery{
		ID:    "GET_NOTIFICATION_BY_MAINTAINER_ID",
		Query: "SELECT PACKAGE_MAINTAINER_ID, SEEN FROM DATA_REQUEST_NOTIFICATION WHERE PACKAGE_MAINTAINER_ID = ?",
	}

	QueryMarkNotificationSeen = dbmodel.DBQuery{
		ID:    "MARK_NOTIFICATION_SEEN",
		Query: "UPDATE DATA_REQUEST_NOTIFICATION SET SEEN = TRUE WHERE PACKAGE_MAINTAINER_ID = ?",
	}
)

type store struct {
	dbClient provider.DBClientInterface
}

var _ interfaces.NotificationStore = (*store)(nil)

// NewNotificationStore creates the SQL backed notification store.
func NewNotificationStore(dbClient provider.DBClientInterface) interfaces.NotificationStore {
	return &store{dbClient: dbClient}
}

// Upsert marks maintainerID as having unseen activity, creating the row if needed.
func (s *store) Upsert(tx dbmodel.TxInterface, maintainerID string) error {
	_, err := tx.Exec(&QueryUpsertNotification, maintainerID)
	return err
}

// GetByMaintainerID returns nil when the maintainer was never notified.
func (s *store) GetByMaintainerID(ctx context.Context, maintainerID string) (*model.UserNotification, error) {
	rows, err := s.dbClient.Query(ctx, &QueryGetNotificationByMaintainerID, maintainerID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &model.UserNotification{
		PackageMaintainerID: dbutils.GetString(rows[0], "PACKAGE_MAINTAINER_ID"),
		Seen:                dbutils.GetBool(rows[0], "SEEN"),
	}, nil
}

// MarkSeen flips the flag to seen. A missing row is left missing.
func (s *store) MarkSeen(tx dbmodel.TxInterface, maintainerID string) error {
	_, err := tx.Exec(&QueryMarkNotificationSeen, maintainerID)
	return err
}
