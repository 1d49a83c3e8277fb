package counters

import (
	"context"
	"fmt"

	"github.com/wso2/data-request-api/internal/counters/model"
	dbmodel "github.com/wso2/data-request-api/internal/system/database/model"
	"github.com/wso2/data-request-api/internal/system/database/provider"
	dbutils "github.com/wso2/data-request-api/internal/system/database/utils"
	"github.com/wso2/data-request-api/internal/system/stores/interfaces"
)

const counterColumns = "PACKAGE_ID, ORG_ID, REQUESTS, REPLIED, DECLINED, SHARED"

var (
	// QueryIncrementCounters creates the row on first use and adds the deltas afterwards.
	// Args: package id, org id, replied, declined, shared (new row) then
	// requests, replied, declined, shared (existing row).
	QueryIncrementCounters = dbmodel.DBQuery{
		ID: "INCREMENT_REQUEST_COUNTERS",
		Query: "INSERT INTO DATA_REQUEST_COUNTERS (" + counterColumns + ") VALUES (?, ?, 1, ?, ?, ?) " +
			"ON DUPLICATE KEY UPDATE REQUESTS = REQUESTS + ?, REPLIED = REPLIED + ?, " +
			"DECLINED = DECLINED + ?, SHARED = SHARED + ?",
		PostgresQuery: "INSERT INTO DATA_REQUEST_COUNTERS (" + counterColumns + ") VALUES (?, ?, 1, ?, ?, ?) " +
			"ON CONFLICT (PACKAGE_ID) DO UPDATE SET REQUESTS = DATA_REQUEST_COUNTERS.REQUESTS + ?, " +
			"REPLIED = DATA_REQUEST_COUNTERS.REPLIED + ?, DECLINED = DATA_REQUEST_COUNTERS.DECLINED + ?, " +
			"SHARED = DATA_REQUEST_COUNTERS.SHARED + ?",
	}

	QueryGetCountersByPackageID = dbmodel.DBQuery{
		ID:    "GET_COUNTERS_BY_PACKAGE_ID",
		Query: "SELECT " + counterColumns + " FROM DATA_REQUEST_COUNTERS WHERE PACKAGE_ID = ?",
	}

	QueryGetCountersByOrgID = dbmodel.DBQuery{
		ID:    "GET_COUNTERS_BY_ORG_ID",
		Query: "SELECT " + counterColumns + " FROM DATA_REQUEST_COUNTERS WHERE ORG_ID = ? ORDER BY PACKAGE_ID",
	}

	QueryGetAllCounters = dbmodel.DBQuery{
		ID:    "GET_ALL_COUNTERS",
		Query: "SELECT " + counterColumns + " FROM DATA_REQUEST_COUNTERS ORDER BY PACKAGE_ID",
	}
)

// store implements the CountersStore interface
type store struct {
	dbClient provider.DBClientInterface
}

var _ interfaces.CountersStore = (*store)(nil)

// NewCountersStore creates the SQL backed counters store.
func NewCountersStore(dbClient provider.DBClientInterface) interfaces.CountersStore {
	return &store{dbClient: dbClient}
}

// Increment applies flag to the counters of packageID in one statement, so
// concurrent increments never lose updates.
func (s *store) Increment(tx dbmodel.TxInterface, packageID, orgID string, flag model.Flag) error {
	d := flag.Delta()
	affected, err := tx.Exec(&QueryIncrementCounters,
		packageID, orgID, d.Replied, d.Declined, d.Shared,
		d.Requests, d.Replied, d.Declined, d.Shared)
	if err != nil {
		return fmt.Errorf("failed to increment counters for package %s: %w", packageID, err)
	}
	if affected == 0 {
		return model.ErrCounterNotApplied
	}
	return nil
}

// GetByPackageID returns nil when the dataset has never been counted.
func (s *store) GetByPackageID(ctx context.Context, packageID string) (*model.RequestCounters, error) {
	rows, err := s.dbClient.Query(ctx, &QueryGetCountersByPackageID, packageID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	counters := mapToCounters(rows[0])
	return &counters, nil
}

func (s *store) GetByOrgID(ctx context.Context, orgID string) ([]model.RequestCounters, error) {
	rows, err := s.dbClient.Query(ctx, &QueryGetCountersByOrgID, orgID)
	if err != nil {
		return nil, err
	}
	return mapToCountersList(rows), nil
}

func (s *store) GetAll(ctx context.Context) ([]model.RequestCounters, error) {
	rows, err := s.dbClient.Query(ctx, &QueryGetAllCounters)
	if err != nil {
		return nil, err
	}
	return mapToCountersList(rows), nil
}

func mapToCountersList(rows []map[string]interface{}) []model.RequestCounters {
	result := make([]model.RequestCounters, 0, len(rows))
	for _, row := range rows {
		result = append(result, mapToCounters(row))
	}
	return result
}

func mapToCounters(row map[string]interface{}) model.RequestCounters {
	return model.RequestCounters{
		PackageID: dbutils.GetString(row, "PACKAGE_ID"),
		OrgID:     dbutils.GetString(row, "ORG_ID"),
		Requests:  dbutils.GetInt64(row, "REQUESTS"),
		Replied:   dbutils.GetInt64(row, "REPLIED"),
		Declined:  dbutils.GetInt64(row, "DECLINED"),
		Shared:    dbutils.GetInt64(row, "SHARED"),
	}
}
