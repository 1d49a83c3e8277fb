package datarequest

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/wso2/data-request-api/internal/datarequest/model"
	dbmodel "github.com/wso2/data-request-api/internal/system/database/model"
	"github.com/wso2/data-request-api/internal/system/database/provider"
	dbutils "github.com/wso2/data-request-api/internal/system/database/utils"
	"github.com/wso2/data-request-api/internal/system/stores/interfaces"
)

const requestColumns = "REQUEST_ID, SENDER_NAME, SENDER_USER_ID, ORGANIZATION, EMAIL_ADDRESS, MESSAGE_CONTENT, " +
	"PACKAGE_ID, STATE, DATA_SHARED, REJECTED, CREATED_AT, MODIFIED_AT"

var (
	QueryCreateRequest = dbmodel.DBQuery{
		ID:    "CREATE_DATA_REQUEST",
		Query: "INSERT INTO DATA_REQUEST (" + requestColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
	}

	QueryGetRequestByID = dbmodel.DBQuery{
		ID:    "GET_DATA_REQUEST_BY_ID",
		Query: "SELECT " + requestColumns + " FROM DATA_REQUEST WHERE REQUEST_ID = ?",
	}

	QueryGetRequestByIDAndPackage = dbmodel.DBQuery{
		ID:    "GET_DATA_REQUEST_BY_ID_AND_PACKAGE",
		Query: "SELECT " + requestColumns + " FROM DATA_REQUEST WHERE REQUEST_ID = ? AND PACKAGE_ID = ?",
	}

	// QueryUpdateRequest only matches when MODIFIED_AT still holds the value the caller loaded.
	QueryUpdateRequest = dbmodel.DBQuery{
		ID: "UPDATE_DATA_REQUEST",
		Query: "UPDATE DATA_REQUEST SET STATE = ?, DATA_SHARED = ?, REJECTED = ?, MODIFIED_AT = ? " +
			"WHERE REQUEST_ID = ? AND PACKAGE_ID = ? AND MODIFIED_AT = ?",
	}

	QueryGetMaintainersByRequestID = dbmodel.DBQuery{
		ID:    "GET_MAINTAINERS_BY_REQUEST_ID",
		Query: "SELECT REQUEST_ID, MAINTAINER_ID, EMAIL FROM DATA_REQUEST_MAINTAINER WHERE REQUEST_ID = ?",
	}
)

const (
	queryIDSearchRequests    = "SEARCH_DATA_REQUESTS"
	queryIDCreateMaintainers = "CREATE_DATA_REQUEST_MAINTAINERS"
)

// searchableColumns maps the logical field names accepted in search filters to columns.
var searchableColumns = map[string]string{
	"id":             "r.REQUEST_ID",
	"sender_user_id": "r.SENDER_USER_ID",
	"organization":   "r.ORGANIZATION",
	"email_address":  "r.EMAIL_ADDRESS",
	"package_id":     "r.PACKAGE_ID",
	"state":          "r.STATE",
	"data_shared":    "r.DATA_SHARED",
	"rejected":       "r.REJECTED",
	"created_at":     "r.CREATED_AT",
	"modified_at":    "r.MODIFIED_AT",
}

type store struct {
	dbClient provider.DBClientInterface
}

var _ interfaces.DataRequestStore = (*store)(nil)

// NewDataRequestStore creates the SQL backed data request store.
func NewDataRequestStore(dbClient provider.DBClientInterface) interfaces.DataRequestStore {
	return &store{dbClient: dbClient}
}

// Create inserts a request within a transaction
func (s *store) Create(tx dbmodel.TxInterface, r *model.DataRequest) error {
	_, err := tx.Exec(&QueryCreateRequest,
		r.ID, r.SenderName, r.SenderUserID, r.Organization, r.EmailAddress, r.MessageContent,
		r.PackageID, string(r.State), r.DataShared, r.Rejected, r.CreatedAt, r.ModifiedAt)
	if err != nil {
		return fmt.Errorf("failed to create data request: %w", err)
	}
	return nil
}

// CreateMaintainers inserts all assignments with a single multi-row statement.
func (s *store) CreateMaintainers(tx dbmodel.TxInterface, assignments []model.MaintainerAssignment) error {
	if len(assignments) == 0 {
		return nil
	}

	query := dbmodel.DBQuery{
		ID: queryIDCreateMaintainers,
		Query: "INSERT INTO DATA_REQUEST_MAINTAINER (REQUEST_ID, MAINTAINER_ID, EMAIL) VALUES " +
			dbutils.BuildValuesPlaceholders(len(assignments), 3),
	}
	args := make([]interface{}, 0, len(assignments)*3)
	for _, a := range assignments {
		args = append(args, a.RequestID, a.MaintainerID, a.Email)
	}

	if _, err := tx.Exec(&query, args...); err != nil {
		return fmt.Errorf("failed to create maintainer assignments: %w", err)
	}
	return nil
}

// Update writes the mutable fields of r, guarded by previousModifiedAt.
func (s *store) Update(tx dbmodel.TxInterface, r *model.DataRequest, previousModifiedAt int64) error {
	affected, err := tx.Exec(&QueryUpdateRequest,
		string(r.State), r.DataShared, r.Rejected, r.ModifiedAt,
		r.ID, r.PackageID, previousModifiedAt)
	if err != nil {
		return fmt.Errorf("failed to update data request: %w", err)
	}
	if affected == 0 {
		return model.ErrRequestModified
	}
	return nil
}

// GetByID returns nil when no request matches. An empty packageID matches any dataset.
func (s *store) GetByID(ctx context.Context, requestID, packageID string) (*model.DataRequest, error) {
	var (
		rows []map[string]interface{}
		err  error
	)
	if packageID == "" {
		rows, err = s.dbClient.Query(ctx, &QueryGetRequestByID, requestID)
	} else {
		rows, err = s.dbClient.Query(ctx, &QueryGetRequestByIDAndPackage, requestID, packageID)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	request := mapToDataRequest(rows[0])
	return &request, nil
}

func (s *store) GetMaintainers(ctx context.Context, requestID string) ([]model.MaintainerAssignment, error) {
	rows, err := s.dbClient.Query(ctx, &QueryGetMaintainersByRequestID, requestID)
	if err != nil {
		return nil, err
	}
	assignments := make([]model.MaintainerAssignment, 0, len(rows))
	for _, row := range rows {
		assignments = append(assignments, model.MaintainerAssignment{
			RequestID:    dbutils.GetString(row, "REQUEST_ID"),
			MaintainerID: dbutils.GetString(row, "MAINTAINER_ID"),
			Email:        dbutils.GetString(row, "EMAIL"),
		})
	}
	return assignments, nil
}

// Search returns requests matching every filter. Results come back in the
// database's order unless filters.OrderBy is set.
func (s *store) Search(ctx context.Context, filters model.RequestSearchFilters) ([]model.DataRequest, error) {
	if filters.PackageIDs != nil && len(filters.PackageIDs) == 0 {
		return []model.DataRequest{}, nil
	}

	query, args, err := buildSearchQuery(filters)
	if err != nil {
		return nil, err
	}

	rows, err := s.dbClient.Query(ctx, &dbmodel.DBQuery{ID: queryIDSearchRequests, Query: query}, args...)
	if err != nil {
		return nil, err
	}

	requests := make([]model.DataRequest, 0, len(rows))
	for _, row := range rows {
		requests = append(requests, mapToDataRequest(row))
	}
	return requests, nil
}

func buildSearchQuery(filters model.RequestSearchFilters) (string, []interface{}, error) {
	selectCols := "r." + strings.ReplaceAll(requestColumns, ", ", ", r.")
	base := "SELECT " + selectCols + " FROM DATA_REQUEST r"

	conditions := make([]string, 0)
	args := make([]interface{}, 0)

	if filters.MaintainerID != "" {
		base = "SELECT DISTINCT " + selectCols + " FROM DATA_REQUEST r " +
			"INNER JOIN DATA_REQUEST_MAINTAINER m ON m.REQUEST_ID = r.REQUEST_ID"
		conditions = append(conditions, "m.MAINTAINER_ID = ?")
		args = append(args, filters.MaintainerID)
	}

	keys := make([]string, 0, len(filters.Equals))
	for key := range filters.Equals {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		column, ok := searchableColumns[key]
		if !ok {
			return "", nil, fmt.Errorf("%w: %s", model.ErrUnsupportedFilter, key)
		}
		conditions = append(conditions, column+" = ?")
		args = append(args, filters.Equals[key])
	}

	if len(filters.PackageIDs) > 0 {
		inClause, inArgs, err := sqlx.In("r.PACKAGE_ID IN (?)", filters.PackageIDs)
		if err != nil {
			return "", nil, fmt.Errorf("failed to expand package ids: %w", err)
		}
		conditions = append(conditions, inClause)
		args = append(args, inArgs...)
	}

	query := dbutils.BuildWhereClause(base, conditions)

	if filters.OrderBy != "" {
		column, ok := searchableColumns[filters.OrderBy]
		if !ok {
			return "", nil, fmt.Errorf("%w: order by %s", model.ErrUnsupportedFilter, filters.OrderBy)
		}
		query = dbutils.BuildOrderByQuery(query, column, filters.Ascending)
	}
	if filters.Limit > 0 {
		query = dbutils.BuildLimitQuery(query, filters.Limit)
	}
	return query, args, nil
}

func mapToDataRequest(row map[string]interface{}) model.DataRequest {
	return model.DataRequest{
		ID:             dbutils.GetString(row, "REQUEST_ID"),
		SenderName:     dbutils.GetString(row, "SENDER_NAME"),
		SenderUserID:   dbutils.GetString(row, "SENDER_USER_ID"),
		Organization:   dbutils.GetString(row, "ORGANIZATION"),
		EmailAddress:   dbutils.GetString(row, "EMAIL_ADDRESS"),
		MessageContent: dbutils.GetString(row, "MESSAGE_CONTENT"),
		PackageID:      dbutils.GetString(row, "PACKAGE_ID"),
		State:          model.State(dbutils.GetString(row, "STATE")),
		DataShared:     dbutils.GetBool(row, "DATA_SHARED"),
		Rejected:       dbutils.GetBool(row, "REJECTED"),
		CreatedAt:      dbutils.GetInt64(row, "CREATED_AT"),
		ModifiedAt:     dbutils.GetInt64(row, "MODIFIED_AT"),
	}
}
