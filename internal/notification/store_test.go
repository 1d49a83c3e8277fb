package notification

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbmodel "github.com/wso2/data-request-api/internal/system/database/model"
	"github.com/wso2/data-request-api/internal/system/database/provider"
)

func newTestStore(t *testing.T, dialect string) (*store, *provider.DBClient, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	client := provider.NewDBClient(sqlx.NewDb(db, "sqlmock"), dialect)
	return &store{dbClient: client}, client, mock
}

func TestStore_UpsertPerDialect(t *testing.T) {
	testCases := []struct {
		dialect string
		query   string
	}{
		{dbmodel.DialectMySQL, QueryUpsertNotification.Query},
		{dbmodel.DialectPostgres, QueryUpsertNotification.PostgresQuery},
	}

	for _, tc := range testCases {
		t.Run(tc.dialect, func(t *testing.T) {
			s, client, mock := newTestStore(t, tc.dialect)
			mock.ExpectBegin()
			mock.ExpectExec(tc.query).WithArgs("alice").WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectCommit()

			tx, err := client.BeginTx(context.Background())
			require.NoError(t, err)
			require.NoError(t, s.Upsert(tx, "alice"))
			require.NoError(t, tx.Commit())
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestStore_GetByMaintainerID(t *testing.T) {
	s, _, mock := newTestStore(t, dbmodel.DialectMySQL)
	mock.ExpectQuery(QueryGetNotificationByMaintainerID.Query).WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"package_maintainer_id", "seen"}).AddRow("alice", int64(0)))
	mock.ExpectQuery(QueryGetNotificationByMaintainerID.Query).WithArgs("carol").
		WillReturnRows(sqlmock.NewRows([]string{"package_maintainer_id", "seen"}))

	n, err := s.GetByMaintainerID(context.Background(), "alice")
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.Equal(t, "alice", n.PackageMaintainerID)
	assert.False(t, n.Seen)

	missing, err := s.GetByMaintainerID(context.Background(), "carol")
	require.NoError(t, err)
	assert.Nil(t, missing)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_MarkSeenOnMissingRow(t *testing.T) {
	s, client, mock := newTestStore(t, dbmodel.DialectMySQL)
	mock.ExpectBegin()
	mock.ExpectExec(QueryMarkNotificationSeen.Query).WithArgs("carol").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	tx, err := client.BeginTx(context.Background())
	require.NoError(t, err)
	assert.NoError(t, s.MarkSeen(tx, "carol"))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}
