/*
 * Copyright (c) 2026, WSO2 LLC. (https://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	dbmodel "github.com/wso2/data-request-api/internal/system/database/model"
)

// DBClientInterface executes named queries against the data request datasource.
// Query returns each row as a map keyed by upper-case column name.
type DBClientInterface interface {
	Query(ctx context.Context, query dbmodel.DBQueryInterface, args ...interface{}) ([]map[string]interface{}, error)
	Execute(ctx context.Context, query dbmodel.DBQueryInterface, args ...interface{}) (int64, error)
	BeginTx(ctx context.Context) (dbmodel.TxInterface, error)
	DBType() string
}

// DBClient is the sqlx backed DBClientInterface.
type DBClient struct {
	db     *sqlx.DB
	dbType string
}

var _ DBClientInterface = (*DBClient)(nil)

// NewDBClient creates a client over db. Placeholders are rebound for the driver db was opened with.
func NewDBClient(db *sqlx.DB, dbType string) *DBClient {
	return &DBClient{db: db, dbType: dbType}
}

// DBType returns the dialect the client renders queries for.
func (c *DBClient) DBType() string {
	return c.dbType
}

// Query runs a SELECT and returns all rows.
func (c *DBClient) Query(ctx context.Context, query dbmodel.DBQueryInterface, args ...interface{}) ([]map[string]interface{}, error) {
	rows, err := c.db.QueryxContext(ctx, c.db.Rebind(query.GetQuery(c.dbType)), args...)
	if err != nil {
		return nil, fmt.Errorf("query %s failed: %w", query.GetID(), err)
	}
	defer rows.Close()

	results, err := scanRows(rows)
	if err != nil {
		return nil, fmt.Errorf("query %s failed: %w", query.GetID(), err)
	}
	return results, nil
}

// Execute runs a statement and returns the number of affected rows.
func (c *DBClient) Execute(ctx context.Context, query dbmodel.DBQueryInterface, args ...interface{}) (int64, error) {
	result, err := c.db.ExecContext(ctx, c.db.Rebind(query.GetQuery(c.dbType)), args...)
	if err != nil {
		return 0, fmt.Errorf("statement %s failed: %w", query.GetID(), err)
	}
	return result.RowsAffected()
}

// BeginTx starts a transaction bound to ctx.
func (c *DBClient) BeginTx(ctx context.Context) (dbmodel.TxInterface, error) {
	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &transaction{ctx: ctx, tx: tx, dbType: c.dbType}, nil
}

type transaction struct {
	ctx    context.Context
	tx     *sqlx.Tx
	dbType string
}

func (t *transaction) Exec(query dbmodel.DBQueryInterface, args ...interface{}) (int64, error) {
	result, err := t.tx.ExecContext(t.ctx, t.tx.Rebind(query.GetQuery(t.dbType)), args...)
	if err != nil {
		return 0, fmt.Errorf("statement %s failed: %w", query.GetID(), err)
	}
	return result.RowsAffected()
}

func (t *transaction) Query(query dbmodel.DBQueryInterface, args ...interface{}) ([]map[string]interface{}, error) {
	rows, err := t.tx.QueryxContext(t.ctx, t.tx.Rebind(query.GetQuery(t.dbType)), args...)
	if err != nil {
		return nil, fmt.Errorf("query %s failed: %w", query.GetID(), err)
	}
	defer rows.Close()
	return scanRows(rows)
}

func (t *transaction) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (t *transaction) Rollback() error {
	if err := t.tx.Rollback(); err != nil {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

// scanRows reads every row into a map. Column names are upper-cased since
// PostgreSQL folds unquoted identifiers to lower case, and []byte values from
// the MySQL driver are turned into strings.
func scanRows(rows *sqlx.Rows) ([]map[string]interface{}, error) {
	results := make([]map[string]interface{}, 0)
	for rows.Next() {
		raw := make(map[string]interface{})
		if err := rows.MapScan(raw); err != nil {
			return nil, err
		}
		row := make(map[string]interface{}, len(raw))
		for key, value := range raw {
			if b, ok := value.([]byte); ok {
				value = string(b)
			}
			row[strings.ToUpper(key)] = value
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
