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

// Package provider provides functionality for managing database connections and clients.
package provider

import (
	"fmt"
	"sync"

	"github.com/wso2/data-request-api/internal/system/database"
	"github.com/wso2/data-request-api/internal/system/log"
)

// DBProviderInterface defines the interface for getting database clients.
type DBProviderInterface interface {
	GetDataRequestDBClient() (DBClientInterface, error)
}

// DBProviderCloser is a separate interface for closing the provider.
// Only the lifecycle manager should use this interface.
type DBProviderCloser interface {
	Close() error
}

type dbProvider struct {
	client DBClientInterface
	mutex  sync.RWMutex
	db     *database.DB
}

var (
	instance *dbProvider
	once     sync.Once
)

// InitDBProvider initializes the singleton instance of DBProvider with the database connection.
func InitDBProvider(db *database.DB) {
	once.Do(func() {
		instance = &dbProvider{
			db: db,
		}
	})
}

// GetDBProvider returns the instance of DBProvider.
func GetDBProvider() DBProviderInterface {
	if instance == nil {
		panic("DBProvider not initialized. Call InitDBProvider first.")
	}
	return instance
}

// GetDBProviderCloser returns the DBProvider with closing capability.
// This should only be called from the main lifecycle manager.
func GetDBProviderCloser() DBProviderCloser {
	if instance == nil {
		panic("DBProvider not initialized. Call InitDBProvider first.")
	}
	return instance
}

// GetDataRequestDBClient returns the client for the data request datasource, creating it on first use.
// The client shares the pool owned by database.DB and does not need closing.
func (d *dbProvider) GetDataRequestDBClient() (DBClientInterface, error) {
	d.mutex.RLock()
	if d.client != nil {
		defer d.mutex.RUnlock()
		return d.client, nil
	}
	d.mutex.RUnlock()

	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.client != nil {
		return d.client, nil
	}
	if d.db == nil || d.db.DB == nil {
		return nil, fmt.Errorf("database connection is not initialized")
	}

	d.client = NewDBClient(d.db.DB, d.db.Type())
	log.GetLogger().With(log.String(log.LoggerKeyComponentName, "DBProvider")).
		Debug("Data request DB client initialized", log.String("type", d.db.Type()))
	return d.client, nil
}

// Close releases the client and closes the underlying database connection.
func (d *dbProvider) Close() error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	log.GetLogger().With(log.String(log.LoggerKeyComponentName, "DBProvider")).Debug("Closing database connections")
	d.client = nil

	if d.db != nil {
		if err := d.db.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}
	return nil
}
