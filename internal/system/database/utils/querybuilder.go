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

package utils

import (
	"fmt"
	"strings"
)

// BuildWhereClause joins conditions with AND and prefixes WHERE. No conditions yields the base query.
func BuildWhereClause(baseQuery string, conditions []string) string {
	if len(conditions) == 0 {
		return baseQuery
	}
	return fmt.Sprintf("%s WHERE %s", baseQuery, strings.Join(conditions, " AND "))
}

// BuildOrderByQuery adds ORDER BY clause to a query.
func BuildOrderByQuery(baseQuery string, orderBy string, ascending bool) string {
	direction := "ASC"
	if !ascending {
		direction = "DESC"
	}
	return fmt.Sprintf("%s ORDER BY %s %s", baseQuery, orderBy, direction)
}

// BuildLimitQuery adds a LIMIT clause to a query.
func BuildLimitQuery(baseQuery string, limit int) string {
	return fmt.Sprintf("%s LIMIT %d", baseQuery, limit)
}

// BuildValuesPlaceholders renders "(?, ?), (?, ?)" for a multi-row insert.
func BuildValuesPlaceholders(rows, columns int) string {
	if rows <= 0 || columns <= 0 {
		return ""
	}
	row := "(" + strings.TrimSuffix(strings.Repeat("?, ", columns), ", ") + ")"
	return strings.TrimSuffix(strings.Repeat(row+", ", rows), ", ")
}
