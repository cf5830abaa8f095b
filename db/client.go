package db

import (
	"database/sql"

	"github.com/mindpath-app/mindpath/log"
)

// QueryParam represents a parameter for database queries
type QueryParam interface{}

func (d *DB) logQuery(kind string, query string, params []QueryParam) {
	if !d.logQueries {
		return
	}
	log.Debug().
		Str("kind", kind).
		Str("sql", query).
		Interface("params", params).
		Msg("db query")
}

// Select runs a SELECT query returning multiple rows.
// The scanner function is called for each row to map results.
func Select[T any](d *DB, query string, params []QueryParam, scanner func(*sql.Rows) (T, error)) ([]T, error) {
	d.logQuery("select", query, params)

	args := make([]interface{}, len(params))
	for i, p := range params {
		args[i] = p
	}

	rows, err := d.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []T
	for rows.Next() {
		item, err := scanner(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

// SelectOne runs a SELECT query returning a single row (or nil if not found)
func SelectOne[T any](d *DB, query string, params []QueryParam, scanner func(*sql.Row) (T, error)) (*T, error) {
	d.logQuery("get", query, params)

	args := make([]interface{}, len(params))
	for i, p := range params {
		args[i] = p
	}

	row := d.conn.QueryRow(query, args...)
	result, err := scanner(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// Run executes an INSERT/UPDATE/DELETE query
func (d *DB) Run(query string, params ...QueryParam) (sql.Result, error) {
	d.logQuery("run", query, params)

	args := make([]interface{}, len(params))
	for i, p := range params {
		args[i] = p
	}

	return d.conn.Exec(query, args...)
}

// Exists checks if a row exists matching the query
func (d *DB) Exists(query string, params ...QueryParam) (bool, error) {
	d.logQuery("exists", query, params)

	args := make([]interface{}, len(params))
	for i, p := range params {
		args[i] = p
	}

	var exists bool
	err := d.conn.QueryRow("SELECT EXISTS("+query+")", args...).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

// Count returns the count of rows matching the query
func (d *DB) Count(query string, params ...QueryParam) (int64, error) {
	d.logQuery("count", query, params)

	args := make([]interface{}, len(params))
	for i, p := range params {
		args[i] = p
	}

	var count int64
	err := d.conn.QueryRow(query, args...).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}
