// Package pgerr classifies lib/pq driver errors.
package pgerr

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

const uniqueViolation = "23505"

func UniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func NoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
