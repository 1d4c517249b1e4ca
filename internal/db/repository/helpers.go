// Package repository implements the domain store interfaces using SQLite.
package repository

import (
	"database/sql"
	"errors"
	"strings"

	"admin-console/internal/domain"
)

func mapDBError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.NotFoundError{Message: "account not found"}
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return &domain.ConflictError{Message: "an account with this email already exists"}
	}
	return err
}
