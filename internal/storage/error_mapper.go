package storage

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/regtech-horizon/regtech-backend/internal/shared/apperror"
)

// normalizeWriteError folds driver-level failures into the public taxonomy.
// The message names the entity, never the constraint or the driver text.
func normalizeWriteError(err error, entity string) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return apperror.Wrap(err, apperror.CodeConflict,
				"A "+entity+" with the same unique field already exists", http.StatusBadRequest)
		case "23503", "23502", "23514":
			return apperror.Wrap(err, apperror.CodeInvalidInput,
				"Failed to write "+entity+": invalid request", http.StatusBadRequest)
		}
	}

	// Some paths (sqlite in tests, wrapped gorm errors) lose the PgError
	// type; fall back to message sniffing the way the error mappers in the
	// rest of the codebase do.
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "duplicate key value"), strings.Contains(msg, "unique constraint"):
		return apperror.Wrap(err, apperror.CodeConflict,
			"A "+entity+" with the same unique field already exists", http.StatusBadRequest)
	case strings.Contains(msg, "violates"), strings.Contains(msg, "constraint failed"):
		return apperror.Wrap(err, apperror.CodeInvalidInput,
			"Failed to write "+entity+": invalid request", http.StatusBadRequest)
	}

	return apperror.Wrap(err, apperror.CodeInternalError,
		"An unexpected error occurred", http.StatusInternalServerError)
}
