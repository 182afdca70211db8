package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrDatabaseQuery      = errors.New("database query failed")
	ErrDatabaseConnection = errors.New("database connection failed")
)

func NewNotFound(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusNotFound,
		err:        tag(fmt.Sprintf("%s not found", entity), ErrNotFound),
	}
}

// NewDatabaseError classifies a store failure into the taxonomy. A cause that already is an
// *ApiErr (raised inside a transaction callback) is returned untouched.
func NewDatabaseError(operation, entity string, cause error) *ApiErr {
	var apiErr *ApiErr
	if errors.As(cause, &apiErr) {
		return apiErr
	}

	details := fmt.Sprintf("Failed to %s %s", operation, entity)

	if cause != nil {
		errStr := strings.ToLower(cause.Error())
		switch {
		case errors.Is(cause, gorm.ErrRecordNotFound):
			return &ApiErr{
				StatusCode: http.StatusNotFound,
				err:        tag(fmt.Sprintf("%s not found", entity), ErrNotFound),
				Details:    details,
				Cause:      cause,
			}
		case errors.Is(cause, gorm.ErrDuplicatedKey),
			strings.Contains(errStr, "duplicate key"),
			strings.Contains(errStr, "unique constraint"):
			return &ApiErr{
				StatusCode: http.StatusBadRequest,
				err:        tag(fmt.Sprintf("%s already exists", entity), ErrAlreadyExists, ErrConflict),
				Details:    details,
				Cause:      cause,
			}
		case errors.Is(cause, gorm.ErrForeignKeyViolated), strings.Contains(errStr, "foreign key constraint"):
			return &ApiErr{
				StatusCode: http.StatusBadRequest,
				err:        tag(fmt.Sprintf("invalid reference in %s", entity), ErrValidation),
				Details:    "The referenced resource does not exist or cannot be linked",
				Cause:      cause,
			}
		case strings.Contains(errStr, "connection refused"), strings.Contains(errStr, "connection reset"):
			return &ApiErr{
				StatusCode: http.StatusServiceUnavailable,
				err:        tag(ErrDatabaseConnection.Error(), ErrDatabaseConnection, ErrInternal),
				Details:    "Unable to connect to database",
				Cause:      cause,
			}
		}
	}

	// Generic database error
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        tag(ErrDatabaseQuery.Error(), ErrDatabaseQuery, ErrInternal),
		Details:    details,
		Cause:      cause,
	}
}

