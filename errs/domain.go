package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Content errors raised by the repositories
var (
	ErrDuplicateSlug       = errors.New("duplicate slug")
	ErrDuplicateCategory   = errors.New("duplicate category")
	ErrDuplicateSkillName  = errors.New("duplicate skill name")
	ErrIncompleteSkill     = errors.New("incomplete skill")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrSkillNotFound       = errors.New("skill not found")
	ErrInvalidCategory     = errors.New("invalid category")
	ErrMalformedIdentifier = errors.New("malformed identifier")
)

func NewDuplicateSlugError(slug string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        tag("A blog with this title already exists", ErrDuplicateSlug, ErrConflict),
		Details:    fmt.Sprintf("slug %q is taken", slug),
		Field:      "title",
	}
}

func NewDuplicateCategoryError(name string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        tag("Category already exists", ErrDuplicateCategory, ErrConflict),
		Details:    name,
		Field:      "category",
	}
}

// NewDuplicateSkillNameError is a validation failure when the clash is inside the submitted
// list and a conflict when the name is already stored.
func NewDuplicateSkillNameError(name string, stored bool) *ApiErr {
	taxonomy := ErrValidation
	msg := "Duplicate skill names are not allowed"
	if stored {
		taxonomy = ErrConflict
		msg = fmt.Sprintf("Skill '%s' already exists", name)
	}
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        tag(msg, ErrDuplicateSkillName, taxonomy),
		Details:    name,
		Field:      "skills",
	}
}

func NewIncompleteSkillError(index int) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        tag("Each skill must have name, level, and icon", ErrIncompleteSkill, ErrValidation),
		Details:    fmt.Sprintf("skill at position %d", index),
		Field:      "skills",
	}
}

func NewCategoryNotFoundError(ref string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusNotFound,
		err:        tag("Category not found", ErrCategoryNotFound, ErrNotFound),
		Details:    ref,
		Field:      "category",
	}
}

func NewSkillNotFoundError(ref string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusNotFound,
		err:        tag("Skill not found", ErrSkillNotFound, ErrNotFound),
		Details:    ref,
	}
}

// NewInvalidCategoryError is binary: it never names which of the references failed
func NewInvalidCategoryError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        tag("One or more categories are invalid", ErrInvalidCategory, ErrValidation),
		Field:      "category",
	}
}

// NewMalformedIdentifierError is used where a malformed id is rejected as input
func NewMalformedIdentifierError(field, value string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        tag(fmt.Sprintf("Invalid %s id", field), ErrMalformedIdentifier, ErrValidation),
		Details:    value,
		Field:      field,
	}
}

// NewMalformedLookupError is used where a malformed id simply cannot resolve: it is a not-found
// that still tells the caller the identifier was never valid.
func NewMalformedLookupError(entity, value string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusNotFound,
		err:        tag(fmt.Sprintf("%s not found", entity), ErrMalformedIdentifier, ErrNotFound),
		Details:    fmt.Sprintf("%q is neither a known slug nor a valid id", value),
	}
}

func IsDuplicateSlug(err error) bool {
	return errors.Is(err, ErrDuplicateSlug)
}

func IsDuplicateSkillName(err error) bool {
	return errors.Is(err, ErrDuplicateSkillName)
}

func IsMalformedIdentifier(err error) bool {
	return errors.Is(err, ErrMalformedIdentifier)
}
