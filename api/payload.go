package api

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-cms-backend/errs"
)

const (
	maxJSONBody   int64 = 1 << 20
	maxUploadBody int64 = 10 << 20
	maxFormMemory int64 = 8 << 20
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateRequest runs the struct tags and reports the first failing field
func validateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return errs.NewInvalidJSONError(err)
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required", "required_without", "required_unless":
		return errs.NewMissingRequiredFieldError(fe.Field())
	case "email":
		return errs.NewInvalidFieldError(fe.Field(), "must be a valid email address")
	case "oneof":
		return errs.NewInvalidFieldError(fe.Field(), "must be one of: "+fe.Param())
	case "min":
		return errs.NewInvalidFieldError(fe.Field(), "must have at least "+fe.Param()+" characters or items")
	case "max":
		return errs.NewInvalidFieldError(fe.Field(), "must have at most "+fe.Param()+" characters or items")
	case "url", "http_url":
		return errs.NewInvalidFieldError(fe.Field(), "must be a valid URL")
	default:
		return errs.NewInvalidFieldError(fe.Field(), "failed "+fe.Tag()+" validation")
	}
}

// decodeJSON reads a size-capped JSON body into dst
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return decodeError(err, maxJSONBody)
	}
	return nil
}

func decodeError(err error, limit int64) error {
	var maxErr *http.MaxBytesError
	var fe *fieldError
	switch {
	case errors.As(err, &maxErr):
		return errs.NewMaxBodySizeExceededError(limit)
	case errors.As(err, &fe):
		return errs.NewInvalidFieldError(fe.field, fe.reason)
	case errors.Is(err, io.EOF):
		return errs.NewInvalidJSONError(errors.New("request body is empty"))
	default:
		return errs.NewInvalidJSONError(err)
	}
}

// decodePayload accepts JSON, urlencoded or multipart bodies. Form values are re-encoded as JSON
// so a single DTO with lenient field types serves every encoding. When fileField is not empty
// and the body is multipart, the uploaded file header is returned (nil when absent).
func decodePayload(w http.ResponseWriter, r *http.Request, dst any, fileField string) (*multipart.FileHeader, error) {
	contentType := r.Header.Get("Content-Type")
	mediaType := "application/json"
	if contentType != "" {
		parsed, _, err := mime.ParseMediaType(contentType)
		if err != nil {
			return nil, errs.NewUnsupportedMediaTypeError(contentType, acceptedMediaTypes)
		}
		mediaType = parsed
	}

	switch mediaType {
	case "application/json":
		return nil, decodeJSON(w, r, dst)
	case "multipart/form-data":
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
		if err := r.ParseMultipartForm(maxFormMemory); err != nil {
			return nil, decodeError(err, maxUploadBody)
		}
		if err := decodeForm(r.MultipartForm.Value, dst); err != nil {
			return nil, err
		}
		if fileField == "" {
			return nil, nil
		}
		files := r.MultipartForm.File[fileField]
		if len(files) == 0 {
			return nil, nil
		}
		return files[0], nil
	case "application/x-www-form-urlencoded":
		r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
		if err := r.ParseForm(); err != nil {
			return nil, decodeError(err, maxJSONBody)
		}
		return nil, decodeForm(r.PostForm, dst)
	default:
		return nil, errs.NewUnsupportedMediaTypeError(contentType, acceptedMediaTypes)
	}
}

var acceptedMediaTypes = []string{"application/json", "multipart/form-data", "application/x-www-form-urlencoded"}

func decodeForm(values url.Values, dst any) error {
	merged := make(map[string][]string, len(values))
	asList := make(map[string]bool)
	for key, vals := range values {
		name := strings.TrimSuffix(key, "[]")
		if name != key {
			asList[name] = true
		}
		merged[name] = append(merged[name], vals...)
	}
	fields := make(map[string]any, len(merged))
	for name, vals := range merged {
		if len(vals) == 1 && !asList[name] {
			fields[name] = vals[0]
		} else {
			fields[name] = vals
		}
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return errs.NewInvalidJSONError(err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return decodeError(err, maxUploadBody)
	}
	return nil
}

// pathID parses a chi URL parameter as a UUID
func pathID(r *http.Request, param, entity string) (uuid.UUID, error) {
	raw := chi.URLParam(r, param)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errs.NewMalformedIdentifierError(entity, raw)
	}
	return id, nil
}

// parseIDs turns identifiers into UUIDs, rejecting the first malformed one
func parseIDs(field string, raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, errs.NewMalformedIdentifierError(field, s)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
