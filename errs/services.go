package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Third-Party Service Errors
var (
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrEmailDelivery      = errors.New("email delivery failed")
	ErrStorage            = errors.New("object storage failed")
	ErrImageProcessing    = errors.New("image processing failed")
	ErrNotification       = errors.New("notification failed")
	ErrPartialFailure     = errors.New("partial failure")
)

// Configuration & Environment Errors
var (
	ErrConfigMissing = errors.New("configuration missing")
	ErrConfigInvalid = errors.New("configuration invalid")
)

func NewServiceUnreachableError(service string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        tag(ErrServiceUnavailable.Error(), ErrServiceUnavailable, ErrInternal),
		Details:    fmt.Sprintf("Service %s is unreachable", service),
		Cause:      cause,
		Field:      "service",
	}
}

func NewEmailDeliveryError(recipient string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        tag("Failed to send email", ErrEmailDelivery, ErrInternal),
		Details:    fmt.Sprintf("delivery to %s failed", recipient),
		Cause:      cause,
	}
}

func NewStorageError(operation, key string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        tag("File storage failed", ErrStorage, ErrInternal),
		Details:    fmt.Sprintf("%s %s", operation, key),
		Cause:      cause,
	}
}

func NewImageProcessingError(cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        tag("Uploaded image could not be processed", ErrImageProcessing, ErrValidation),
		Cause:      cause,
		Field:      "thumbnailImg",
	}
}

func NewNotificationError(channel string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        tag(ErrNotification.Error(), ErrNotification, ErrInternal),
		Details:    channel,
		Cause:      cause,
	}
}

func NewPartialFailureError(operation string, failed, total int) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        tag(ErrPartialFailure.Error(), ErrPartialFailure, ErrInternal),
		Details:    fmt.Sprintf("%s: %d of %d steps failed", operation, failed, total),
	}
}

// Configuration & Environment Error Constructors
func NewConfigError(configName string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        tag(ErrConfigInvalid.Error(), ErrConfigInvalid, ErrInternal),
		Details:    fmt.Sprintf("Configuration error for %s", configName),
		Cause:      cause,
		Field:      configName,
	}
}

func NewConfigMissingError(configName string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        tag(ErrConfigMissing.Error(), ErrConfigMissing, ErrInternal),
		Details:    fmt.Sprintf("%s is not set", configName),
		Field:      configName,
	}
}
