package rest

import (
	"fmt"
	"log/slog"
	"net/http"

	producterrors "github.com/abgdnv/skuservice/internal/errors"
	"github.com/abgdnv/skuservice/pkg/web"
)

const (
	ErrorCodeValidation    = "VALIDATION_ERROR"
	ErrorCodeNotFound      = "PRODUCT_NOT_FOUND"
	ErrorCodeAlreadyExists = "PRODUCT_ALREADY_EXISTS"
	ErrorCodeInternal      = web.ErrorCodeInternal
)

// errorResponse maps a domain failure to its status code and wire body.
func errorResponse(err error) (int, web.ErrorResponse) {
	de := producterrors.As(err)
	switch de.Kind {
	case producterrors.KindValidationFailed:
		return http.StatusBadRequest, web.ErrorResponse{
			Message:   "Product validation failed",
			ErrorCode: ErrorCodeValidation,
			Details:   de.Violations,
		}
	case producterrors.KindAlreadyExists:
		return http.StatusConflict, web.ErrorResponse{
			Message:   "Product already exists",
			ErrorCode: ErrorCodeAlreadyExists,
			Details:   []string{fmt.Sprintf("A product with SKU %s or name %s already exists", de.SKU, de.Name)},
		}
	case producterrors.KindNotFound:
		return http.StatusNotFound, web.ErrorResponse{
			Message:   "Product not found",
			ErrorCode: ErrorCodeNotFound,
			Details:   []string{fmt.Sprintf("Could not find a product with SKU %s", de.SKU)},
		}
	case producterrors.KindPublishFailed, producterrors.KindUnclassified:
		fallthrough
	default:
		// only the triggering message reaches the client, never the wrapped cause
		return http.StatusInternalServerError, web.ErrorResponse{
			Message:   "Internal server error",
			ErrorCode: ErrorCodeInternal,
			Details:   []string{de.Message},
		}
	}
}

func respondDomainError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status, body := errorResponse(err)
	if body.Details == nil {
		body.Details = []string{}
	}
	web.RespondJSON(w, logger, status, body)
}
