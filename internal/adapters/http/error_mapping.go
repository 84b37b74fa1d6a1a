package httpadapter

import (
	"net/http"

	"github.com/agrostack/agridocs/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrDocumentNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrConfiguration):
		return http.StatusUnprocessableEntity
	case domain.IsKind(err, domain.ErrUnavailable),
		domain.IsKind(err, domain.ErrTransient),
		domain.IsKind(err, domain.ErrResourceExhausted):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
