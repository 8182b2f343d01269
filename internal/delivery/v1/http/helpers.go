package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/go-chi/chi/v5"
)

const maxRequestBodySize = 1 << 20

const (
	msgValidationError = "Validation error"
	msgProductNotFound = "Product not found"
	msgNoProducts      = "No products available"
	msgBodyTooLarge    = "Request body too large"
	msgBodyNotObject   = "The request body must be a JSON object."
)

// ToHTTPResponse переводит ошибку сервиса в HTTP-статус и тело ответа.
// internalMsg — текст для 500, свой у каждой операции.
func ToHTTPResponse(err error, internalMsg string) (int, *ErrorResponse) {
	var verr *e.ValidationError

	switch {
	case errors.As(err, &verr):
		resp := NewErrorResponse(msgValidationError)
		resp.Errors = verr.Fields
		return http.StatusUnprocessableEntity, resp
	case errors.Is(err, e.ErrProductNotFound):
		return http.StatusNotFound, NewErrorResponse(msgProductNotFound)
	case errors.Is(err, e.ErrRequestTooLarge):
		return http.StatusRequestEntityTooLarge, NewErrorResponse(msgBodyTooLarge)
	default:
		resp := NewErrorResponse(internalMsg)
		resp.Error = err.Error()
		return http.StatusInternalServerError, resp
	}
}

func WriteError(w http.ResponseWriter, err error, internalMsg string) int {
	code, resp := ToHTTPResponse(err, internalMsg)
	WriteSuccess(w, code, resp)
	return code
}

func WriteSuccess(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// decodePayload читает тело запроса как JSON-объект.
// Пустое тело трактуется как объект без полей.
func decodePayload(w http.ResponseWriter, r *http.Request) (usecase.ProductPayload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, e.ErrRequestTooLarge
		}
		return nil, err
	}

	payload := make(usecase.ProductPayload)
	if len(body) == 0 {
		return payload, nil
	}

	if err := json.Unmarshal(body, &payload); err != nil || payload == nil {
		verr := e.NewValidationError()
		verr.Add(usecase.FieldBody, msgBodyNotObject)
		return nil, verr
	}

	return payload, nil
}

// parseProductID возвращает id из пути. Нечисловой id ведёт себя как несуществующий.
func parseProductID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, e.ErrProductNotFound
	}
	return id, nil
}
