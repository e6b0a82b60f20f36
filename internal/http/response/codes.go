package response

import "net/http"

const (
	CodeOK              = http.StatusOK
	CodeCreated         = http.StatusCreated
	CodeBadRequest      = http.StatusBadRequest
	CodeUnauthorized    = http.StatusUnauthorized
	CodeForbidden       = http.StatusForbidden
	CodeNotFound        = http.StatusNotFound
	CodeConflict        = http.StatusConflict
	CodeTooManyRequests = http.StatusTooManyRequests
	CodeInternal        = http.StatusInternalServerError
	CodeBadGateway      = http.StatusBadGateway
	CodeUnavailable     = http.StatusServiceUnavailable
)
