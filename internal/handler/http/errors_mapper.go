package http

import (
	"errors"
	"net/http"

	"github.com/mailguest/flatnotes/internal/logger"
	"github.com/mailguest/flatnotes/internal/service"
	"github.com/mailguest/flatnotes/internal/store"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided:     http.StatusBadRequest,
	service.ErrWrongPassword:           http.StatusUnauthorized,
	service.ErrTokenIsExpiredOrInvalid: http.StatusUnauthorized,

	store.ErrUserExists:     http.StatusConflict,
	store.ErrUserNotFound:   http.StatusNotFound,
	store.ErrNoteNotFound:   http.StatusNotFound,
	store.ErrUploadNotFound: http.StatusNotFound,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// fail logs err and writes the mapped status with a plain-text body.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, msg string) {
	status := statusFromError(err)

	logger.FromRequest(r).Err(err).Msg(msg)

	body := msg
	if status == http.StatusInternalServerError {
		body = http.StatusText(status)
	}
	http.Error(w, body, status)
}
