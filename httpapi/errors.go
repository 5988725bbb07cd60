package httpapi

import (
	"errors"
	"net/http"

	"github.com/AntonStoeckl/university-library-go/library"
)

const msgInternalError = "an unexpected error occurred, please try again later"

// StatusFor maps an operation error to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, library.ErrTransactionFailed):
		return http.StatusInternalServerError
	case errors.Is(err, library.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, library.ErrValidation), errors.Is(err, library.ErrConflict):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)

	if status == http.StatusInternalServerError {
		s.logError(r, logMsgRequestFailed, logAttrError, err.Error())
		writeMessage(w, status, msgInternalError)

		return
	}

	writeMessage(w, status, err.Error())
}
