package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"devconnect-api/internal/responses"
	"devconnect-api/internal/services"
)

const maxJSONBody = 1 << 20

func sendServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var svcErr *services.Error
	errors.As(err, &svcErr)

	switch services.KindOf(err) {
	case services.KindValidation:
		fields := make([]responses.ValidationError, len(svcErr.Fields))
		for i, f := range svcErr.Fields {
			fields[i] = responses.ValidationError{Field: f.Field, Message: f.Message}
		}
		responses.SendValidationError(w, svcErr.Message, fields)
	case services.KindUnauthenticated:
		responses.SendErrorResponse(w, http.StatusUnauthorized, svcErr.Message)
	case services.KindForbidden:
		responses.SendErrorResponse(w, http.StatusForbidden, svcErr.Message)
	case services.KindNotFound:
		responses.SendErrorResponse(w, http.StatusNotFound, svcErr.Message)
	case services.KindConflict:
		responses.SendErrorResponse(w, http.StatusBadRequest, svcErr.Message)
	default:
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
		responses.SendErrorResponse(w, http.StatusInternalServerError, "Internal server error")
	}
}

// decodeJSON reads a JSON body into dst, answering 400 itself when it cannot.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		responses.SendErrorResponse(w, http.StatusBadRequest, "Invalid request format")
		return false
	}
	return true
}

// requireUser returns the caller's id, answering 401 when there is none.
func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := CurrentUserID(r)
	if !ok {
		responses.SendErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
	}
	return userID, ok
}
