package responses

import (
	"encoding/json"
	"log"
	"net/http"
)

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationErrorResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors"`
}

type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

func SendErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, ErrorResponse{
		Success: false,
		Message: message,
	})
}

func SendSuccessResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	writeJSON(w, statusCode, SuccessResponse{
		Success: true,
		Data:    data,
	})
}

func SendValidationError(w http.ResponseWriter, message string, errors []ValidationError) {
	if errors == nil {
		errors = []ValidationError{}
	}
	writeJSON(w, http.StatusBadRequest, ValidationErrorResponse{
		Success: false,
		Message: message,
		Errors:  errors,
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
