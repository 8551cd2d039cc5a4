package handlers

import (
	"errors"
	"net/http"

	"devconnect-api/internal/responses"
	"devconnect-api/internal/services"
)

const (
	multipartMemory   = 8 << 20
	multipartOverhead = 1 << 20
)

func Upload(uploads *services.UploadService, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireUser(w, r); !ok {
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				responses.SendErrorResponse(w, http.StatusBadRequest, "File too large")
				return
			}
			responses.SendErrorResponse(w, http.StatusBadRequest, "Invalid multipart form")
			return
		}
		defer r.MultipartForm.RemoveAll()

		file, header, err := r.FormFile("file")
		if err != nil {
			responses.SendErrorResponse(w, http.StatusBadRequest, "No file provided")
			return
		}
		defer file.Close()

		media, err := uploads.Store(r.Context(), services.Upload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Body:        file,
		})
		if err != nil {
			sendServiceError(w, r, err)
			return
		}

		responses.SendSuccessResponse(w, http.StatusCreated, media)
	}
}
