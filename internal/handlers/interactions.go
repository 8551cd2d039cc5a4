package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"devconnect-api/internal/models"
	"devconnect-api/internal/responses"
	"devconnect-api/internal/services"
)

func ToggleLike(interactions *services.InteractionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		state, err := interactions.ToggleLike(r.Context(), mux.Vars(r)["id"], userID)
		if err != nil {
			sendServiceError(w, r, err)
			return
		}

		responses.SendSuccessResponse(w, http.StatusOK, state)
	}
}

func LikeStatus(interactions *services.InteractionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		state, err := interactions.LikeStatus(r.Context(), mux.Vars(r)["id"], userID)
		if err != nil {
			sendServiceError(w, r, err)
			return
		}

		responses.SendSuccessResponse(w, http.StatusOK, state)
	}
}

func ListComments(interactions *services.InteractionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		comments, err := interactions.ListComments(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			sendServiceError(w, r, err)
			return
		}

		responses.SendSuccessResponse(w, http.StatusOK, map[string]interface{}{
			"comments": comments,
		})
	}
}

func CreateComment(interactions *services.InteractionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		var req models.CreateCommentRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		comment, err := interactions.AddComment(r.Context(), mux.Vars(r)["id"], userID, req)
		if err != nil {
			sendServiceError(w, r, err)
			return
		}

		responses.SendSuccessResponse(w, http.StatusCreated, comment)
	}
}
