package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"devconnect-api/internal/models"
	"devconnect-api/internal/responses"
	"devconnect-api/internal/services"
)

func RecentUsers(users *services.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recent, err := users.RecentUsers(r.Context())
		if err != nil {
			sendServiceError(w, r, err)
			return
		}

		responses.SendSuccessResponse(w, http.StatusOK, map[string]interface{}{
			"users": recent,
		})
	}
}

func GetMe(users *services.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		me, err := users.Me(r.Context(), userID)
		if err != nil {
			sendServiceError(w, r, err)
			return
		}

		responses.SendSuccessResponse(w, http.StatusOK, me)
	}
}

func UpdateMe(users *services.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		var req models.UpdateProfileRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		profile, err := users.UpdateProfile(r.Context(), userID, req)
		if err != nil {
			sendServiceError(w, r, err)
			return
		}

		responses.SendSuccessResponse(w, http.StatusOK, profile)
	}
}

func GetUser(users *services.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := users.GetProfile(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			sendServiceError(w, r, err)
			return
		}

		responses.SendSuccessResponse(w, http.StatusOK, profile)
	}
}
