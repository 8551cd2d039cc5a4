package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"devconnect-api/internal/models"
	"devconnect-api/internal/responses"
	"devconnect-api/internal/services"
)

func ListPosts(posts *services.PostService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		var invalid []responses.ValidationError
		page, ok := queryInt(q.Get("page"))
		if !ok {
			invalid = append(invalid, responses.ValidationError{Field: "page", Message: "must be a positive integer"})
		}
		limit, ok := queryInt(q.Get("limit"))
		if !ok {
			invalid = append(invalid, responses.ValidationError{Field: "limit", Message: "must be between 1 and 100"})
		}
		if len(invalid) > 0 {
			responses.SendValidationError(w, "Validation failed", invalid)
			return
		}

		result, err := posts.ListPosts(r.Context(), services.ListPostsQuery{
			Page:   page,
			Limit:  limit,
			Author: q.Get("userId"),
		})
		if err != nil {
			sendServiceError(w, r, err)
			return
		}

		responses.SendSuccessResponse(w, http.StatusOK, result)
	}
}

// queryInt parses an optional integer query parameter. Absent means zero.
func queryInt(raw string) (int, bool) {
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

func CreatePost(posts *services.PostService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		var req models.CreatePostRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		post, err := posts.CreatePost(r.Context(), userID, req)
		if err != nil {
			sendServiceError(w, r, err)
			return
		}

		responses.SendSuccessResponse(w, http.StatusCreated, post)
	}
}

func GetPost(posts *services.PostService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, err := posts.GetPost(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			sendServiceError(w, r, err)
			return
		}

		responses.SendSuccessResponse(w, http.StatusOK, post)
	}
}

func DeletePost(posts *services.PostService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		if err := posts.DeletePost(r.Context(), mux.Vars(r)["id"], userID); err != nil {
			sendServiceError(w, r, err)
			return
		}

		responses.SendSuccessResponse(w, http.StatusOK, map[string]string{
			"message": "Post deleted successfully",
		})
	}
}
