package handlers

import (
	"net/http"
	"time"

	"devconnect-api/internal/models"
	"devconnect-api/internal/responses"
	"devconnect-api/internal/services"
)

// SessionCookie controls the cookie that carries the session token for browsers.
type SessionCookie struct {
	Secure bool
	MaxAge time.Duration
}

func (c SessionCookie) set(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.MaxAge.Seconds()),
		Expires:  time.Now().Add(c.MaxAge),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c SessionCookie) clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func Signup(auth *services.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.SignupRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		user, err := auth.Signup(r.Context(), req)
		if err != nil {
			sendServiceError(w, r, err)
			return
		}

		responses.SendSuccessResponse(w, http.StatusCreated, map[string]interface{}{
			"message": "User registered successfully",
			"user":    user.Response(),
		})
	}
}

func Signin(auth *services.AuthService, cookie SessionCookie) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.SigninRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		token, user, err := auth.Signin(r.Context(), req)
		if err != nil {
			sendServiceError(w, r, err)
			return
		}

		cookie.set(w, token)
		responses.SendSuccessResponse(w, http.StatusOK, map[string]interface{}{
			"token": token,
			"user":  user.Response(),
		})
	}
}

func Signout(cookie SessionCookie) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie.clear(w)
		responses.SendSuccessResponse(w, http.StatusOK, map[string]string{
			"message": "Signed out",
		})
	}
}

func ForgotPassword(auth *services.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.PasswordResetRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		if err := auth.RequestPasswordReset(r.Context(), req); err != nil {
			sendServiceError(w, r, err)
			return
		}

		responses.SendSuccessResponse(w, http.StatusOK, map[string]string{
			"message": "If an account exists for this email, a reset link has been sent",
		})
	}
}

func ResetPassword(auth *services.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.NewPasswordRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		if err := auth.ResetPassword(r.Context(), req); err != nil {
			sendServiceError(w, r, err)
			return
		}

		responses.SendSuccessResponse(w, http.StatusOK, map[string]string{
			"message": "Password updated successfully",
		})
	}
}
