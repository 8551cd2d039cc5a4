package handlers

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"devconnect-api/internal/config"
	"devconnect-api/internal/realtime"
	"devconnect-api/internal/responses"
	"devconnect-api/internal/services"
	"devconnect-api/internal/utils"
)

// Deps is everything the HTTP surface needs.
type Deps struct {
	Config       *config.Config
	JWT          *utils.JWTUtil
	Auth         *services.AuthService
	Users        *services.UserService
	Posts        *services.PostService
	Interactions *services.InteractionService
	Uploads      *services.UploadService
	Broker       realtime.Broker
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		responses.SendErrorResponse(w, http.StatusNotFound, "Not found")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		responses.SendErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	authed := func(h http.HandlerFunc) http.Handler {
		return JWTMiddleware(d.JWT)(h)
	}
	authLimiter := RateLimitMiddleware(NewIPRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst))
	cookie := SessionCookie{Secure: cfg.CookieSecure, MaxAge: d.JWT.Expiration()}

	// Health check endpoint
	router.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	// Auth routes
	authRouter := router.PathPrefix("/auth").Subrouter()
	{
		authRouter.HandleFunc("/signup", authLimiter(Signup(d.Auth))).Methods("POST")
		authRouter.HandleFunc("/signin", authLimiter(Signin(d.Auth, cookie))).Methods("POST")
		authRouter.HandleFunc("/signout", Signout(cookie)).Methods("POST")
		authRouter.HandleFunc("/password/forgot", authLimiter(ForgotPassword(d.Auth))).Methods("POST")
		authRouter.HandleFunc("/password/reset", authLimiter(ResetPassword(d.Auth))).Methods("POST")
	}

	// Posts, likes and comments
	router.HandleFunc("/posts", ListPosts(d.Posts)).Methods("GET")
	router.Handle("/posts", authed(CreatePost(d.Posts))).Methods("POST")
	router.HandleFunc("/posts/{id}", GetPost(d.Posts)).Methods("GET")
	router.Handle("/posts/{id}", authed(DeletePost(d.Posts))).Methods("DELETE")
	router.Handle("/posts/{id}/like", authed(ToggleLike(d.Interactions))).Methods("POST")
	router.Handle("/posts/{id}/like", authed(LikeStatus(d.Interactions))).Methods("GET")
	router.HandleFunc("/posts/{id}/comments", ListComments(d.Interactions)).Methods("GET")
	router.Handle("/posts/{id}/comments", authed(CreateComment(d.Interactions))).Methods("POST")

	// Users
	router.HandleFunc("/users/recent", RecentUsers(d.Users)).Methods("GET")
	router.Handle("/users/me", authed(GetMe(d.Users))).Methods("GET")
	router.Handle("/users/me", authed(UpdateMe(d.Users))).Methods("PUT")
	router.HandleFunc("/users/{id}", GetUser(d.Users)).Methods("GET")

	// Media
	router.Handle("/upload", authed(Upload(d.Uploads, cfg.UploadMaxBytes))).Methods("POST")
	router.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", noDirListing(http.FileServer(http.Dir(cfg.UploadDir)))),
	).Methods("GET", "HEAD")

	// Realtime
	router.HandleFunc("/events", Events(d.Broker)).Methods("GET")

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	return corsHandler.Handler(LoggingMiddleware(router))
}

func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			responses.SendErrorResponse(w, http.StatusNotFound, "Not found")
			return
		}
		next.ServeHTTP(w, r)
	})
}
