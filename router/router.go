package router

import (
	"go-blog-api/handler"
	"net/http"

	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// Handlers groups the HTTP handlers mounted by NewRouter.
type Handlers struct {
	Auth  *handler.AuthHandler
	Blogs *handler.BlogHandler
	Posts *handler.PostHandler
	Admin *handler.AdminHandler
}

// Options configures the cross-cutting middleware.
type Options struct {
	Gate           handler.Authenticator
	Limiter        *handler.RateLimiter
	AllowedOrigins []string
}

func NewRouter(h Handlers, opts Options) http.Handler {
	mux := http.NewServeMux()

	wrap := func(fn handler.AppHandler) http.Handler {
		return handler.ErrorHandlingMiddleware(fn)
	}
	protect := handler.AuthMiddleware(opts.Gate)
	authed := func(fn handler.AppHandler) http.Handler {
		return protect(wrap(fn))
	}
	throttled := func(fn handler.AppHandler) http.Handler {
		if opts.Limiter == nil {
			return wrap(fn)
		}
		return opts.Limiter.Limit(wrap(fn))
	}

	mux.HandleFunc("GET /health", handler.HealthCheck)
	mux.Handle("GET /swagger/", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// --- Auth ---
	mux.Handle("POST /api/auth/register", wrap(h.Auth.Register))
	mux.Handle("GET /api/auth/verify", wrap(h.Auth.Verify))
	mux.Handle("POST /api/auth/login", throttled(h.Auth.Login))
	mux.Handle("POST /api/auth/refresh", wrap(h.Auth.Refresh))
	mux.Handle("POST /api/auth/logout", wrap(h.Auth.Logout))
	mux.Handle("POST /api/auth/forgot-password", throttled(h.Auth.ForgotPassword))
	mux.Handle("POST /api/auth/password-reset", wrap(h.Auth.PasswordReset))
	mux.Handle("POST /api/auth/password-update", authed(h.Auth.PasswordUpdate))

	// --- Blogs ---
	mux.Handle("GET /api/blogs", authed(h.Blogs.ListBlogs))
	mux.Handle("POST /api/blogs", authed(h.Blogs.CreateBlog))
	mux.Handle("GET /api/blogs/{id}", authed(h.Blogs.GetBlog))
	mux.Handle("PATCH /api/blogs/{id}", authed(h.Blogs.RenameBlog))
	mux.Handle("DELETE /api/blogs/{id}", authed(h.Blogs.DeleteBlog))
	mux.Handle("GET /api/blogs/{id}/posts", authed(h.Blogs.ListPostTitles))

	// --- Posts ---
	mux.Handle("GET /api/posts", authed(h.Posts.ListPosts))
	mux.Handle("POST /api/posts", authed(h.Posts.CreatePost))
	mux.Handle("GET /api/posts/{id}", authed(h.Posts.GetPost))
	mux.Handle("PATCH /api/posts/{id}", authed(h.Posts.UpdatePost))
	mux.Handle("DELETE /api/posts/{id}", authed(h.Posts.DeletePost))

	// --- Admin ---
	mux.Handle("GET /api/admin/users", authed(h.Admin.ListUsers))
	mux.Handle("POST /api/admin/users/{username}/disable", authed(h.Admin.DisableUser))

	return cors.New(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler(mux)
}
