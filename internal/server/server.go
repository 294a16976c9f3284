// Package server contains the HTTP surface of the Agora feed service
// (posts, likes, comments, profiles).
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"

	mm "github.com/agora-net/agora/internal/middleware"
	"github.com/agora-net/agora/internal/service"
)

// maxBodySize must fit a 300-rune text of 4-byte runes plus display
// metadata and json framing.
const maxBodySize = 4096

type server struct {
	s service.Service
}

// SetupRouter setups handlers to chi router.
func SetupRouter(svc service.Service, r chi.Router, jwtSecret []byte, timeout time.Duration) {
	r.Use(
		mm.Logger,
		middleware.StripSlashes,
		cors.AllowAll().Handler,
		middleware.RequestID,
		middleware.Recoverer,
		middleware.Timeout(timeout),
		bodyLimiter(maxBodySize),
	)

	srv := server{
		s: svc,
	}

	auth := mm.Auth(jwtSecret)

	r.Route("/api", func(r chi.Router) {
		r.Route("/posts", func(r chi.Router) {
			r.Get("/", srv.listPosts)
			r.Get("/{postID}", srv.getPost)

			r.Group(func(r chi.Router) {
				r.Use(auth)

				r.Post("/", srv.createPost)
				r.Delete("/{postID}", srv.deletePost)
				r.Post("/like/{postID}", srv.likePost)
				r.Post("/unlike/{postID}", srv.unlikePost)
				r.Post("/comment/{postID}", srv.addComment)
				r.Delete("/comment/{postID}/{commentID}", srv.removeComment)
			})
		})

		r.Route("/profile", func(r chi.Router) {
			r.Get("/{userID}", srv.getProfile)
			r.With(auth).Post("/", srv.setProfile)
		})
	})
}

func bodyLimiter(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, n)
			next.ServeHTTP(w, r)
		})
	}
}
