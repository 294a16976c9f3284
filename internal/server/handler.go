package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/sirupsen/logrus"

	"github.com/agora-net/agora/internal/entities"
	mm "github.com/agora-net/agora/internal/middleware"
	"github.com/agora-net/agora/internal/service"
)

func (s server) listPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.s.ListPosts(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	out := make([]*Post, len(posts))
	for i, p := range posts {
		out[i] = toAPIPost(p)
	}

	writeOK(w, http.StatusOK, out)
}

func (s server) getPost(w http.ResponseWriter, r *http.Request) {
	post, err := s.s.GetPost(r.Context(), chi.URLParam(r, "postID"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeOK(w, http.StatusOK, toAPIPost(post))
}

func (s server) createPost(w http.ResponseWriter, r *http.Request) {
	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "error", "failed to decode json")
		return
	}

	post, err := s.s.CreatePost(r.Context(), service.CreatePostParams{
		AuthorID: mm.RequesterID(r.Context()),
		Text:     req.Text,
		Name:     req.Name,
		Avatar:   req.Avatar,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeOK(w, http.StatusOK, toAPIPost(post))
}

func (s server) deletePost(w http.ResponseWriter, r *http.Request) {
	if err := s.s.DeletePost(r.Context(), chi.URLParam(r, "postID"), mm.RequesterID(r.Context())); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeOK(w, http.StatusOK, map[string]bool{"success": true})
}

func (s server) likePost(w http.ResponseWriter, r *http.Request) {
	post, err := s.s.AddLike(r.Context(), chi.URLParam(r, "postID"), mm.RequesterID(r.Context()))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeOK(w, http.StatusOK, toAPIPost(post))
}

func (s server) unlikePost(w http.ResponseWriter, r *http.Request) {
	post, err := s.s.RemoveLike(r.Context(), chi.URLParam(r, "postID"), mm.RequesterID(r.Context()))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeOK(w, http.StatusOK, toAPIPost(post))
}

func (s server) addComment(w http.ResponseWriter, r *http.Request) {
	var req AddCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "error", "failed to decode json")
		return
	}

	post, err := s.s.AddComment(r.Context(), service.AddCommentParams{
		PostID: chi.URLParam(r, "postID"),
		UserID: mm.RequesterID(r.Context()),
		Text:   req.Text,
		Name:   req.Name,
		Avatar: req.Avatar,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeOK(w, http.StatusOK, toAPIPost(post))
}

func (s server) removeComment(w http.ResponseWriter, r *http.Request) {
	post, err := s.s.RemoveComment(r.Context(),
		chi.URLParam(r, "postID"), chi.URLParam(r, "commentID"), mm.RequesterID(r.Context()))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeOK(w, http.StatusOK, toAPIPost(post))
}

func (s server) getProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.s.GetProfile(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeOK(w, http.StatusOK, toAPIProfile(profile))
}

func (s server) setProfile(w http.ResponseWriter, r *http.Request) {
	var req SetProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "error", "failed to decode json")
		return
	}

	profile, err := s.s.SetProfile(r.Context(), &entities.Profile{
		UserID:    mm.RequesterID(r.Context()),
		Handle:    req.Handle,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Avatar:    req.Avatar,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeOK(w, http.StatusOK, toAPIProfile(profile))
}

// writeServiceError maps the service error taxonomy to http statuses. Infra
// errors come out as a generic 400, indistinguishable from client mistakes,
// which matches the public contract of this api.
func (s server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr service.ValidationError

	switch {
	case errors.As(err, &vErr):
		writeOK(w, http.StatusBadRequest, vErr.Fields)
	case errors.Is(err, service.ErrPostNotFound):
		writeError(w, http.StatusNotFound, "postnotfound", "no post found with that id")
	case errors.Is(err, service.ErrNotPostOwner):
		writeError(w, http.StatusUnauthorized, "notauthorized", "user not authorized to delete this post")
	case errors.Is(err, service.ErrAlreadyLiked):
		writeError(w, http.StatusBadRequest, "alreadyliked", "user already liked this post")
	case errors.Is(err, service.ErrNotLiked):
		writeError(w, http.StatusBadRequest, "notliked", "user has not yet liked this post")
	case errors.Is(err, service.ErrCommentNotFound):
		writeError(w, http.StatusNotFound, "commentnotexists", "comment does not exist")
	case errors.Is(err, service.ErrProfileNotFound):
		writeError(w, http.StatusNotFound, "noprofile", "there is no profile for this user")
	default:
		logrus.WithError(err).WithField("path", r.URL.Path).Error("request failed")
		writeError(w, http.StatusBadRequest, "error", "error while fetch data")
	}
}
