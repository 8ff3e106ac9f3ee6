package rest

import (
	"net/http"

	"github.com/dmitrijs2005/blogkeeper/internal/server/services"
)

// createPost stores a post. The author defaults to the caller.
func (s *Server) createPost(w http.ResponseWriter, r *http.Request) {
	var in services.CreatePostInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	if in.UserID == 0 {
		id, err := callerID(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		in.UserID = id
	}

	p, err := s.posts.Create(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) listPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.posts.FindAll(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (s *Server) getPost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	p, err := s.posts.FindByID(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) findPostsByTitle(w http.ResponseWriter, r *http.Request) {
	title, err := pathVar(r, "title")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	posts, err := s.posts.FindByTitle(r.Context(), title)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (s *Server) updatePost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var in services.UpdatePostInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	p, err := s.posts.Update(r.Context(), id, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) deletePost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.posts.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeNoContent(w)
}
