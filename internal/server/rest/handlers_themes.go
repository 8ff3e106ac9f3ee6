package rest

import (
	"net/http"

	"github.com/dmitrijs2005/blogkeeper/internal/server/services"
)

func (s *Server) createTheme(w http.ResponseWriter, r *http.Request) {
	var in services.CreateThemeInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	t, err := s.themes.Create(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) listThemes(w http.ResponseWriter, r *http.Request) {
	themes, err := s.themes.FindAll(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, themes)
}

func (s *Server) getTheme(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	t, err := s.themes.FindByID(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) findThemesByName(w http.ResponseWriter, r *http.Request) {
	name, err := pathVar(r, "name")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	themes, err := s.themes.FindByName(r.Context(), name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, themes)
}

func (s *Server) findThemesByDescription(w http.ResponseWriter, r *http.Request) {
	description, err := pathVar(r, "description")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	themes, err := s.themes.FindByDescription(r.Context(), description)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, themes)
}

func (s *Server) updateTheme(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var in services.UpdateThemeInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	t, err := s.themes.Update(r.Context(), id, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// deleteTheme removes the theme together with its posts.
func (s *Server) deleteTheme(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.themes.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeNoContent(w)
}
