package rest

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/server/auth"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
	"github.com/dmitrijs2005/blogkeeper/internal/server/services"
	"github.com/gorilla/mux"
)

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id must be a positive integer", common.ErrorValidation)
	}
	return id, nil
}

// pathVar returns the unescaped route variable key. The router matches on the
// escaped path so that search fragments may contain '/'.
func pathVar(r *http.Request, key string) (string, error) {
	v, err := url.PathUnescape(mux.Vars(r)[key])
	if err != nil {
		return "", fmt.Errorf("%w: malformed %s in path", common.ErrorValidation, key)
	}
	return v, nil
}

// callerID is the user id from the verified token.
func callerID(r *http.Request) (int64, error) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		return 0, common.ErrorUnauthorized
	}
	return claims.UserID, nil
}

// requireSelf fails with common.ErrorForbidden unless id is the caller.
func requireSelf(r *http.Request, id int64) error {
	caller, err := callerID(r)
	if err != nil {
		return err
	}
	if caller != id {
		return fmt.Errorf("%w: users may only modify their own account", common.ErrorForbidden)
	}
	return nil
}

func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	var in services.CreateUserInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	u, err := s.users.Create(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, u.Public())
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var in services.LoginInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.auth.Login(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.FindAll(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.PublicUsers(users))
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	u, err := s.users.FindByID(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u.Public())
}

func (s *Server) getUserByEmail(w http.ResponseWriter, r *http.Request) {
	email, err := pathVar(r, "email")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	u, err := s.users.FindByEmail(r.Context(), email)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u.Public())
}

func (s *Server) findUsersByUsername(w http.ResponseWriter, r *http.Request) {
	username, err := pathVar(r, "username")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	users, err := s.users.FindByUsername(r.Context(), username)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.PublicUsers(users))
}

// updateUser applies a partial update to the caller's own account. A body
// without an id targets the caller.
func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	var in services.UpdateUserInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	if in.ID == 0 {
		id, err := callerID(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		in.ID = id
	}
	if err := requireSelf(r, in.ID); err != nil {
		s.writeError(w, r, err)
		return
	}

	u, err := s.users.Update(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u.Public())
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := requireSelf(r, id); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.users.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeNoContent(w)
}

func (s *Server) requestPhotoUpload(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := requireSelf(r, id); err != nil {
		s.writeError(w, r, err)
		return
	}

	up, err := s.photos.RequestUpload(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, up)
}
