package rest

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (s *Server) routes() http.Handler {
	r := mux.NewRouter().UseEncodedPath()
	r.Use(s.requestID, s.instrument, s.recoverer)

	r.HandleFunc("/healthz", s.healthz).Methods(http.MethodGet)
	r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)

	r.HandleFunc("/user/signup", s.signup).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", s.login).Methods(http.MethodPost)

	api := r.NewRoute().Subrouter()
	api.Use(s.accessGuard)

	api.HandleFunc("/user", s.listUsers).Methods(http.MethodGet)
	api.HandleFunc("/user", s.updateUser).Methods(http.MethodPut)
	api.HandleFunc("/user/{id:[0-9]+}", s.getUser).Methods(http.MethodGet)
	api.HandleFunc("/user/{id:[0-9]+}", s.deleteUser).Methods(http.MethodDelete)
	api.HandleFunc("/user/{id:[0-9]+}/photo", s.requestPhotoUpload).Methods(http.MethodPost)
	api.HandleFunc("/user/email/{email}", s.getUserByEmail).Methods(http.MethodGet)
	api.HandleFunc("/user/username/{username}", s.findUsersByUsername).Methods(http.MethodGet)

	api.HandleFunc("/theme", s.createTheme).Methods(http.MethodPost)
	api.HandleFunc("/theme", s.listThemes).Methods(http.MethodGet)
	api.HandleFunc("/theme/{id:[0-9]+}", s.getTheme).Methods(http.MethodGet)
	api.HandleFunc("/theme/{id:[0-9]+}", s.updateTheme).Methods(http.MethodPut)
	api.HandleFunc("/theme/{id:[0-9]+}", s.deleteTheme).Methods(http.MethodDelete)
	api.HandleFunc("/theme/name/{name}", s.findThemesByName).Methods(http.MethodGet)
	api.HandleFunc("/theme/description/{description}", s.findThemesByDescription).Methods(http.MethodGet)

	api.HandleFunc("/post", s.createPost).Methods(http.MethodPost)
	api.HandleFunc("/post", s.listPosts).Methods(http.MethodGet)
	api.HandleFunc("/post/{id:[0-9]+}", s.getPost).Methods(http.MethodGet)
	api.HandleFunc("/post/{id:[0-9]+}", s.updatePost).Methods(http.MethodPut)
	api.HandleFunc("/post/{id:[0-9]+}", s.deletePost).Methods(http.MethodDelete)
	api.HandleFunc("/post/title/{title}", s.findPostsByTitle).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeErrorMessage(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeErrorMessage(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	return r
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
