package http

import (
	"net/http"

	"github.com/AlvaroPereir4/FinScope/internal/auth"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var payload credentialsPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	session, err := s.auth.Register(r.Context(), payload.Username, payload.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, viewSession(session))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload credentialsPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	session, err := s.auth.Login(r.Context(), payload.Username, payload.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, viewSession(session))
}

func viewSession(session auth.Session) sessionView {
	return sessionView{
		Owner:    session.Owner,
		Username: session.Username,
		Token:    session.Token,
	}
}
