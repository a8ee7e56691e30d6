package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"

	"github.com/dkovalev/authvault/internal/common"
	"github.com/dkovalev/authvault/internal/server/accounts"
)

type loginRequest struct {
	ApplicationID string `json:"applicationId"`
	Email         string `json:"email"`
	Password      string `json:"password"`
}

type refreshRequest struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type addUserRequest struct {
	ApplicationID string `json:"applicationId"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	IsActive      *bool  `json:"isActive"`
	IsLocked      *bool  `json:"isLocked"`
	IsEnabled     *bool  `json:"isEnabled"`
}

type sessionResponse struct {
	AccessToken   string `json:"accessToken"`
	RefreshToken  string `json:"refreshToken"`
	Email         string `json:"email"`
	ApplicationID string `json:"applicationId"`
	ExpiresIn     int64  `json:"expiresIn"`
}

type messageResponse struct {
	Message       string `json:"message"`
	Email         string `json:"email,omitempty"`
	ApplicationID string `json:"applicationId,omitempty"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if msg, ok := validateLogin(req); !ok {
		writeMessage(w, http.StatusBadRequest, msg)
		return
	}

	session, err := s.service.Login(r.Context(), req.ApplicationID, req.Email, req.Password)
	if err != nil {
		s.rejectLogin(w, r, err, "An error occurred during login.")
		return
	}

	writeJSON(w, http.StatusOK, sessionToResponse(session))
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {

	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if req.AccessToken == "" || req.RefreshToken == "" {
		writeMessage(w, http.StatusBadRequest, "Access token and refresh token are required.")
		return
	}

	session, err := s.service.Refresh(r.Context(), req.AccessToken, req.RefreshToken)
	if err != nil {
		s.rejectLogin(w, r, err, "An error occurred during token refresh.")
		return
	}

	writeJSON(w, http.StatusOK, sessionToResponse(session))
}

func (s *Server) handleAddOrUpdateUser(w http.ResponseWriter, r *http.Request) {

	var req addUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if msg, ok := validateAddUser(req); !ok {
		writeMessage(w, http.StatusBadRequest, msg)
		return
	}

	account, err := s.service.Provision(r.Context(), accounts.ProvisionRequest{
		ApplicationID: req.ApplicationID,
		Email:         req.Email,
		Password:      req.Password,
		IsActive:      req.IsActive,
		IsLocked:      req.IsLocked,
		IsEnabled:     req.IsEnabled,
	})
	if err != nil {
		if errors.Is(err, common.ErrValidation) {
			writeMessage(w, http.StatusBadRequest, "Password is required for new user creation.")
			return
		}
		s.logger.Error(r.Context(), "user add/update failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "An error occurred during user add/update.")
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{
		Message:       "User added/updated successfully.",
		Email:         account.UserID,
		ApplicationID: account.ApplicationID,
	})
}

// rejectLogin maps engine errors to responses. Every engine rejection is a
// 401 with its taxonomy message; anything else is logged and reported as a
// generic 500 without internal detail.
func (s *Server) rejectLogin(w http.ResponseWriter, r *http.Request, err error, genericMsg string) {
	switch {
	case errors.Is(err, common.ErrInvalidCredentials):
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials.")
	case errors.Is(err, common.ErrAccountLocked):
		writeMessage(w, http.StatusUnauthorized, "Account is locked. Please contact support.")
	case errors.Is(err, common.ErrAccountInactive):
		writeMessage(w, http.StatusUnauthorized, "Account is inactive or disabled.")
	case errors.Is(err, common.ErrInvalidToken):
		writeMessage(w, http.StatusUnauthorized, "Invalid token.")
	default:
		s.logger.Error(r.Context(), "request failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, genericMsg)
	}
}

func validateLogin(req loginRequest) (string, bool) {
	if req.ApplicationID == "" {
		return "Application ID is required.", false
	}
	if req.Email == "" {
		return "Email is required.", false
	}
	if !validEmail(req.Email) {
		return "Invalid email format.", false
	}
	if req.Password == "" {
		return "Password is required.", false
	}
	return "", true
}

func validateAddUser(req addUserRequest) (string, bool) {
	if req.ApplicationID == "" {
		return "Application ID is required.", false
	}
	if req.Email == "" {
		return "Email is required.", false
	}
	if !validEmail(req.Email) {
		return "Invalid email format.", false
	}
	return "", true
}

func validEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}

func sessionToResponse(session *accounts.Session) sessionResponse {
	return sessionResponse{
		AccessToken:   session.AccessToken,
		RefreshToken:  session.RefreshToken,
		Email:         session.Email,
		ApplicationID: session.ApplicationID,
		ExpiresIn:     session.ExpiresIn,
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Message: msg})
}
