package server

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"github.com/warunglab/storeapi/internal/auth"
	"github.com/warunglab/storeapi/internal/store"
)

type userRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type verifyPasswordRequest struct {
	Password string `json:"password"`
}

func toUserResponse(u *store.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email}
}

// validate checks the request fields. Password is only required when
// requirePassword is set (creation).
func (req *userRequest) validate(requirePassword bool) error {
	if strings.TrimSpace(req.Name) == "" {
		return errors.New("name is required")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return errors.New("a valid email is required")
	}
	if requirePassword && req.Password == "" {
		return errors.New("password is required")
	}
	return nil
}

// CreateUser handles POST /users.
func (h *Handlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.validate(true); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	u := &store.User{Name: req.Name, Email: req.Email, PasswordHash: hash}
	if err := h.users.Create(r.Context(), u); err != nil {
		if store.IsDuplicate(err) {
			writeError(w, http.StatusConflict, "Email already registered")
			return
		}
		h.logger.Error("failed to create user", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	writeJSON(w, http.StatusCreated, toUserResponse(u))
}

// ListUsers handles GET /users?skip=&limit=.
func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	offset, limit := pagination(r)

	users, err := h.users.List(r.Context(), offset, limit)
	if err != nil {
		h.logger.Error("failed to list users", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list users")
		return
	}

	resp := make([]userResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, toUserResponse(u))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetUser handles GET /users/{id}.
func (h *Handlers) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	u, err := h.users.GetByID(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to get user", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get user")
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(u))
}

// UpdateUser handles PUT /users/{id}. The password is re-hashed only when
// the request carries a new one.
func (h *Handlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req userRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.validate(false); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	u, err := h.users.GetByID(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to get user", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update user")
		return
	}

	u.Name = req.Name
	u.Email = req.Email
	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		u.PasswordHash = hash
	}

	if err := h.users.Update(r.Context(), u); err != nil {
		if store.IsDuplicate(err) {
			writeError(w, http.StatusConflict, "Email already registered")
			return
		}
		h.logger.Error("failed to update user", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update user")
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(u))
}

// DeleteUser handles DELETE /users/{id}.
func (h *Handlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = h.users.Delete(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to delete user", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete user")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "User deleted successfully"})
}

// VerifyUserPassword handles POST /users/{id}/verify-password.
func (h *Handlers) VerifyUserPassword(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req verifyPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	u, err := h.users.GetByID(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to get user", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to verify password")
		return
	}

	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		writeError(w, http.StatusUnauthorized, "Incorrect password")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Password is correct"})
}
