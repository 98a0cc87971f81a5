package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"snackreach/internal/middleware"
	"snackreach/internal/models"
	"snackreach/internal/repository"
)

type UserHandler struct {
	users repository.UserRepository
	v     *validator.Validate
}

func NewUserHandler(users repository.UserRepository) *UserHandler {
	return &UserHandler{users: users, v: validator.New()}
}

// @Tags Account
// @Summary Current user profile
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.User
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/users/me [get]
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.GetByID(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		if err.Error() == "user not found" {
			writeJSONError(w, http.StatusNotFound, "user_not_found", "User not found")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "get_user_failed", "Failed to get user")
		return
	}

	writeJSON(w, http.StatusOK, u)
}

// @Tags Account
// @Summary Update current user profile
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body models.UpdateUserRequest true "Profile fields to update"
// @Success 200 {object} models.User
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/users/me [put]
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if req.Name == nil && req.Company == nil && req.Bio == nil && req.Location == nil && req.PhoneNumber == nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "No fields to update")
		return
	}

	id := middleware.UserID(r.Context())
	if err := h.users.UpdateProfile(r.Context(), id, &req); err != nil {
		if err.Error() == "user not found" {
			writeJSONError(w, http.StatusNotFound, "user_not_found", "User not found")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "update_user_failed", "Failed to update user")
		return
	}

	u, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "get_user_failed", "Failed to get user")
		return
	}

	writeJSON(w, http.StatusOK, u)
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "User ID is required")
		return
	}

	u, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		if err.Error() == "user not found" {
			writeJSONError(w, http.StatusNotFound, "user_not_found", "User not found")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "get_user_failed", "Failed to get user")
		return
	}

	writeJSON(w, http.StatusOK, u)
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit := intQueryParam(r, "limit", 50)
	offset := intQueryParam(r, "offset", 0)

	users, err := h.users.List(r.Context(), limit, offset)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "list_users_failed", "Failed to list users")
		return
	}

	if users == nil {
		users = []models.User{}
	}

	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req models.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if err := h.v.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	id := middleware.UserID(r.Context())
	u, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "change_password_failed", "Failed to change password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.OldPassword)); err != nil {
		writeJSONError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid credentials")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "change_password_failed", "Failed to change password")
		return
	}

	if err := h.users.UpdatePasswordHash(r.Context(), id, string(hash)); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "change_password_failed", "Failed to change password")
		return
	}

	writeJSONMessage(w, http.StatusOK, "Password changed successfully")
}

func (h *UserHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	id := middleware.UserID(r.Context())
	if err := h.users.Delete(r.Context(), id); err != nil {
		if err.Error() == "user not found" {
			writeJSONError(w, http.StatusNotFound, "user_not_found", "User not found")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "delete_user_failed", "Failed to delete user")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "account deleted successfully",
		"id":      id,
	})
}
