package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"rental/internal/auth"
	"rental/internal/models"
	"rental/internal/store"
	"rental/internal/validator"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := validator.ValidateUsername(req.Username); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Code: "validation_error", Field: "username"})
		return
	}
	if err := validator.ValidateEmail(req.Email); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Code: "validation_error", Field: "email"})
		return
	}
	if err := validator.ValidatePassword(req.Password); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Code: "validation_error", Field: "password"})
		return
	}
	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal", "failed to secure password")
		return
	}
	user := models.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
		CreatedAt:    h.now().UTC(),
	}
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		if err := h.users.Create(r.Context(), tx, user); err != nil {
			return err
		}
		return h.audit.Log(r.Context(), tx, store.AuditEntry{
			ActorID:    user.ID,
			Action:     "user.register",
			EntityType: "user",
			EntityID:   user.ID,
			Data:       map[string]any{"ip": r.RemoteAddr, "user_agent": r.UserAgent()},
		})
	})
	if err != nil {
		if store.IsUniqueViolation(err) {
			switch store.ConstraintName(err) {
			case "users_username_key":
				respondJSON(w, http.StatusConflict, errorResponse{Error: "username already exists", Code: "conflict", Field: "username"})
			case "users_email_key":
				respondJSON(w, http.StatusConflict, errorResponse{Error: "email already exists", Code: "conflict", Field: "email"})
			default:
				respondError(w, http.StatusConflict, "conflict", "username or email already exists")
			}
			return
		}
		h.respondServiceError(w, r, err)
		return
	}
	token, err := auth.GenerateToken(h.cfg.JWTSecret, user.ID, h.cfg.TokenTTL)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal", "failed to generate token")
		return
	}
	respondJSON(w, http.StatusCreated, tokenResponse{Token: token, User: user})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	user, err := h.users.GetByEmail(r.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusUnauthorized, "unauthorized", "invalid credentials")
			return
		}
		h.respondServiceError(w, r, err)
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		respondError(w, http.StatusUnauthorized, "unauthorized", "invalid credentials")
		return
	}
	if err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		return h.audit.Log(r.Context(), tx, store.AuditEntry{
			ActorID:    user.ID,
			Action:     "user.login",
			EntityType: "user",
			EntityID:   user.ID,
			Data:       map[string]any{"ip": r.RemoteAddr, "user_agent": r.UserAgent()},
		})
	}); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	token, err := auth.GenerateToken(h.cfg.JWTSecret, user.ID, h.cfg.TokenTTL)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal", "failed to generate token")
		return
	}
	respondJSON(w, http.StatusOK, tokenResponse{Token: token, User: user})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID := actorID(r)
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}
	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusUnauthorized, "unauthorized", "user no longer exists")
			return
		}
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}
