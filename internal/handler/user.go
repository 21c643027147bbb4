package handler

import (
	"log/slog"
	"net/http"

	"github.com/petgateway/petgateway/internal/handler/dto"
	"github.com/petgateway/petgateway/internal/service"
	apimodel "github.com/petgateway/petgateway/pkg/model"
)

// UserHandler handles registration and login.
type UserHandler struct {
	svc    *service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		svc:    svc,
		logger: logger,
	}
}

// Register handles POST /users.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req apimodel.RegisterUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.svc.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("user_registered",
		"identity_id", res.Identity.IdentityID,
		"credentials_issued", res.Session != nil,
	)

	writeJSON(w, http.StatusOK, dto.ToRegisterUserResponse(res))
}

// Login handles POST /login.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req apimodel.RegisterUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("user_logged_in", "identity_id", res.Identity.IdentityID)

	writeJSON(w, http.StatusOK, dto.ToLoginUserResponse(res))
}
