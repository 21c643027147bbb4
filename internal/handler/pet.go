package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/petgateway/petgateway/internal/auth"
	"github.com/petgateway/petgateway/internal/handler/dto"
	"github.com/petgateway/petgateway/internal/service"
	apimodel "github.com/petgateway/petgateway/pkg/model"
)

// PetHandler handles HTTP requests for pet operations.
type PetHandler struct {
	svc    *service.PetService
	logger *slog.Logger
}

// NewPetHandler creates a new PetHandler.
func NewPetHandler(svc *service.PetService, logger *slog.Logger) *PetHandler {
	return &PetHandler{
		svc:    svc,
		logger: logger,
	}
}

// List handles GET /pets.
func (h *PetHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil {
			WriteError(w, http.StatusBadRequest, apimodel.CodeInvalidInput, "Invalid input parameters")
			return
		}
		limit = parsed
	}

	pets, err := h.svc.List(r.Context(), limit)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToListPetsResponse(pets, h.svc.PageLimit()))
}

// Create handles POST /pets.
func (h *PetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req apimodel.CreatePetRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	pet, err := h.svc.Create(r.Context(), service.CreatePetInput{
		Type: req.PetType,
		Name: req.PetName,
		Age:  req.PetAge,
	})
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("pet_created",
		"pet_id", pet.ID,
		"identity_id", auth.IdentityIDFromContext(r.Context()),
	)

	writeJSON(w, http.StatusOK, apimodel.CreatePetResponse{PetID: pet.ID})
}

// Get handles GET /pets/{petId}.
func (h *PetHandler) Get(w http.ResponseWriter, r *http.Request) {
	pet, err := h.svc.Get(r.Context(), chi.URLParam(r, "petId"))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToPet(pet))
}
