package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hugh/leadtrack/internal/api/dto"
	"github.com/hugh/leadtrack/internal/api/middleware"
	"github.com/hugh/leadtrack/internal/database/models"
	"github.com/hugh/leadtrack/internal/leads"
	"github.com/hugh/leadtrack/internal/storage"
	"gorm.io/gorm"
)

type LeadHandler struct {
	db       *gorm.DB
	service  *leads.Service
	store    *storage.Store
	maxBytes int64
}

func NewLeadHandler(db *gorm.DB, service *leads.Service, store *storage.Store, maxBytes int64) *LeadHandler {
	return &LeadHandler{
		db:       db,
		service:  service,
		store:    store,
		maxBytes: maxBytes,
	}
}

// LeadResponse represents a lead in API responses
type LeadResponse struct {
	ID         string  `json:"id"`
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	Email      string  `json:"email"`
	ResumePath string  `json:"resume_path"`
	State      string  `json:"state"`
	Notes      *string `json:"notes"`
	UpdatedBy  *string `json:"updated_by"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

func leadToResponse(lead *models.Lead) LeadResponse {
	resp := LeadResponse{
		ID:         lead.ID.String(),
		FirstName:  lead.FirstName,
		LastName:   lead.LastName,
		Email:      lead.Email,
		ResumePath: lead.ResumePath,
		State:      string(lead.State),
		Notes:      lead.Notes,
		CreatedAt:  lead.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  lead.UpdatedAt.Format(time.RFC3339),
	}
	if lead.UpdatedBy != nil {
		s := lead.UpdatedBy.String()
		resp.UpdatedBy = &s
	}
	return resp
}

// Create handles POST /api/v1/leads — the public submission endpoint.
func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid form data or file too large"})
		return
	}

	input := leads.SubmitInput{
		FirstName: r.FormValue("first_name"),
		LastName:  r.FormValue("last_name"),
		Email:     r.FormValue("email"),
	}

	file, header, err := r.FormFile("resume")
	if err == nil {
		defer file.Close()
		input.Resume = file
		input.Filename = header.Filename
	}

	lead, err := h.service.Submit(r.Context(), input)
	if err != nil {
		var verr *leads.ValidationError
		switch {
		case errors.As(err, &verr):
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: verr.Fields})
		case errors.Is(err, leads.ErrPersistence):
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{
				Error: "We're sorry, but your application couldn't be processed at this time. Please try again later.",
			})
		default:
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to process submission"})
		}
		return
	}

	writeJSON(w, http.StatusCreated, leadToResponse(lead))
}

// List handles GET /api/v1/leads
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	// Parse pagination
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	pagination := dto.PaginationParams{Page: page, PerPage: perPage}
	pagination.Normalize()

	// Parse filters
	state := r.URL.Query().Get("state")
	if state != "" && !models.LeadState(state).Valid() {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid state filter"})
		return
	}

	// Build query
	query := h.db.Model(&models.Lead{})
	if state != "" {
		query = query.Where("state = ?", state)
	}

	// Get total count
	var total int64
	if err := query.Count(&total).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to count leads"})
		return
	}

	// Get paginated results
	var results []models.Lead
	if err := query.
		Order("created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.PerPage).
		Find(&results).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list leads"})
		return
	}

	// Convert to response
	response := make([]LeadResponse, len(results))
	for i, lead := range results {
		response[i] = leadToResponse(&lead)
	}

	totalPages := int(total) / pagination.PerPage
	if int(total)%pagination.PerPage > 0 {
		totalPages++
	}

	writeJSON(w, http.StatusOK, dto.PaginatedResponse{
		Data:       response,
		Total:      total,
		Page:       pagination.Page,
		PerPage:    pagination.PerPage,
		TotalPages: totalPages,
	})
}

// Get handles GET /api/v1/leads/:id
func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	leadID, ok := parseLeadID(w, r)
	if !ok {
		return
	}

	lead, err := h.service.Get(r.Context(), leadID)
	if err != nil {
		if errors.Is(err, leads.ErrLeadNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Lead not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get lead"})
		return
	}

	writeJSON(w, http.StatusOK, leadToResponse(lead))
}

// Update handles PATCH /api/v1/leads/:id
func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	reviewerID := middleware.GetUserID(r.Context())

	leadID, ok := parseLeadID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	lead, err := h.service.Update(r.Context(), leadID, reviewerID, leads.UpdateInput{
		State: req.State,
		Notes: req.Notes,
	})
	if err != nil {
		var verr *leads.ValidationError
		switch {
		case errors.As(err, &verr):
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: verr.Fields})
		case errors.Is(err, leads.ErrLeadNotFound):
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Lead not found"})
		default:
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to update lead"})
		}
		return
	}

	writeJSON(w, http.StatusOK, leadToResponse(lead))
}

// Resume handles GET /api/v1/leads/:id/resume — streams the stored file.
func (h *LeadHandler) Resume(w http.ResponseWriter, r *http.Request) {
	leadID, ok := parseLeadID(w, r)
	if !ok {
		return
	}

	lead, err := h.service.Get(r.Context(), leadID)
	if err != nil {
		if errors.Is(err, leads.ErrLeadNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Lead not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get lead"})
		return
	}

	w.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(lead.ResumePath))
	http.ServeFile(w, r, h.store.Path(lead.ResumePath))
}

func parseLeadID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	leadID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid lead ID"})
		return uuid.Nil, false
	}
	return leadID, true
}
