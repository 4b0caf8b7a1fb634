package handlers

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hugh/leadtrack/internal/api/middleware"
	"github.com/hugh/leadtrack/internal/auth"
	"github.com/hugh/leadtrack/internal/database/models"
	"gorm.io/gorm"
)

type DashboardHandler struct {
	db          *gorm.DB
	authService *auth.Service
	templates   *template.Template
	companyName string
}

func NewDashboardHandler(db *gorm.DB, authService *auth.Service, templates *template.Template, companyName string) *DashboardHandler {
	return &DashboardHandler{
		db:          db,
		authService: authService,
		templates:   templates,
		companyName: companyName,
	}
}

// SubmitForm renders the public lead submission form.
func (h *DashboardHandler) SubmitForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, "lead_form.html", map[string]interface{}{
		"CompanyName": h.companyName,
	})
}

func (h *DashboardHandler) Login(w http.ResponseWriter, r *http.Request) {
	h.render(w, "login.html", map[string]interface{}{
		"CompanyName": h.companyName,
	})
}

func (h *DashboardHandler) Index(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	user, err := h.authService.GetUserByID(r.Context(), userID)
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	// Dashboard stats
	var stats struct {
		TotalLeads   int64
		PendingCount int64
		ReachedCount int64
	}
	h.db.Model(&models.Lead{}).Count(&stats.TotalLeads)
	h.db.Model(&models.Lead{}).Where("state = ?", models.LeadStatePending).Count(&stats.PendingCount)
	h.db.Model(&models.Lead{}).Where("state = ?", models.LeadStateReachedOut).Count(&stats.ReachedCount)

	var recent []models.Lead
	h.db.Order("created_at DESC").Limit(50).Find(&recent)

	h.render(w, "dashboard.html", map[string]interface{}{
		"CompanyName": h.companyName,
		"User":        user,
		"Stats":       stats,
		"Leads":       recent,
	})
}

// LeadDetail renders the review page for one lead.
func (h *DashboardHandler) LeadDetail(w http.ResponseWriter, r *http.Request) {
	leadID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	var lead models.Lead
	if err := h.db.First(&lead, leadID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "Failed to load lead", http.StatusInternalServerError)
		return
	}

	h.render(w, "lead_detail.html", map[string]interface{}{
		"CompanyName": h.companyName,
		"Lead":        lead,
	})
}

func (h *DashboardHandler) render(w http.ResponseWriter, name string, data interface{}) {
	if h.templates == nil {
		http.Error(w, "Templates not loaded", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
