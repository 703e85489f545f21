package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/clientdesk/clientdesk/internal/api/dto"
	"github.com/clientdesk/clientdesk/internal/api/middleware"
	"github.com/clientdesk/clientdesk/internal/database/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectHandler struct {
	db *gorm.DB
}

func NewProjectHandler(db *gorm.DB) *ProjectHandler {
	return &ProjectHandler{db: db}
}

// ProjectResponse represents a project in API responses
type ProjectResponse struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Status      string         `json:"status"`
	StartDate   *string        `json:"startDate"`
	EndDate     *string        `json:"endDate"`
	Budget      *float64       `json:"budget"`
	ClientID    string         `json:"clientId"`
	ClientName  string         `json:"clientName,omitempty"`
	CreatedAt   string         `json:"createdAt"`
	UpdatedAt   string         `json:"updatedAt"`
	Tasks       []TaskResponse `json:"tasks,omitempty"`
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func projectToResponse(project *models.Project, includeTasks bool) ProjectResponse {
	resp := ProjectResponse{
		ID:          project.ID.String(),
		Name:        project.Name,
		Description: project.Description,
		Status:      project.Status,
		StartDate:   formatTimePtr(project.StartDate),
		EndDate:     formatTimePtr(project.EndDate),
		Budget:      project.Budget,
		ClientID:    project.ClientID.String(),
		CreatedAt:   project.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   project.UpdatedAt.Format(time.RFC3339),
	}
	if project.Client != nil {
		resp.ClientName = project.Client.Name
	}
	if includeTasks {
		resp.Tasks = make([]TaskResponse, len(project.Tasks))
		for i := range project.Tasks {
			resp.Tasks[i] = taskToResponse(&project.Tasks[i])
		}
	}
	return resp
}

// parseDate accepts RFC3339 timestamps, tolerating a trailing Z the way the
// frontend sends them.
func parseDate(value string) (time.Time, error) {
	return time.Parse(time.RFC3339, value)
}

// List handles GET /api/projects
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	query := h.db.WithContext(r.Context()).
		Preload("Client").
		Where("user_id = ?", userID)

	if clientID := r.URL.Query().Get("client_id"); clientID != "" {
		query = query.Where("client_id = ?", clientID)
	}
	if status := r.URL.Query().Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	includeTasks := r.URL.Query().Get("include_tasks") == "true"
	if includeTasks {
		query = query.Preload("Tasks")
	}

	var projects []models.Project
	if err := query.Order("created_at DESC").Find(&projects).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list projects"})
		return
	}

	response := make([]ProjectResponse, len(projects))
	for i := range projects {
		response[i] = projectToResponse(&projects[i], includeTasks)
	}

	writeJSON(w, http.StatusOK, response)
}

// CreateProjectRequest represents the request to create a project
type CreateProjectRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	Budget      *float64 `json:"budget"`
	ClientID    string   `json:"clientId"`
}

func (r CreateProjectRequest) Validate() map[string]string {
	errs := make(map[string]string)
	if r.Name == "" {
		errs["name"] = "Project name is required"
	}
	if r.ClientID == "" {
		errs["clientId"] = "Client ID is required"
	}
	return errs
}

// Create handles POST /api/projects. The referenced client must belong to
// the caller.
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	var client models.Client
	if err := h.db.WithContext(r.Context()).
		Where("id = ? AND user_id = ?", req.ClientID, userID).
		First(&client).Error; err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Client not found or does not belong to you"})
		return
	}

	var startDate, endDate *time.Time
	if req.StartDate != "" {
		t, err := parseDate(req.StartDate)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid start date format"})
			return
		}
		startDate = &t
	}
	if req.EndDate != "" {
		t, err := parseDate(req.EndDate)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid end date format"})
			return
		}
		endDate = &t
	}

	status := req.Status
	if status == "" {
		status = models.ProjectStatusActive
	}

	project := models.Project{
		Name:        req.Name,
		Description: req.Description,
		Status:      status,
		StartDate:   startDate,
		EndDate:     endDate,
		Budget:      req.Budget,
		ClientID:    client.ID,
		UserID:      userID,
	}

	if err := h.db.WithContext(r.Context()).Create(&project).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Error adding project"})
		return
	}

	project.Client = &client
	writeJSON(w, http.StatusCreated, projectToResponse(&project, false))
}

// Get handles GET /api/projects/:id
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	projectID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Project not found"})
		return
	}

	includeTasks := r.URL.Query().Get("include_tasks") == "true"

	query := h.db.WithContext(r.Context()).Preload("Client")
	if includeTasks {
		query = query.Preload("Tasks")
	}

	var project models.Project
	if err := query.
		Where("id = ? AND user_id = ?", projectID, userID).
		First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Project not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get project"})
		return
	}

	writeJSON(w, http.StatusOK, projectToResponse(&project, includeTasks))
}

// Update handles PUT /api/projects/:id
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	projectID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Project not found"})
		return
	}

	var project models.Project
	if err := h.db.WithContext(r.Context()).
		Where("id = ? AND user_id = ?", projectID, userID).
		First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Project not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get project"})
		return
	}

	var req map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if name, ok := req["name"].(string); ok {
		project.Name = name
	}
	if description, ok := req["description"].(string); ok {
		project.Description = description
	}
	if status, ok := req["status"].(string); ok {
		project.Status = status
	}
	if budget, ok := req["budget"].(float64); ok {
		project.Budget = &budget
	}

	if raw, ok := req["startDate"]; ok {
		if value, ok := raw.(string); ok && value != "" {
			t, err := parseDate(value)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid start date format"})
				return
			}
			project.StartDate = &t
		} else {
			project.StartDate = nil
		}
	}
	if raw, ok := req["endDate"]; ok {
		if value, ok := raw.(string); ok && value != "" {
			t, err := parseDate(value)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid end date format"})
				return
			}
			project.EndDate = &t
		} else {
			project.EndDate = nil
		}
	}

	// Re-pointing to another client re-verifies ownership of the new parent
	if raw, ok := req["clientId"].(string); ok {
		var client models.Client
		if err := h.db.WithContext(r.Context()).
			Where("id = ? AND user_id = ?", raw, userID).
			First(&client).Error; err != nil {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Client not found or does not belong to you"})
			return
		}
		project.ClientID = client.ID
	}

	if err := h.db.WithContext(r.Context()).Save(&project).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Error updating project"})
		return
	}

	writeJSON(w, http.StatusOK, projectToResponse(&project, false))
}

// Delete handles DELETE /api/projects/:id. The project's tasks go with it.
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	projectID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Project not found"})
		return
	}

	var project models.Project
	if err := h.db.WithContext(r.Context()).
		Where("id = ? AND user_id = ?", projectID, userID).
		First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Project not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get project"})
		return
	}

	err = h.db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		return tx.Delete(&project).Error
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Error deleting project"})
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Project deleted successfully"})
}
