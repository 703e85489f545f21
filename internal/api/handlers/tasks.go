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

type TaskHandler struct {
	db *gorm.DB
}

func NewTaskHandler(db *gorm.DB) *TaskHandler {
	return &TaskHandler{db: db}
}

// TaskResponse represents a task in API responses
type TaskResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Status      string  `json:"status"`
	Priority    string  `json:"priority"`
	DueDate     *string `json:"dueDate"`
	CompletedAt *string `json:"completedAt"`
	ProjectID   string  `json:"projectId"`
	ProjectName string  `json:"projectName,omitempty"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

func taskToResponse(task *models.Task) TaskResponse {
	resp := TaskResponse{
		ID:          task.ID.String(),
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		DueDate:     formatTimePtr(task.DueDate),
		CompletedAt: formatTimePtr(task.CompletedAt),
		ProjectID:   task.ProjectID.String(),
		CreatedAt:   task.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   task.UpdatedAt.Format(time.RFC3339),
	}
	if task.Project != nil {
		resp.ProjectName = task.Project.Name
	}
	return resp
}

// List handles GET /api/tasks
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	query := h.db.WithContext(r.Context()).
		Preload("Project").
		Where("user_id = ?", userID)

	if projectID := r.URL.Query().Get("project_id"); projectID != "" {
		query = query.Where("project_id = ?", projectID)
	}
	if status := r.URL.Query().Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if priority := r.URL.Query().Get("priority"); priority != "" {
		query = query.Where("priority = ?", priority)
	}

	var tasks []models.Task
	if err := query.Order("created_at DESC").Find(&tasks).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list tasks"})
		return
	}

	response := make([]TaskResponse, len(tasks))
	for i := range tasks {
		response[i] = taskToResponse(&tasks[i])
	}

	writeJSON(w, http.StatusOK, response)
}

// CreateTaskRequest represents the request to create a task
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	DueDate     string `json:"dueDate"`
	ProjectID   string `json:"projectId"`
}

func (r CreateTaskRequest) Validate() map[string]string {
	errs := make(map[string]string)
	if r.Title == "" {
		errs["title"] = "Task title is required"
	}
	if r.ProjectID == "" {
		errs["projectId"] = "Project ID is required"
	}
	return errs
}

// Create handles POST /api/tasks. The referenced project must belong to the
// caller.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	var project models.Project
	if err := h.db.WithContext(r.Context()).
		Where("id = ? AND user_id = ?", req.ProjectID, userID).
		First(&project).Error; err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Project not found or does not belong to you"})
		return
	}

	var dueDate *time.Time
	if req.DueDate != "" {
		t, err := parseDate(req.DueDate)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid due date format"})
			return
		}
		dueDate = &t
	}

	status := req.Status
	if status == "" {
		status = models.TaskStatusTodo
	}
	priority := req.Priority
	if priority == "" {
		priority = models.TaskPriorityMedium
	}

	task := models.Task{
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		Priority:    priority,
		DueDate:     dueDate,
		ProjectID:   project.ID,
		UserID:      userID,
	}

	if err := h.db.WithContext(r.Context()).Create(&task).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Error adding task"})
		return
	}

	task.Project = &project
	writeJSON(w, http.StatusCreated, taskToResponse(&task))
}

// Get handles GET /api/tasks/:id
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	taskID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Task not found"})
		return
	}

	var task models.Task
	if err := h.db.WithContext(r.Context()).
		Preload("Project").
		Where("id = ? AND user_id = ?", taskID, userID).
		First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Task not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get task"})
		return
	}

	writeJSON(w, http.StatusOK, taskToResponse(&task))
}

// Update handles PUT /api/tasks/:id
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	taskID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Task not found"})
		return
	}

	var task models.Task
	if err := h.db.WithContext(r.Context()).
		Where("id = ? AND user_id = ?", taskID, userID).
		First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Task not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get task"})
		return
	}

	var req map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if title, ok := req["title"].(string); ok {
		task.Title = title
	}
	if description, ok := req["description"].(string); ok {
		task.Description = description
	}
	if status, ok := req["status"].(string); ok {
		task.Status = status
		// Completing a task stamps CompletedAt; leaving completed clears it
		if status == models.TaskStatusCompleted && task.CompletedAt == nil {
			now := time.Now()
			task.CompletedAt = &now
		} else if status != models.TaskStatusCompleted {
			task.CompletedAt = nil
		}
	}
	if priority, ok := req["priority"].(string); ok {
		task.Priority = priority
	}

	if raw, ok := req["dueDate"]; ok {
		if value, ok := raw.(string); ok && value != "" {
			t, err := parseDate(value)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid due date format"})
				return
			}
			task.DueDate = &t
		} else {
			task.DueDate = nil
		}
	}

	// Re-pointing to another project re-verifies ownership of the new parent
	if raw, ok := req["projectId"].(string); ok {
		var project models.Project
		if err := h.db.WithContext(r.Context()).
			Where("id = ? AND user_id = ?", raw, userID).
			First(&project).Error; err != nil {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Project not found or does not belong to you"})
			return
		}
		task.ProjectID = project.ID
	}

	if err := h.db.WithContext(r.Context()).Save(&task).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Error updating task"})
		return
	}

	writeJSON(w, http.StatusOK, taskToResponse(&task))
}

// Delete handles DELETE /api/tasks/:id
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	taskID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Task not found"})
		return
	}

	var task models.Task
	if err := h.db.WithContext(r.Context()).
		Where("id = ? AND user_id = ?", taskID, userID).
		First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Task not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get task"})
		return
	}

	if err := h.db.WithContext(r.Context()).Delete(&task).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Error deleting task"})
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Task deleted successfully"})
}
