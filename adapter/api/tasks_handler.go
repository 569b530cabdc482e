package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/weekplan/internal/planner/application/commands"
	"github.com/felixgeelhaar/weekplan/internal/planner/application/queries"
	"github.com/felixgeelhaar/weekplan/internal/planner/domain/task"
	"github.com/felixgeelhaar/weekplan/pkg/week"
)

// TaskHandler handles task API requests.
type TaskHandler struct {
	createTask   *commands.CreateTaskHandler
	updateTask   *commands.UpdateTaskHandler
	deleteTask   *commands.DeleteTaskHandler
	reorderTasks *commands.ReorderTasksHandler
	listWeek     *queries.ListWeekHandler
	logger       *slog.Logger
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(
	createTask *commands.CreateTaskHandler,
	updateTask *commands.UpdateTaskHandler,
	deleteTask *commands.DeleteTaskHandler,
	reorderTasks *commands.ReorderTasksHandler,
	listWeek *queries.ListWeekHandler,
	logger *slog.Logger,
) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{
		createTask:   createTask,
		updateTask:   updateTask,
		deleteTask:   deleteTask,
		reorderTasks: reorderTasks,
		listWeek:     listWeek,
		logger:       logger,
	}
}

// taskResponse is the wire representation of a task.
type taskResponse struct {
	ID            string  `json:"id"`
	UserID        string  `json:"userId"`
	Title         string  `json:"title"`
	Description   *string `json:"description"`
	ScheduledDate string  `json:"scheduledDate"`
	Position      int     `json:"position"`
	Category      string  `json:"category"`
	IsCompleted   bool    `json:"isCompleted"`
	CompletedAt   *string `json:"completedAt"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

func toTaskResponse(t *task.Task) taskResponse {
	resp := taskResponse{
		ID:            t.ID().String(),
		UserID:        t.UserID().String(),
		Title:         t.Title(),
		ScheduledDate: week.FormatDate(t.ScheduledDate()),
		Position:      t.Position(),
		Category:      string(t.Category()),
		IsCompleted:   t.IsCompleted(),
		CreatedAt:     t.CreatedAt().UTC().Format(time.RFC3339Nano),
		UpdatedAt:     t.UpdatedAt().UTC().Format(time.RFC3339Nano),
	}
	if d := t.Description(); d != "" {
		resp.Description = &d
	}
	if at := t.CompletedAt(); at != nil {
		s := at.UTC().Format(time.RFC3339Nano)
		resp.CompletedAt = &s
	}
	return resp
}

func toTaskResponses(ts []*task.Task) []taskResponse {
	out := make([]taskResponse, 0, len(ts))
	for _, t := range ts {
		out = append(out, toTaskResponse(t))
	}
	return out
}

// ListTasks handles GET /api/v1/tasks?start=YYYY-MM-DD&end=YYYY-MM-DD.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "no session")
		return
	}

	start, err := week.ParseDate(r.URL.Query().Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start date")
		return
	}
	end, err := week.ParseDate(r.URL.Query().Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end date")
		return
	}
	if end.Before(start) {
		writeError(w, http.StatusBadRequest, "end must not precede start")
		return
	}

	tasks, err := h.listWeek.Handle(r.Context(), queries.ListWeekQuery{
		UserID: userID,
		Start:  start,
		End:    end,
	})
	if err != nil {
		h.logger.Error("failed to list tasks", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list tasks")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"tasks": toTaskResponses(tasks),
	})
}

// createTaskRequest is the body of POST /api/v1/tasks.
type createTaskRequest struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	ScheduledDate string `json:"scheduledDate"`
	Category      string `json:"category"`
}

// CreateTask handles POST /api/v1/tasks.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "no session")
		return
	}

	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	date, err := week.ParseDate(req.ScheduledDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid scheduledDate")
		return
	}

	created, err := h.createTask.Handle(r.Context(), commands.CreateTaskCommand{
		UserID:        userID,
		Title:         req.Title,
		Description:   req.Description,
		ScheduledDate: date,
		Category:      req.Category,
	})
	if err != nil {
		h.writeTaskError(w, err, "failed to create task")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"task": toTaskResponse(created),
	})
}

// updateTaskRequest is the body of PATCH /api/v1/tasks/{taskID}. Absent
// fields are left unchanged.
type updateTaskRequest struct {
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	ScheduledDate *string `json:"scheduledDate"`
	Category      *string `json:"category"`
	Position      *int    `json:"position"`
	IsCompleted   *bool   `json:"isCompleted"`
}

// UpdateTask handles PATCH /api/v1/tasks/{taskID}.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "no session")
		return
	}

	taskID, err := uuid.Parse(r.PathValue("taskID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid task ID")
		return
	}

	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cmd := commands.UpdateTaskCommand{
		TaskID:      taskID,
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Position:    req.Position,
		IsCompleted: req.IsCompleted,
	}
	if req.ScheduledDate != nil {
		date, err := week.ParseDate(*req.ScheduledDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid scheduledDate")
			return
		}
		cmd.ScheduledDate = &date
	}

	updated, err := h.updateTask.Handle(r.Context(), cmd)
	if err != nil {
		h.writeTaskError(w, err, "failed to update task")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"task": toTaskResponse(updated),
	})
}

// DeleteTask handles DELETE /api/v1/tasks/{taskID}.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "no session")
		return
	}

	taskID, err := uuid.Parse(r.PathValue("taskID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid task ID")
		return
	}

	if err := h.deleteTask.Handle(r.Context(), commands.DeleteTaskCommand{
		TaskID: taskID,
		UserID: userID,
	}); err != nil {
		h.writeTaskError(w, err, "failed to delete task")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
	})
}

// reorderTasksRequest is the body of PATCH /api/v1/tasks/reorder.
type reorderTasksRequest struct {
	Date    string   `json:"date"`
	TaskIDs []string `json:"taskIds"`
}

// ReorderTasks handles PATCH /api/v1/tasks/reorder. Each listed task gets
// position = its index in taskIds.
func (h *TaskHandler) ReorderTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "no session")
		return
	}

	var req reorderTasksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	date, err := week.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date")
		return
	}

	taskIDs := make([]uuid.UUID, 0, len(req.TaskIDs))
	for _, raw := range req.TaskIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid task ID in taskIds")
			return
		}
		taskIDs = append(taskIDs, id)
	}

	if err := h.reorderTasks.Handle(r.Context(), commands.ReorderTasksCommand{
		UserID:  userID,
		Date:    date,
		TaskIDs: taskIDs,
	}); err != nil {
		h.writeTaskError(w, err, "failed to reorder tasks")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"updated": len(taskIDs),
	})
}

// writeTaskError maps domain errors onto HTTP statuses.
func (h *TaskHandler) writeTaskError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, task.ErrNotFound):
		writeError(w, http.StatusNotFound, "task not found")
	case errors.Is(err, task.ErrEmptyTitle),
		errors.Is(err, task.ErrTitleTooLong),
		errors.Is(err, task.ErrInvalidCategory),
		errors.Is(err, task.ErrInvalidPosition):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error(fallback, "error", err)
		writeError(w, http.StatusInternalServerError, fallback)
	}
}
