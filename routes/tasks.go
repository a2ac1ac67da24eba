package routes

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"task-api/models"
)

type createTaskRequest struct {
	Title       *string `json:"title" binding:"required,min=1,max=200"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

type updateTaskRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=200"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

func (req updateTaskRequest) patch() models.TaskPatch {
	return models.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	}
}

// GET /api/tasks
func (s *Server) listTasks(c *gin.Context) {
	tasks, err := s.store.List(c.Request.Context())
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// GET /api/tasks/:id
func (s *Server) getTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		notFound(c)
		return
	}

	task, err := s.store.Get(c.Request.Context(), id)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// POST /api/tasks
func (s *Server) createTask(c *gin.Context) {
	var req createTaskRequest
	if err := decodeJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": requestErrorMessage(err, models.TitleRequired().Message)})
		return
	}

	task, err := s.store.Create(c.Request.Context(), *req.Title, req.Description, req.Completed)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// PUT /api/tasks/:id
func (s *Server) updateTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		notFound(c)
		return
	}

	var req updateTaskRequest
	if err := decodeJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": requestErrorMessage(err, msgInvalidBody)})
		return
	}

	task, err := s.store.Update(c.Request.Context(), id, req.patch())
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// DELETE /api/tasks/:id
func (s *Server) deleteTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		notFound(c)
		return
	}

	if err := s.store.Delete(c.Request.Context(), id); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// taskID accepts only unsigned decimal ids; anything else is treated as an
// unmatched route.
func taskID(c *gin.Context) (int64, bool) {
	raw := c.Param("id")
	if raw == "" {
		return 0, false
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return 0, false
		}
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
}

// writeStoreError maps store errors onto status codes. Unexpected errors are
// logged and never echoed to the client.
func writeStoreError(c *gin.Context, err error) {
	var verr *models.ValidationError
	switch {
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message})
	default:
		log.Printf("rid=%s method=%s path=%s error: %v", c.GetString(requestIDKey), c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
	}
}
