package handler

import (
	"net/http"

	"exercise-tracker/internal/usecase/user"
	pkgerrors "exercise-tracker/pkg/errors"
	"exercise-tracker/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserHandler handles HTTP requests for users and their exercise logs
type UserHandler struct {
	uc  user.Usecase
	log *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(uc user.Usecase, log *zap.Logger) *UserHandler {
	return &UserHandler{
		uc:  uc,
		log: log,
	}
}

// CreateUserRequest is the form (or JSON) body for creating a user
type CreateUserRequest struct {
	Username string `form:"username" json:"username"`
}

// AddExerciseRequest is the form (or JSON) body for logging an exercise.
// Duration is kept as text; it is parsed by the use case.
type AddExerciseRequest struct {
	Description string `form:"description" json:"description"`
	Duration    string `form:"duration" json:"duration"`
	Date        string `form:"date" json:"date"`
}

// ExerciseLogQuery holds the optional log filters
type ExerciseLogQuery struct {
	From  string `form:"from"`
	To    string `form:"to"`
	Limit string `form:"limit"`
}

// CreateUserResponse is returned after a user is created
type CreateUserResponse struct {
	Username string `json:"username"`
	ID       string `json:"_id"`
}

// ExerciseResponse is one exercise entry
type ExerciseResponse struct {
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	Date        string `json:"date"`
}

// UserResponse represents a user with their exercises
type UserResponse struct {
	ID        string             `json:"_id"`
	Username  string             `json:"username"`
	Exercises []ExerciseResponse `json:"exercises"`
}

// AddExerciseResponse is the new exercise merged with its owner's identity
type AddExerciseResponse struct {
	Username    string `json:"username"`
	ID          string `json:"_id"`
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	Date        string `json:"date"`
}

// ExerciseLogResponse is the filtered exercise log of a user
type ExerciseLogResponse struct {
	Username string             `json:"username"`
	ID       string             `json:"_id"`
	Count    int                `json:"count"`
	Log      []ExerciseResponse `json:"log"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// CreateUser handles POST /api/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBind(&req); err != nil {
		h.log.Warn("Invalid create user request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	resp, err := h.uc.CreateUser(c.Request.Context(), user.CreateUserRequest{Username: req.Username})
	if err != nil {
		h.handleError(c, err, "Failed to create user")
		return
	}

	c.JSON(http.StatusOK, CreateUserResponse{
		Username: resp.Username,
		ID:       resp.ID,
	})
}

// ListUsers handles GET /api/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	resp, err := h.uc.ListUsers(c.Request.Context())
	if err != nil {
		h.handleError(c, err, "Failed to retrieve users")
		return
	}

	users := make([]UserResponse, len(resp.Users))
	for i, u := range resp.Users {
		users[i] = UserResponse{
			ID:        u.ID,
			Username:  u.Username,
			Exercises: toExerciseResponses(u.Exercises),
		}
	}

	c.JSON(http.StatusOK, users)
}

// AddExercise handles POST /api/users/:_id/exercises
func (h *UserHandler) AddExercise(c *gin.Context) {
	var req AddExerciseRequest
	if err := c.ShouldBind(&req); err != nil {
		h.log.Warn("Invalid add exercise request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	resp, err := h.uc.AddExercise(c.Request.Context(), user.AddExerciseRequest{
		UserID:      c.Param("_id"),
		Description: req.Description,
		Duration:    req.Duration,
		Date:        req.Date,
	})
	if err != nil {
		h.handleError(c, err, "Failed to add exercise")
		return
	}

	c.JSON(http.StatusOK, AddExerciseResponse{
		Username:    resp.Username,
		ID:          resp.ID,
		Description: resp.Description,
		Duration:    resp.Duration,
		Date:        resp.Date,
	})
}

// GetExerciseLog handles GET /api/users/:_id/logs
func (h *UserHandler) GetExerciseLog(c *gin.Context) {
	var q ExerciseLogQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.log.Warn("Invalid exercise log query", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query"})
		return
	}

	resp, err := h.uc.GetExerciseLog(c.Request.Context(), user.GetExerciseLogRequest{
		UserID: c.Param("_id"),
		From:   q.From,
		To:     q.To,
		Limit:  q.Limit,
	})
	if err != nil {
		h.handleError(c, err, "Failed to retrieve logs")
		return
	}

	c.JSON(http.StatusOK, ExerciseLogResponse{
		Username: resp.Username,
		ID:       resp.ID,
		Count:    resp.Count,
		Log:      toExerciseResponses(resp.Log),
	})
}

// handleError converts usecase errors to appropriate HTTP responses.
// Only the client-safe message is written; the cause goes to the log.
func (h *UserHandler) handleError(c *gin.Context, err error, fallback string) {
	status, msg := pkgerrors.Status(err, fallback)

	l := logger.WithContext(c.Request.Context(), h.log)
	if status >= http.StatusInternalServerError {
		l.Error("request failed", zap.String("path", c.FullPath()), zap.Int("status", status), zap.Error(err))
	} else {
		l.Warn("request rejected", zap.String("path", c.FullPath()), zap.Int("status", status), zap.Error(err))
	}

	c.JSON(status, ErrorResponse{Error: msg})
}

func toExerciseResponses(exercises []user.Exercise) []ExerciseResponse {
	out := make([]ExerciseResponse, len(exercises))
	for i, e := range exercises {
		out[i] = ExerciseResponse{
			Description: e.Description,
			Duration:    e.Duration,
			Date:        e.Date,
		}
	}
	return out
}
