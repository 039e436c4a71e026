package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/hluo1267/tripmate-server/internal/models"
	"github.com/hluo1267/tripmate-server/internal/service"
)

// Handler holds the dependencies for the API handlers
type Handler struct {
	svc service.Service
}

// NewHandler creates a new API handler
func NewHandler(svc service.Service) *Handler {
	return &Handler{svc: svc}
}

// SetupRoutes registers all API routes on the router
func (h *Handler) SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")

	// Public routes
	api.POST("/auth/signup", h.SignUp)
	api.POST("/auth/login", h.Login)

	// Authenticated routes
	authed := api.Group("")
	authed.Use(AuthMiddleware(h.svc))

	authed.GET("/users/me", h.GetCurrentUser)
	authed.GET("/users/:username", h.GetUser)

	authed.POST("/trips", h.CreateTrip)
	authed.GET("/trips", h.ListAllTrips)
	authed.GET("/trips/my", h.ListMyTrips)
	authed.GET("/trips/:id", h.GetTrip)
	authed.DELETE("/trips/:id", h.DeleteTrip)

	authed.POST("/trips/:id/participants", h.AddParticipant)
	authed.DELETE("/trips/:id/participants", h.RemoveParticipant)

	authed.POST("/trips/:id/events", h.AddTripEvent)
	authed.DELETE("/trips/:id/events/:eventId", h.RemoveTripEvent)

	authed.POST("/trips/:id/expenses", h.RecordExpense)
	authed.GET("/trips/:id/expenses", h.ListTripExpenses)
	authed.GET("/trips/:id/summary", h.SummarizeTrip)

	authed.GET("/expenses/:id", h.GetExpenseDetails)
	authed.DELETE("/expenses/:id", h.DeleteExpenseGroup)
	authed.DELETE("/expenses/:id/shares/:shareId", h.DeleteExpenseShare)
}

// Authentication handlers
func (h *Handler) SignUp(c *gin.Context) {
	var req models.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.svc.SignUp(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// User handlers
func (h *Handler) GetCurrentUser(c *gin.Context) {
	user := c.MustGet("currentUser").(*models.User)

	c.JSON(http.StatusOK, models.UserResponse{
		Username: user.Username,
		FullName: user.FullName,
	})
}

func (h *Handler) GetUser(c *gin.Context) {
	resp, err := h.svc.GetUserByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Trip handlers
func (h *Handler) CreateTrip(c *gin.Context) {
	var req models.CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.svc.CreateTrip(c.Request.Context(), c.GetString("userId"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) GetTrip(c *gin.Context) {
	resp, err := h.svc.GetTrip(c.Request.Context(), c.GetString("userId"), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) ListMyTrips(c *gin.Context) {
	resp, err := h.svc.ListMyTrips(c.Request.Context(), c.GetString("userId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) ListAllTrips(c *gin.Context) {
	resp, err := h.svc.ListAllTrips(c.Request.Context(), c.GetString("userId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) DeleteTrip(c *gin.Context) {
	if err := h.svc.DeleteTrip(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ActionSuccessResponse{Status: "success"})
}

// Participant handlers

// AddParticipant adds the authenticated user to the trip, mirroring the
// self-service join flow of the client.
func (h *Handler) AddParticipant(c *gin.Context) {
	err := h.svc.AddParticipant(c.Request.Context(), c.Param("id"), c.GetString("userId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ActionSuccessResponse{Status: "success"})
}

func (h *Handler) RemoveParticipant(c *gin.Context) {
	err := h.svc.RemoveParticipant(c.Request.Context(), c.Param("id"), c.GetString("userId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ActionSuccessResponse{Status: "success"})
}

// Event handlers
func (h *Handler) AddTripEvent(c *gin.Context) {
	var req models.AddTripEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.svc.AddTripEvent(c.Request.Context(), c.Param("id"), req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ActionSuccessResponse{Status: "success"})
}

func (h *Handler) RemoveTripEvent(c *gin.Context) {
	if err := h.svc.RemoveTripEvent(c.Request.Context(), c.Param("eventId")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ActionSuccessResponse{Status: "success"})
}

// Expense handlers
func (h *Handler) RecordExpense(c *gin.Context) {
	var req models.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.svc.RecordExpense(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// ListTripExpenses returns the raw expense listing together with the
// recomputed balance summary.
func (h *Handler) ListTripExpenses(c *gin.Context) {
	tripID := c.Param("id")

	expenses, err := h.svc.ListTripExpenses(c.Request.Context(), tripID)
	if err != nil {
		respondError(c, err)
		return
	}

	summary, err := h.svc.SummarizeTrip(c.Request.Context(), tripID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.TripExpensesResponse{
		Status:   "success",
		Expenses: expenses,
		Summary:  summary,
	})
}

func (h *Handler) SummarizeTrip(c *gin.Context) {
	tripID := c.Param("id")

	summary, err := h.svc.SummarizeTrip(c.Request.Context(), tripID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SummaryResponse{
		Status:  "success",
		TripID:  tripID,
		Summary: summary,
	})
}

func (h *Handler) GetExpenseDetails(c *gin.Context) {
	resp, err := h.svc.GetExpenseDetails(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) DeleteExpenseGroup(c *gin.Context) {
	if err := h.svc.DeleteExpenseGroup(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ActionSuccessResponse{Status: "success"})
}

func (h *Handler) DeleteExpenseShare(c *gin.Context) {
	if err := h.svc.DeleteExpenseShare(c.Request.Context(), c.Param("shareId")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ActionSuccessResponse{Status: "success"})
}

// Helpers
func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Status:  "error",
		Code:    "BAD_REQUEST",
		Message: err.Error(),
	})
}

// respondError maps service errors onto HTTP statuses
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Status:  "error",
			Code:    "NOT_FOUND",
			Message: err.Error(),
		})
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Status:  "error",
			Code:    "VALIDATION_FAILED",
			Message: err.Error(),
		})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Status:  "error",
			Code:    "CONFLICT",
			Message: err.Error(),
		})
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Status:  "error",
			Code:    "UNAUTHORIZED",
			Message: err.Error(),
		})
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("internal error")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Status:  "error",
			Code:    "INTERNAL_ERROR",
			Message: "Internal server error",
		})
	}
}
