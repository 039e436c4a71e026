package models

// Request models
type SignUpRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"fullName" binding:"required"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type CreateTripRequest struct {
	StartDate   string `json:"startDate" binding:"required"`
	EndDate     string `json:"endDate" binding:"required"`
	Origin      string `json:"origin" binding:"required"`
	Destination string `json:"destination" binding:"required"`
}

type AddTripEventRequest struct {
	Description string `json:"description" binding:"required"`
	Time        string `json:"time" binding:"required"`
}

type ExpenseShareRequest struct {
	OwedByUserID string `json:"owedByUserId" binding:"required"`
	Amount       int64  `json:"amount"`
}

type CreateExpenseRequest struct {
	PaidByUserID string                `json:"paidByUserId" binding:"required"`
	Description  string                `json:"description"`
	Shares       []ExpenseShareRequest `json:"shares"`
}

// Response models
type AuthResponse struct {
	Status   string `json:"status"`
	UserID   string `json:"userId,omitempty"`
	Username string `json:"username,omitempty"`
	FullName string `json:"fullName,omitempty"`
	Token    string `json:"token,omitempty"`
}

type UserResponse struct {
	Username string `json:"username"`
	FullName string `json:"fullName"`
}

type TripResponse struct {
	ID                          string          `json:"id"`
	StartDate                   string          `json:"startDate"`
	EndDate                     string          `json:"endDate"`
	Origin                      string          `json:"origin"`
	Destination                 string          `json:"destination"`
	Participants                []UserResponse  `json:"participants"`
	Events                      []TripEvent     `json:"events"`
	IsCurrentUserInParticipants bool            `json:"isCurrentUserInParticipants"`
}

type TripsResponse struct {
	Status string         `json:"status"`
	Trips  []TripResponse `json:"trips"`
}

type CreateTripResponse struct {
	Status string `json:"status"`
	TripID string `json:"tripId"`
}

type CreateExpenseResponse struct {
	Status    string `json:"status"`
	ExpenseID string `json:"expenseId"`
}

// TripExpensesResponse bundles the raw expense listing with the
// per-user-pair balance summary, recomputed on every read.
type TripExpensesResponse struct {
	Status   string                      `json:"status"`
	Expenses []ExpenseDetails            `json:"expenses"`
	Summary  map[string]map[string]int64 `json:"summary"`
}

type SummaryResponse struct {
	Status  string                      `json:"status"`
	TripID  string                      `json:"tripId"`
	Summary map[string]map[string]int64 `json:"summary"`
}

type ActionSuccessResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
