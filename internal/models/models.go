package models

import (
	"time"
)

// User represents a registered user in the system
type User struct {
	ID        string    `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	Password  string    `db:"password" json:"-"` // Stored credential, not returned in JSON
	FullName  string    `db:"full_name" json:"fullName"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Token represents an opaque bearer token issued at login.
// A user may hold several valid tokens at once; tokens never expire.
type Token struct {
	Token     string    `db:"token" json:"token"`
	UserID    string    `db:"user_id" json:"userId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Trip represents a planned trip owned by its creator
type Trip struct {
	ID          string    `db:"id" json:"id"`
	StartDate   time.Time `db:"start_date" json:"startDate"`
	EndDate     time.Time `db:"end_date" json:"endDate"`
	Origin      string    `db:"origin" json:"origin"`
	Destination string    `db:"destination" json:"destination"`
	OwnerID     string    `db:"owner_user_id" json:"ownerUserId"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// TripParticipant associates a user with a trip. Duplicate rows for the
// same user and trip are allowed; removal deletes every matching row.
type TripParticipant struct {
	ID     string `db:"id" json:"id"`
	TripID string `db:"trip_id" json:"tripId"`
	UserID string `db:"user_id" json:"userId"`
}

// TripEvent represents one itinerary entry of a trip
type TripEvent struct {
	ID          string    `db:"id" json:"id"`
	TripID      string    `db:"trip_id" json:"tripId"`
	Description string    `db:"description" json:"description"`
	Time        time.Time `db:"event_time" json:"time"`
}

// ExpenseGroup represents one bill-splitting event: exactly one payer
// and zero or more owed shares.
type ExpenseGroup struct {
	ID          string    `db:"id" json:"id"`
	TripID      string    `db:"trip_id" json:"tripId"`
	PaidBy      string    `db:"paid_by" json:"paidBy"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// ExpenseShare represents one ower's amount within an expense group.
// Amount is in minor currency units: 100$ is stored as 10000, 100.23$ as 10023.
type ExpenseShare struct {
	ID             string `db:"id" json:"id"`
	ExpenseGroupID string `db:"expense_group_id" json:"expenseGroupId"`
	OwedBy         string `db:"owed_by" json:"owedBy"`
	Amount         int64  `db:"amount" json:"amount"`
}

// ShareDetail is one resolved share with the ower's display name
type ShareDetail struct {
	OwedByName string `json:"owedByName"`
	Amount     int64  `json:"amount"`
}

// ExpenseDetails is a fully resolved expense group. TotalPaid is always
// derived as the sum of share amounts, never stored.
type ExpenseDetails struct {
	ExpenseID   string        `json:"expenseId"`
	Description string        `json:"description"`
	PaidByName  string        `json:"paidByName"`
	TotalPaid   int64         `json:"totalPaid"`
	Shares      []ShareDetail `json:"shares"`
}
