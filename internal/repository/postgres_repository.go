package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hluo1267/tripmate-server/internal/models"
)

// Repository interface defines the methods that any repository implementation must satisfy
type Repository interface {
	// User operations
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Token operations
	CreateToken(ctx context.Context, token *models.Token) error
	GetUserByToken(ctx context.Context, token string) (*models.User, error)

	// Trip operations
	CreateTrip(ctx context.Context, trip *models.Trip) error
	GetTrip(ctx context.Context, tripID string) (*models.Trip, error)
	GetAllTrips(ctx context.Context) ([]models.Trip, error)
	GetTripsByOwner(ctx context.Context, userID string) ([]models.Trip, error)
	DeleteTrip(ctx context.Context, tripID string) error

	// Participant operations
	AddParticipant(ctx context.Context, participant *models.TripParticipant) error
	RemoveParticipant(ctx context.Context, tripID, userID string) error
	GetTripParticipants(ctx context.Context, tripID string) ([]models.User, error)
	IsTripParticipant(ctx context.Context, tripID, userID string) (bool, error)

	// Event operations
	AddTripEvent(ctx context.Context, event *models.TripEvent) error
	RemoveTripEvent(ctx context.Context, eventID string) error
	GetTripEvents(ctx context.Context, tripID string) ([]models.TripEvent, error)

	// Expense operations
	CreateExpenseGroup(ctx context.Context, group *models.ExpenseGroup, shares []models.ExpenseShare) error
	GetExpenseGroup(ctx context.Context, groupID string) (*models.ExpenseGroup, error)
	GetExpenseGroupsByTrip(ctx context.Context, tripID string) ([]models.ExpenseGroup, error)
	GetExpenseShares(ctx context.Context, groupID string) ([]models.ExpenseShare, error)
	DeleteExpenseGroup(ctx context.Context, groupID string) error
	DeleteExpenseShare(ctx context.Context, shareID string) error
}

// PostgresRepository implements the Repository interface using PostgreSQL
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{
		db: db,
	}
}

// GetDB returns the underlying database connection
func (r *PostgresRepository) GetDB() *sqlx.DB {
	return r.db
}

// User repository methods
func (r *PostgresRepository) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, username, password, full_name, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	// Generate a new UUID if not provided
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Username, user.Password, user.FullName, user.CreatedAt)

	return err
}

func (r *PostgresRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT * FROM users WHERE username = $1`

	var user models.User
	err := r.db.GetContext(ctx, &user, query, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, err
	}

	return &user, nil
}

func (r *PostgresRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT * FROM users WHERE id = $1`

	var user models.User
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, err
	}

	return &user, nil
}

// Token repository methods
func (r *PostgresRepository) CreateToken(ctx context.Context, token *models.Token) error {
	query := `INSERT INTO tokens (token, user_id, created_at) VALUES ($1, $2, $3)`

	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, query, token.Token, token.UserID, token.CreatedAt)
	return err
}

func (r *PostgresRepository) GetUserByToken(ctx context.Context, token string) (*models.User, error) {
	query := `
		SELECT u.* FROM users u
		JOIN tokens t ON u.id = t.user_id
		WHERE t.token = $1
	`

	var user models.User
	err := r.db.GetContext(ctx, &user, query, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Token not found
		}
		return nil, err
	}

	return &user, nil
}

// Trip repository methods

// CreateTrip inserts the trip and the owner's participant row in one
// transaction, so a trip is never visible without its creator on it.
func (r *PostgresRepository) CreateTrip(ctx context.Context, trip *models.Trip) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
	}()

	query := `
		INSERT INTO trips (id, start_date, end_date, origin, destination, owner_user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	// Generate a new UUID if not provided
	if trip.ID == "" {
		trip.ID = uuid.New().String()
	}

	if trip.CreatedAt.IsZero() {
		trip.CreatedAt = time.Now().UTC()
	}

	_, err = tx.ExecContext(ctx, query,
		trip.ID, trip.StartDate, trip.EndDate, trip.Origin,
		trip.Destination, trip.OwnerID, trip.CreatedAt)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO trip_participants (id, trip_id, user_id) VALUES ($1, $2, $3)`,
		uuid.New().String(), trip.ID, trip.OwnerID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *PostgresRepository) GetTrip(ctx context.Context, tripID string) (*models.Trip, error) {
	query := `SELECT * FROM trips WHERE id = $1`

	var trip models.Trip
	err := r.db.GetContext(ctx, &trip, query, tripID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Trip not found
		}
		return nil, err
	}

	return &trip, nil
}

func (r *PostgresRepository) GetAllTrips(ctx context.Context) ([]models.Trip, error) {
	query := `SELECT * FROM trips`

	var trips []models.Trip
	err := r.db.SelectContext(ctx, &trips, query)
	if err != nil {
		return nil, err
	}

	return trips, nil
}

func (r *PostgresRepository) GetTripsByOwner(ctx context.Context, userID string) ([]models.Trip, error) {
	query := `SELECT * FROM trips WHERE owner_user_id = $1`

	var trips []models.Trip
	err := r.db.SelectContext(ctx, &trips, query, userID)
	if err != nil {
		return nil, err
	}

	return trips, nil
}

// DeleteTrip removes the trip with its participants and events.
// Expense history is left in place so past balances stay auditable.
func (r *PostgresRepository) DeleteTrip(ctx context.Context, tripID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
	}()

	_, err = tx.ExecContext(ctx, `DELETE FROM trip_participants WHERE trip_id = $1`, tripID)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM trip_events WHERE trip_id = $1`, tripID)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM trips WHERE id = $1`, tripID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// Participant repository methods
func (r *PostgresRepository) AddParticipant(ctx context.Context, participant *models.TripParticipant) error {
	query := `INSERT INTO trip_participants (id, trip_id, user_id) VALUES ($1, $2, $3)`

	if participant.ID == "" {
		participant.ID = uuid.New().String()
	}

	_, err := r.db.ExecContext(ctx, query,
		participant.ID, participant.TripID, participant.UserID)
	return err
}

// RemoveParticipant deletes every association row for the user and trip,
// not just one, since duplicates are allowed on insert.
func (r *PostgresRepository) RemoveParticipant(ctx context.Context, tripID, userID string) error {
	query := `DELETE FROM trip_participants WHERE trip_id = $1 AND user_id = $2`

	_, err := r.db.ExecContext(ctx, query, tripID, userID)
	return err
}

func (r *PostgresRepository) GetTripParticipants(ctx context.Context, tripID string) ([]models.User, error) {
	query := `
		SELECT u.* FROM users u
		JOIN trip_participants tp ON u.id = tp.user_id
		WHERE tp.trip_id = $1
	`

	var users []models.User
	err := r.db.SelectContext(ctx, &users, query, tripID)
	if err != nil {
		return nil, err
	}

	return users, nil
}

func (r *PostgresRepository) IsTripParticipant(ctx context.Context, tripID, userID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM trip_participants WHERE trip_id = $1 AND user_id = $2)`,
		tripID, userID).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

// Event repository methods
func (r *PostgresRepository) AddTripEvent(ctx context.Context, event *models.TripEvent) error {
	query := `
		INSERT INTO trip_events (id, trip_id, description, event_time)
		VALUES ($1, $2, $3, $4)
	`

	if event.ID == "" {
		event.ID = uuid.New().String()
	}

	_, err := r.db.ExecContext(ctx, query,
		event.ID, event.TripID, event.Description, event.Time)
	return err
}

func (r *PostgresRepository) RemoveTripEvent(ctx context.Context, eventID string) error {
	query := `DELETE FROM trip_events WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, eventID)
	return err
}

func (r *PostgresRepository) GetTripEvents(ctx context.Context, tripID string) ([]models.TripEvent, error) {
	query := `SELECT * FROM trip_events WHERE trip_id = $1 ORDER BY event_time ASC`

	var events []models.TripEvent
	err := r.db.SelectContext(ctx, &events, query, tripID)
	if err != nil {
		return nil, err
	}

	return events, nil
}

// Expense repository methods

// CreateExpenseGroup writes the group and all of its shares in one
// transaction. Concurrent readers either see the group with every share
// committed or no group at all.
func (r *PostgresRepository) CreateExpenseGroup(
	ctx context.Context,
	group *models.ExpenseGroup,
	shares []models.ExpenseShare,
) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
	}()

	// Generate a new UUID if not provided
	if group.ID == "" {
		group.ID = uuid.New().String()
	}

	if group.CreatedAt.IsZero() {
		group.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO expense_groups (id, trip_id, paid_by, description, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err = tx.ExecContext(ctx, query,
		group.ID, group.TripID, group.PaidBy, group.Description, group.CreatedAt)
	if err != nil {
		return err
	}

	shareQuery := `
		INSERT INTO expense_shares (id, expense_group_id, owed_by, amount)
		VALUES ($1, $2, $3, $4)
	`

	for i := range shares {
		if shares[i].ID == "" {
			shares[i].ID = uuid.New().String()
		}
		shares[i].ExpenseGroupID = group.ID

		_, err = tx.ExecContext(ctx, shareQuery,
			shares[i].ID, shares[i].ExpenseGroupID, shares[i].OwedBy, shares[i].Amount)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *PostgresRepository) GetExpenseGroup(ctx context.Context, groupID string) (*models.ExpenseGroup, error) {
	query := `SELECT * FROM expense_groups WHERE id = $1`

	var group models.ExpenseGroup
	err := r.db.GetContext(ctx, &group, query, groupID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Expense group not found
		}
		return nil, err
	}

	return &group, nil
}

func (r *PostgresRepository) GetExpenseGroupsByTrip(ctx context.Context, tripID string) ([]models.ExpenseGroup, error) {
	query := `SELECT * FROM expense_groups WHERE trip_id = $1`

	var groups []models.ExpenseGroup
	err := r.db.SelectContext(ctx, &groups, query, tripID)
	if err != nil {
		return nil, err
	}

	return groups, nil
}

func (r *PostgresRepository) GetExpenseShares(ctx context.Context, groupID string) ([]models.ExpenseShare, error) {
	query := `SELECT * FROM expense_shares WHERE expense_group_id = $1`

	var shares []models.ExpenseShare
	err := r.db.SelectContext(ctx, &shares, query, groupID)
	if err != nil {
		return nil, err
	}

	return shares, nil
}

// DeleteExpenseGroup removes the group and its shares together.
func (r *PostgresRepository) DeleteExpenseGroup(ctx context.Context, groupID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
	}()

	_, err = tx.ExecContext(ctx, `DELETE FROM expense_shares WHERE expense_group_id = $1`, groupID)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM expense_groups WHERE id = $1`, groupID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteExpenseShare removes a single share. The parent group stays in
// place even if this was its last share.
func (r *PostgresRepository) DeleteExpenseShare(ctx context.Context, shareID string) error {
	query := `DELETE FROM expense_shares WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, shareID)
	return err
}
