package service

import (
	"context"
	"fmt"
	"time"

	"github.com/hluo1267/tripmate-server/internal/auth"
	"github.com/hluo1267/tripmate-server/internal/balance"
	"github.com/hluo1267/tripmate-server/internal/models"
	"github.com/hluo1267/tripmate-server/internal/repository"
)

// dateLayout is the wire format for trip dates and event times
const dateLayout = "2006-01-02"

// Service defines all the business logic operations
type Service interface {
	// Authentication
	SignUp(ctx context.Context, req models.SignUpRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	GetCurrentUser(ctx context.Context, token string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.UserResponse, error)

	// Trip operations
	CreateTrip(ctx context.Context, userID string, req models.CreateTripRequest) (*models.CreateTripResponse, error)
	GetTrip(ctx context.Context, userID, tripID string) (*models.TripResponse, error)
	ListMyTrips(ctx context.Context, userID string) (*models.TripsResponse, error)
	ListAllTrips(ctx context.Context, userID string) (*models.TripsResponse, error)
	DeleteTrip(ctx context.Context, tripID string) error

	// Participants and events
	AddParticipant(ctx context.Context, tripID, userID string) error
	RemoveParticipant(ctx context.Context, tripID, userID string) error
	AddTripEvent(ctx context.Context, tripID string, req models.AddTripEventRequest) error
	RemoveTripEvent(ctx context.Context, eventID string) error

	// Expense ledger
	RecordExpense(ctx context.Context, tripID string, req models.CreateExpenseRequest) (*models.CreateExpenseResponse, error)
	GetExpenseDetails(ctx context.Context, expenseGroupID string) (*models.ExpenseDetails, error)
	ListTripExpenses(ctx context.Context, tripID string) ([]models.ExpenseDetails, error)
	DeleteExpenseGroup(ctx context.Context, expenseGroupID string) error
	DeleteExpenseShare(ctx context.Context, shareID string) error

	// Balance summary
	SummarizeTrip(ctx context.Context, tripID string) (balance.Matrix, error)
}

// DefaultService implements the Service interface
type DefaultService struct {
	repo             repository.Repository
	verifier         auth.Verifier
	strictMembership bool
}

// NewDefaultService creates a new DefaultService. When strictMembership
// is set, RecordExpense requires the payer and every ower to be current
// trip participants; otherwise membership is not checked, matching the
// historical behavior.
func NewDefaultService(repo repository.Repository, verifier auth.Verifier, strictMembership bool) Service {
	return &DefaultService{
		repo:             repo,
		verifier:         verifier,
		strictMembership: strictMembership,
	}
}

// Authentication methods
func (s *DefaultService) SignUp(ctx context.Context, req models.SignUpRequest) (*models.AuthResponse, error) {
	// Check if user already exists
	existingUser, err := s.repo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("error checking user existence: %w", err)
	}

	if existingUser != nil {
		return nil, fmt.Errorf("%w: username %q already exists", ErrConflict, req.Username)
	}

	stored, err := s.verifier.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing credential: %w", err)
	}

	user := &models.User{
		Username: req.Username,
		Password: stored,
		FullName: req.FullName,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return &models.AuthResponse{
		Status:   "success",
		UserID:   user.ID,
		Username: user.Username,
		FullName: user.FullName,
	}, nil
}

func (s *DefaultService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.repo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}

	if user == nil || !s.verifier.Verify(req.Password, user.Password) {
		return nil, fmt.Errorf("%w: incorrect username or password", ErrUnauthorized)
	}

	// Issue a fresh opaque token; earlier tokens stay valid
	tokenString, err := auth.GenerateToken()
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	token := &models.Token{
		Token:  tokenString,
		UserID: user.ID,
	}

	if err := s.repo.CreateToken(ctx, token); err != nil {
		return nil, fmt.Errorf("error storing token: %w", err)
	}

	return &models.AuthResponse{
		Status:   "success",
		UserID:   user.ID,
		Username: user.Username,
		Token:    token.Token,
	}, nil
}

func (s *DefaultService) GetCurrentUser(ctx context.Context, token string) (*models.User, error) {
	user, err := s.repo.GetUserByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("error resolving token: %w", err)
	}

	if user == nil {
		return nil, fmt.Errorf("%w: unknown token", ErrUnauthorized)
	}

	return user, nil
}

func (s *DefaultService) GetUserByUsername(ctx context.Context, username string) (*models.UserResponse, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}

	if user == nil {
		return nil, fmt.Errorf("%w: user %q", ErrNotFound, username)
	}

	return &models.UserResponse{
		Username: user.Username,
		FullName: user.FullName,
	}, nil
}

// Trip operations
func (s *DefaultService) CreateTrip(
	ctx context.Context,
	userID string,
	req models.CreateTripRequest,
) (*models.CreateTripResponse, error) {
	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start date %q", ErrValidation, req.StartDate)
	}

	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid end date %q", ErrValidation, req.EndDate)
	}

	trip := &models.Trip{
		StartDate:   startDate,
		EndDate:     endDate,
		Origin:      req.Origin,
		Destination: req.Destination,
		OwnerID:     userID,
	}

	if err := s.repo.CreateTrip(ctx, trip); err != nil {
		return nil, fmt.Errorf("error creating trip: %w", err)
	}

	return &models.CreateTripResponse{
		Status: "success",
		TripID: trip.ID,
	}, nil
}

func (s *DefaultService) GetTrip(ctx context.Context, userID, tripID string) (*models.TripResponse, error) {
	trip, err := s.repo.GetTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("error getting trip: %w", err)
	}

	if trip == nil {
		return nil, fmt.Errorf("%w: trip %q", ErrNotFound, tripID)
	}

	return s.convertTrip(ctx, trip, userID)
}

func (s *DefaultService) ListMyTrips(ctx context.Context, userID string) (*models.TripsResponse, error) {
	trips, err := s.repo.GetTripsByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing trips: %w", err)
	}

	return s.convertTrips(ctx, trips, userID)
}

func (s *DefaultService) ListAllTrips(ctx context.Context, userID string) (*models.TripsResponse, error) {
	trips, err := s.repo.GetAllTrips(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing trips: %w", err)
	}

	return s.convertTrips(ctx, trips, userID)
}

func (s *DefaultService) DeleteTrip(ctx context.Context, tripID string) error {
	trip, err := s.repo.GetTrip(ctx, tripID)
	if err != nil {
		return fmt.Errorf("error getting trip: %w", err)
	}

	if trip == nil {
		return fmt.Errorf("%w: trip %q", ErrNotFound, tripID)
	}

	if err := s.repo.DeleteTrip(ctx, tripID); err != nil {
		return fmt.Errorf("error deleting trip: %w", err)
	}

	return nil
}

// Participants and events
func (s *DefaultService) AddParticipant(ctx context.Context, tripID, userID string) error {
	trip, err := s.repo.GetTrip(ctx, tripID)
	if err != nil {
		return fmt.Errorf("error getting trip: %w", err)
	}

	if trip == nil {
		return fmt.Errorf("%w: trip %q", ErrNotFound, tripID)
	}

	participant := &models.TripParticipant{
		TripID: tripID,
		UserID: userID,
	}

	if err := s.repo.AddParticipant(ctx, participant); err != nil {
		return fmt.Errorf("error adding participant: %w", err)
	}

	return nil
}

func (s *DefaultService) RemoveParticipant(ctx context.Context, tripID, userID string) error {
	trip, err := s.repo.GetTrip(ctx, tripID)
	if err != nil {
		return fmt.Errorf("error getting trip: %w", err)
	}

	if trip == nil {
		return fmt.Errorf("%w: trip %q", ErrNotFound, tripID)
	}

	// Removes every matching association row, not just one
	if err := s.repo.RemoveParticipant(ctx, tripID, userID); err != nil {
		return fmt.Errorf("error removing participant: %w", err)
	}

	return nil
}

func (s *DefaultService) AddTripEvent(ctx context.Context, tripID string, req models.AddTripEventRequest) error {
	trip, err := s.repo.GetTrip(ctx, tripID)
	if err != nil {
		return fmt.Errorf("error getting trip: %w", err)
	}

	if trip == nil {
		return fmt.Errorf("%w: trip %q", ErrNotFound, tripID)
	}

	eventTime, err := time.Parse(dateLayout, req.Time)
	if err != nil {
		return fmt.Errorf("%w: invalid event time %q", ErrValidation, req.Time)
	}

	event := &models.TripEvent{
		TripID:      tripID,
		Description: req.Description,
		Time:        eventTime,
	}

	if err := s.repo.AddTripEvent(ctx, event); err != nil {
		return fmt.Errorf("error adding event: %w", err)
	}

	return nil
}

func (s *DefaultService) RemoveTripEvent(ctx context.Context, eventID string) error {
	if err := s.repo.RemoveTripEvent(ctx, eventID); err != nil {
		return fmt.Errorf("error removing event: %w", err)
	}

	return nil
}

// Expense ledger

// RecordExpense writes one expense group and its shares atomically.
// Amounts must be non-negative; an empty share list is allowed. In
// strict membership mode the payer and every ower must currently be on
// the trip.
func (s *DefaultService) RecordExpense(
	ctx context.Context,
	tripID string,
	req models.CreateExpenseRequest,
) (*models.CreateExpenseResponse, error) {
	trip, err := s.repo.GetTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("error getting trip: %w", err)
	}

	if trip == nil {
		return nil, fmt.Errorf("%w: trip %q", ErrNotFound, tripID)
	}

	for _, share := range req.Shares {
		if share.Amount < 0 {
			return nil, fmt.Errorf("%w: negative amount %d for user %q",
				ErrValidation, share.Amount, share.OwedByUserID)
		}
	}

	if s.strictMembership {
		if err := s.checkMembership(ctx, tripID, req); err != nil {
			return nil, err
		}
	}

	group := &models.ExpenseGroup{
		TripID:      tripID,
		PaidBy:      req.PaidByUserID,
		Description: req.Description,
	}

	shares := make([]models.ExpenseShare, len(req.Shares))
	for i, share := range req.Shares {
		shares[i] = models.ExpenseShare{
			OwedBy: share.OwedByUserID,
			Amount: share.Amount,
		}
	}

	if err := s.repo.CreateExpenseGroup(ctx, group, shares); err != nil {
		return nil, fmt.Errorf("error creating expense: %w", err)
	}

	return &models.CreateExpenseResponse{
		Status:    "success",
		ExpenseID: group.ID,
	}, nil
}

func (s *DefaultService) checkMembership(ctx context.Context, tripID string, req models.CreateExpenseRequest) error {
	isMember, err := s.repo.IsTripParticipant(ctx, tripID, req.PaidByUserID)
	if err != nil {
		return fmt.Errorf("error checking membership: %w", err)
	}
	if !isMember {
		return fmt.Errorf("%w: payer %q is not a trip participant", ErrValidation, req.PaidByUserID)
	}

	for _, share := range req.Shares {
		isMember, err := s.repo.IsTripParticipant(ctx, tripID, share.OwedByUserID)
		if err != nil {
			return fmt.Errorf("error checking membership: %w", err)
		}
		if !isMember {
			return fmt.Errorf("%w: ower %q is not a trip participant", ErrValidation, share.OwedByUserID)
		}
	}

	return nil
}

func (s *DefaultService) GetExpenseDetails(ctx context.Context, expenseGroupID string) (*models.ExpenseDetails, error) {
	group, err := s.repo.GetExpenseGroup(ctx, expenseGroupID)
	if err != nil {
		return nil, fmt.Errorf("error getting expense: %w", err)
	}

	if group == nil {
		return nil, fmt.Errorf("%w: expense %q", ErrNotFound, expenseGroupID)
	}

	return s.convertExpense(ctx, group)
}

func (s *DefaultService) ListTripExpenses(ctx context.Context, tripID string) ([]models.ExpenseDetails, error) {
	groups, err := s.repo.GetExpenseGroupsByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("error listing expenses: %w", err)
	}

	expenses := make([]models.ExpenseDetails, 0, len(groups))
	for i := range groups {
		details, err := s.convertExpense(ctx, &groups[i])
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, *details)
	}

	return expenses, nil
}

func (s *DefaultService) DeleteExpenseGroup(ctx context.Context, expenseGroupID string) error {
	group, err := s.repo.GetExpenseGroup(ctx, expenseGroupID)
	if err != nil {
		return fmt.Errorf("error getting expense: %w", err)
	}

	if group == nil {
		return fmt.Errorf("%w: expense %q", ErrNotFound, expenseGroupID)
	}

	if err := s.repo.DeleteExpenseGroup(ctx, expenseGroupID); err != nil {
		return fmt.Errorf("error deleting expense: %w", err)
	}

	return nil
}

func (s *DefaultService) DeleteExpenseShare(ctx context.Context, shareID string) error {
	if err := s.repo.DeleteExpenseShare(ctx, shareID); err != nil {
		return fmt.Errorf("error deleting share: %w", err)
	}

	return nil
}

// Balance summary

// SummarizeTrip recomputes the payer->ower debt matrix from the current
// ledger contents. It is a pure read: nothing is persisted and a trip
// with no expenses yields an empty matrix.
func (s *DefaultService) SummarizeTrip(ctx context.Context, tripID string) (balance.Matrix, error) {
	expenses, err := s.ListTripExpenses(ctx, tripID)
	if err != nil {
		return nil, err
	}

	return balance.Summarize(expenses), nil
}

// Helper methods

// convertExpense resolves payer and ower display names and derives the
// group total from its shares. The total is never read from storage.
func (s *DefaultService) convertExpense(ctx context.Context, group *models.ExpenseGroup) (*models.ExpenseDetails, error) {
	payer, err := s.repo.GetUserByID(ctx, group.PaidBy)
	if err != nil {
		return nil, fmt.Errorf("error getting payer: %w", err)
	}

	payerName := ""
	if payer != nil {
		payerName = payer.Username
	}

	shares, err := s.repo.GetExpenseShares(ctx, group.ID)
	if err != nil {
		return nil, fmt.Errorf("error getting shares: %w", err)
	}

	shareDetails := make([]models.ShareDetail, 0, len(shares))
	for _, share := range shares {
		ower, err := s.repo.GetUserByID(ctx, share.OwedBy)
		if err != nil {
			return nil, fmt.Errorf("error getting ower: %w", err)
		}

		owerName := ""
		if ower != nil {
			owerName = ower.Username
		}

		shareDetails = append(shareDetails, models.ShareDetail{
			OwedByName: owerName,
			Amount:     share.Amount,
		})
	}

	return &models.ExpenseDetails{
		ExpenseID:   group.ID,
		Description: group.Description,
		PaidByName:  payerName,
		TotalPaid:   balance.TotalPaid(shares),
		Shares:      shareDetails,
	}, nil
}

func (s *DefaultService) convertTrip(ctx context.Context, trip *models.Trip, currentUserID string) (*models.TripResponse, error) {
	participants, err := s.repo.GetTripParticipants(ctx, trip.ID)
	if err != nil {
		return nil, fmt.Errorf("error getting participants: %w", err)
	}

	events, err := s.repo.GetTripEvents(ctx, trip.ID)
	if err != nil {
		return nil, fmt.Errorf("error getting events: %w", err)
	}

	users := make([]models.UserResponse, 0, len(participants))
	isCurrentUserIn := false
	for _, p := range participants {
		users = append(users, models.UserResponse{
			Username: p.Username,
			FullName: p.FullName,
		})
		if p.ID == currentUserID {
			isCurrentUserIn = true
		}
	}

	if events == nil {
		events = []models.TripEvent{}
	}

	return &models.TripResponse{
		ID:                          trip.ID,
		StartDate:                   trip.StartDate.Format(dateLayout),
		EndDate:                     trip.EndDate.Format(dateLayout),
		Origin:                      trip.Origin,
		Destination:                 trip.Destination,
		Participants:                users,
		Events:                      events,
		IsCurrentUserInParticipants: isCurrentUserIn,
	}, nil
}

func (s *DefaultService) convertTrips(ctx context.Context, trips []models.Trip, currentUserID string) (*models.TripsResponse, error) {
	converted := make([]models.TripResponse, 0, len(trips))
	for i := range trips {
		tripResp, err := s.convertTrip(ctx, &trips[i], currentUserID)
		if err != nil {
			return nil, err
		}
		converted = append(converted, *tripResp)
	}

	return &models.TripsResponse{
		Status: "success",
		Trips:  converted,
	}, nil
}
