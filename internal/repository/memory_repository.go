package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hluo1267/tripmate-server/internal/models"
)

// MemoryRepository is an in-memory Repository used for tests and for
// running the server without a database (--memory). A single mutex
// guards all state, so multi-row writes such as CreateExpenseGroup are
// atomic with respect to concurrent readers, matching the transactional
// guarantees of the Postgres implementation.
type MemoryRepository struct {
	mu sync.RWMutex

	users         map[string]models.User  // by id
	usernames     map[string]string       // username -> id
	tokens        map[string]models.Token // by token
	trips         map[string]models.Trip  // by id
	participants  []models.TripParticipant
	events        map[string]models.TripEvent    // by id
	expenseGroups map[string]models.ExpenseGroup // by id
	expenseShares map[string]models.ExpenseShare // by id
}

// NewMemoryRepository creates an empty in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users:         make(map[string]models.User),
		usernames:     make(map[string]string),
		tokens:        make(map[string]models.Token),
		trips:         make(map[string]models.Trip),
		events:        make(map[string]models.TripEvent),
		expenseGroups: make(map[string]models.ExpenseGroup),
		expenseShares: make(map[string]models.ExpenseShare),
	}
}

// User repository methods
func (r *MemoryRepository) CreateUser(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	r.users[user.ID] = *user
	r.usernames[user.Username] = user.ID
	return nil
}

func (r *MemoryRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.usernames[username]
	if !ok {
		return nil, nil
	}
	user := r.users[id]
	return &user, nil
}

func (r *MemoryRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

// Token repository methods
func (r *MemoryRepository) CreateToken(ctx context.Context, token *models.Token) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now().UTC()
	}
	r.tokens[token.Token] = *token
	return nil
}

func (r *MemoryRepository) GetUserByToken(ctx context.Context, token string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tok, ok := r.tokens[token]
	if !ok {
		return nil, nil
	}
	user, ok := r.users[tok.UserID]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

// Trip repository methods
func (r *MemoryRepository) CreateTrip(ctx context.Context, trip *models.Trip) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if trip.ID == "" {
		trip.ID = uuid.New().String()
	}
	if trip.CreatedAt.IsZero() {
		trip.CreatedAt = time.Now().UTC()
	}

	r.trips[trip.ID] = *trip
	r.participants = append(r.participants, models.TripParticipant{
		ID:     uuid.New().String(),
		TripID: trip.ID,
		UserID: trip.OwnerID,
	})
	return nil
}

func (r *MemoryRepository) GetTrip(ctx context.Context, tripID string) (*models.Trip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	trip, ok := r.trips[tripID]
	if !ok {
		return nil, nil
	}
	return &trip, nil
}

func (r *MemoryRepository) GetAllTrips(ctx context.Context) ([]models.Trip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	trips := make([]models.Trip, 0, len(r.trips))
	for _, trip := range r.trips {
		trips = append(trips, trip)
	}
	return trips, nil
}

func (r *MemoryRepository) GetTripsByOwner(ctx context.Context, userID string) ([]models.Trip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var trips []models.Trip
	for _, trip := range r.trips {
		if trip.OwnerID == userID {
			trips = append(trips, trip)
		}
	}
	return trips, nil
}

func (r *MemoryRepository) DeleteTrip(ctx context.Context, tripID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.trips, tripID)

	kept := r.participants[:0]
	for _, p := range r.participants {
		if p.TripID != tripID {
			kept = append(kept, p)
		}
	}
	r.participants = kept

	for id, event := range r.events {
		if event.TripID == tripID {
			delete(r.events, id)
		}
	}
	// Expense history survives trip deletion
	return nil
}

// Participant repository methods
func (r *MemoryRepository) AddParticipant(ctx context.Context, participant *models.TripParticipant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if participant.ID == "" {
		participant.ID = uuid.New().String()
	}
	r.participants = append(r.participants, *participant)
	return nil
}

func (r *MemoryRepository) RemoveParticipant(ctx context.Context, tripID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.participants[:0]
	for _, p := range r.participants {
		if p.TripID != tripID || p.UserID != userID {
			kept = append(kept, p)
		}
	}
	r.participants = kept
	return nil
}

func (r *MemoryRepository) GetTripParticipants(ctx context.Context, tripID string) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var users []models.User
	for _, p := range r.participants {
		if p.TripID == tripID {
			if user, ok := r.users[p.UserID]; ok {
				users = append(users, user)
			}
		}
	}
	return users, nil
}

func (r *MemoryRepository) IsTripParticipant(ctx context.Context, tripID, userID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.participants {
		if p.TripID == tripID && p.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

// Event repository methods
func (r *MemoryRepository) AddTripEvent(ctx context.Context, event *models.TripEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	r.events[event.ID] = *event
	return nil
}

func (r *MemoryRepository) RemoveTripEvent(ctx context.Context, eventID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.events, eventID)
	return nil
}

func (r *MemoryRepository) GetTripEvents(ctx context.Context, tripID string) ([]models.TripEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var events []models.TripEvent
	for _, event := range r.events {
		if event.TripID == tripID {
			events = append(events, event)
		}
	}
	// Ordered by event time ascending, as the Postgres query does
	sort.Slice(events, func(i, j int) bool {
		return events[i].Time.Before(events[j].Time)
	})
	return events, nil
}

// Expense repository methods
func (r *MemoryRepository) CreateExpenseGroup(
	ctx context.Context,
	group *models.ExpenseGroup,
	shares []models.ExpenseShare,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt.IsZero() {
		group.CreatedAt = time.Now().UTC()
	}

	r.expenseGroups[group.ID] = *group
	for i := range shares {
		if shares[i].ID == "" {
			shares[i].ID = uuid.New().String()
		}
		shares[i].ExpenseGroupID = group.ID
		r.expenseShares[shares[i].ID] = shares[i]
	}
	return nil
}

func (r *MemoryRepository) GetExpenseGroup(ctx context.Context, groupID string) (*models.ExpenseGroup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	group, ok := r.expenseGroups[groupID]
	if !ok {
		return nil, nil
	}
	return &group, nil
}

func (r *MemoryRepository) GetExpenseGroupsByTrip(ctx context.Context, tripID string) ([]models.ExpenseGroup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var groups []models.ExpenseGroup
	for _, group := range r.expenseGroups {
		if group.TripID == tripID {
			groups = append(groups, group)
		}
	}
	return groups, nil
}

func (r *MemoryRepository) GetExpenseShares(ctx context.Context, groupID string) ([]models.ExpenseShare, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var shares []models.ExpenseShare
	for _, share := range r.expenseShares {
		if share.ExpenseGroupID == groupID {
			shares = append(shares, share)
		}
	}
	return shares, nil
}

func (r *MemoryRepository) DeleteExpenseGroup(ctx context.Context, groupID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.expenseGroups, groupID)
	for id, share := range r.expenseShares {
		if share.ExpenseGroupID == groupID {
			delete(r.expenseShares, id)
		}
	}
	return nil
}

func (r *MemoryRepository) DeleteExpenseShare(ctx context.Context, shareID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.expenseShares, shareID)
	return nil
}
