package api_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hluo1267/tripmate-server/internal/api/testutils"
	"github.com/hluo1267/tripmate-server/internal/models"
)

func createTestTrip(t *testing.T, testCtx *testutils.TestContext) string {
	createReq := models.CreateTripRequest{
		StartDate:   "2025-06-01",
		EndDate:     "2025-06-10",
		Origin:      "Melbourne",
		Destination: "Sydney",
	}

	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/trips",
		createReq,
		testutils.AuthHeaders(testCtx.TestUserToken),
	)
	require.Equal(t, http.StatusCreated, w.Code)

	var response models.CreateTripResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotEmpty(t, response.TripID)
	return response.TripID
}

func TestCreateTrip(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)

	tripID := createTestTrip(t, testCtx)

	// The creator is added as a participant automatically
	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/trips/"+tripID,
		nil,
		testutils.AuthHeaders(testCtx.TestUserToken),
	)

	assert.Equal(t, http.StatusOK, w.Code)

	var trip models.TripResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &trip))
	assert.Equal(t, "Melbourne", trip.Origin)
	assert.Equal(t, "Sydney", trip.Destination)
	assert.Len(t, trip.Participants, 1)
	assert.Equal(t, "testuser", trip.Participants[0].Username)
	assert.True(t, trip.IsCurrentUserInParticipants)

	// Malformed date
	badReq := models.CreateTripRequest{
		StartDate:   "June 1st",
		EndDate:     "2025-06-10",
		Origin:      "Melbourne",
		Destination: "Sydney",
	}

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/trips",
		badReq,
		testutils.AuthHeaders(testCtx.TestUserToken),
	)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unauthorized request (no token)
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/trips",
		models.CreateTripRequest{},
		nil,
	)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetTripNotFound(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)

	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/trips/non-existent-id",
		nil,
		testutils.AuthHeaders(testCtx.TestUserToken),
	)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListTrips(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)

	createTestTrip(t, testCtx)
	createTestTrip(t, testCtx)

	// A second user owns no trips but sees all of them
	_, otherToken := testutils.CreateTestUser(t, testCtx.Service, "otheruser", "Other User")

	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/trips/my",
		nil,
		testutils.AuthHeaders(otherToken),
	)

	assert.Equal(t, http.StatusOK, w.Code)

	var mine models.TripsResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &mine))
	assert.Empty(t, mine.Trips)

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/trips",
		nil,
		testutils.AuthHeaders(otherToken),
	)

	assert.Equal(t, http.StatusOK, w.Code)

	var all models.TripsResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	assert.Len(t, all.Trips, 2)

	// The owner sees both under /my
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/trips/my",
		nil,
		testutils.AuthHeaders(testCtx.TestUserToken),
	)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &mine))
	assert.Len(t, mine.Trips, 2)
}

func TestDeleteTrip(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)

	tripID := createTestTrip(t, testCtx)

	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodDelete,
		"/api/trips/"+tripID,
		nil,
		testutils.AuthHeaders(testCtx.TestUserToken),
	)

	assert.Equal(t, http.StatusOK, w.Code)

	// The trip is gone
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/trips/"+tripID,
		nil,
		testutils.AuthHeaders(testCtx.TestUserToken),
	)

	assert.Equal(t, http.StatusNotFound, w.Code)

	// Deleting again is a 404
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodDelete,
		"/api/trips/"+tripID,
		nil,
		testutils.AuthHeaders(testCtx.TestUserToken),
	)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestParticipants(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)

	tripID := createTestTrip(t, testCtx)
	_, otherToken := testutils.CreateTestUser(t, testCtx.Service, "joiner", "Joining User")

	// Join twice: duplicate association rows are allowed
	for i := 0; i < 2; i++ {
		w := testutils.PerformRequest(
			testCtx.Router,
			http.MethodPost,
			fmt.Sprintf("/api/trips/%s/participants", tripID),
			nil,
			testutils.AuthHeaders(otherToken),
		)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/trips/"+tripID,
		nil,
		testutils.AuthHeaders(otherToken),
	)

	assert.Equal(t, http.StatusOK, w.Code)

	var trip models.TripResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &trip))
	assert.Len(t, trip.Participants, 3) // owner + joiner twice
	assert.True(t, trip.IsCurrentUserInParticipants)

	// Leaving removes every association row for the user
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodDelete,
		fmt.Sprintf("/api/trips/%s/participants", tripID),
		nil,
		testutils.AuthHeaders(otherToken),
	)

	assert.Equal(t, http.StatusOK, w.Code)

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/trips/"+tripID,
		nil,
		testutils.AuthHeaders(otherToken),
	)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &trip))
	assert.Len(t, trip.Participants, 1)
	assert.False(t, trip.IsCurrentUserInParticipants)

	// Joining a non-existent trip is a 404
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/trips/non-existent-id/participants",
		nil,
		testutils.AuthHeaders(otherToken),
	)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTripEvents(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)

	tripID := createTestTrip(t, testCtx)

	// Add events out of order; reads come back sorted by time ascending
	for _, event := range []models.AddTripEventRequest{
		{Description: "Harbour cruise", Time: "2025-06-05"},
		{Description: "Check in", Time: "2025-06-01"},
		{Description: "Opera house", Time: "2025-06-03"},
	} {
		w := testutils.PerformRequest(
			testCtx.Router,
			http.MethodPost,
			fmt.Sprintf("/api/trips/%s/events", tripID),
			event,
			testutils.AuthHeaders(testCtx.TestUserToken),
		)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/trips/"+tripID,
		nil,
		testutils.AuthHeaders(testCtx.TestUserToken),
	)

	assert.Equal(t, http.StatusOK, w.Code)

	var trip models.TripResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &trip))
	require.Len(t, trip.Events, 3)
	assert.Equal(t, "Check in", trip.Events[0].Description)
	assert.Equal(t, "Opera house", trip.Events[1].Description)
	assert.Equal(t, "Harbour cruise", trip.Events[2].Description)

	// Remove one event
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodDelete,
		fmt.Sprintf("/api/trips/%s/events/%s", tripID, trip.Events[1].ID),
		nil,
		testutils.AuthHeaders(testCtx.TestUserToken),
	)

	assert.Equal(t, http.StatusOK, w.Code)

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/trips/"+tripID,
		nil,
		testutils.AuthHeaders(testCtx.TestUserToken),
	)

	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &trip))
	assert.Len(t, trip.Events, 2)
}
