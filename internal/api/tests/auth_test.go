package api_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hluo1267/tripmate-server/internal/api/testutils"
	"github.com/hluo1267/tripmate-server/internal/models"
)

func TestSignup(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)

	// Test case 1: Successful signup
	signupReq := models.SignUpRequest{
		Username: "newuser",
		Password: "Password123",
		FullName: "New User",
	}

	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/auth/signup",
		signupReq,
		nil,
	)

	assert.Equal(t, http.StatusCreated, w.Code)

	// Test case 2: Duplicate username
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/auth/signup",
		signupReq,
		nil,
	)

	assert.Equal(t, http.StatusConflict, w.Code)

	// Test case 3: Invalid request (missing required fields)
	invalidReq := models.SignUpRequest{
		Username: "invaliduser",
		// Missing password and full name
	}

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/auth/signup",
		invalidReq,
		nil,
	)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)

	// Test case 1: Successful login returns a token
	loginReq := models.LoginRequest{
		Username: "testuser",
		Password: "testpassword",
	}

	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/auth/login",
		loginReq,
		nil,
	)

	assert.Equal(t, http.StatusOK, w.Code)

	var response models.AuthResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.NotEmpty(t, response.Token)

	// Test case 2: Invalid credentials
	invalidLoginReq := models.LoginRequest{
		Username: "testuser",
		Password: "wrongpassword",
	}

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/auth/login",
		invalidLoginReq,
		nil,
	)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Test case 3: User not found
	nonExistentUserReq := models.LoginRequest{
		Username: "nonexistent",
		Password: "testpassword",
	}

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/auth/login",
		nonExistentUserReq,
		nil,
	)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// A user may hold several valid tokens at once: logging in twice must
// not invalidate the first token.
func TestMultipleTokensStayValid(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)

	loginReq := models.LoginRequest{
		Username: "testuser",
		Password: "testpassword",
	}

	w := testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/auth/login", loginReq, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var second models.AuthResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
	assert.NotEqual(t, testCtx.TestUserToken, second.Token)

	for _, token := range []string{testCtx.TestUserToken, second.Token} {
		w = testutils.PerformRequest(
			testCtx.Router,
			http.MethodGet,
			"/api/users/me",
			nil,
			testutils.AuthHeaders(token),
		)
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestGetCurrentUser(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)

	// Test case 1: Valid token
	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/users/me",
		nil,
		testutils.AuthHeaders(testCtx.TestUserToken),
	)

	assert.Equal(t, http.StatusOK, w.Code)

	var response models.UserResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "testuser", response.Username)
	assert.Equal(t, "Test User", response.FullName)

	// Test case 2: Unknown token
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/users/me",
		nil,
		testutils.AuthHeaders("not-a-real-token"),
	)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Test case 3: Missing header
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/users/me",
		nil,
		nil,
	)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetUserByUsername(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)

	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/users/testuser",
		nil,
		testutils.AuthHeaders(testCtx.TestUserToken),
	)

	assert.Equal(t, http.StatusOK, w.Code)

	var response models.UserResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "Test User", response.FullName)

	// Unknown username
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/users/ghost",
		nil,
		testutils.AuthHeaders(testCtx.TestUserToken),
	)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
