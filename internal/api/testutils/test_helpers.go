package testutils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/hluo1267/tripmate-server/internal/api"
	"github.com/hluo1267/tripmate-server/internal/auth"
	"github.com/hluo1267/tripmate-server/internal/models"
	"github.com/hluo1267/tripmate-server/internal/repository"
	"github.com/hluo1267/tripmate-server/internal/service"
)

// TestContext holds all dependencies for tests
type TestContext struct {
	Router        *gin.Engine
	Repository    *repository.MemoryRepository
	Service       service.Service
	TestUserID    string
	TestUserToken string
}

// Option tweaks the test service configuration
type Option func(*options)

type options struct {
	strictMembership bool
}

// WithStrictMembership enables the strict expense membership check
func WithStrictMembership() Option {
	return func(o *options) {
		o.strictMembership = true
	}
}

// SetupTestContext creates a router, service and in-memory store wired
// together, plus one registered and logged-in test user.
func SetupTestContext(t *testing.T, opts ...Option) *TestContext {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	repo := repository.NewMemoryRepository()

	// MinCost keeps the hashing negligible in tests
	verifier := &auth.BcryptVerifier{Cost: bcrypt.MinCost}
	svc := service.NewDefaultService(repo, verifier, o.strictMembership)

	handler := api.NewHandler(svc)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler.SetupRoutes(router)

	userID, token := CreateTestUser(t, svc, "testuser", "Test User")

	return &TestContext{
		Router:        router,
		Repository:    repo,
		Service:       svc,
		TestUserID:    userID,
		TestUserToken: token,
	}
}

// CreateTestUser signs up and logs in a user through the service,
// returning its id and a valid bearer token.
func CreateTestUser(t *testing.T, svc service.Service, username, fullName string) (string, string) {
	ctx := context.Background()

	signUpResp, err := svc.SignUp(ctx, models.SignUpRequest{
		Username: username,
		Password: "testpassword",
		FullName: fullName,
	})
	require.NoError(t, err, "Failed to create test user")

	loginResp, err := svc.Login(ctx, models.LoginRequest{
		Username: username,
		Password: "testpassword",
	})
	require.NoError(t, err, "Failed to log in test user")

	return signUpResp.UserID, loginResp.Token
}

// PerformRequest executes an HTTP request against the router
func PerformRequest(r http.Handler, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer

	if body != nil {
		jsonBody, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBody)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// AuthHeaders returns headers with Authorization token
func AuthHeaders(token string) map[string]string {
	return map[string]string{
		"Authorization": fmt.Sprintf("Bearer %s", token),
	}
}
