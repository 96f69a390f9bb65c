//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"rentyard/internal/domain/user"
	"rentyard/internal/handler/api"
	"rentyard/internal/pkg/config"
	"rentyard/internal/pkg/cookie"
	"rentyard/internal/pkg/jwt"
	"rentyard/internal/usecase/commands"
	"rentyard/tests/common/builder"
	"rentyard/tests/common/httptest"
	"rentyard/tests/common/testutil"
	commandsmock "rentyard/tests/mock/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type AuthHandlerTestSuite struct {
	suite.Suite
	router   *gin.Engine
	mockCtrl *gomock.Controller
	mockAuth *commandsmock.MockAuthCommands
	handler  *api.AuthHandler
	userID   uuid.UUID
}

func (s *AuthHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockAuth = commandsmock.NewMockAuthCommands(s.mockCtrl)
	s.handler = api.NewAuthHandler(s.mockAuth, jwt.NewService("test-secret", time.Hour), config.CookieConfig{SameSite: "Lax"})
	s.userID = uuid.New()

	// Mock authentication middleware for testing
	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Unauthorized"}})
			return
		}
		c.Set("user_id", s.userID)
		c.Set("user_role", user.RoleCustomer)
		c.Next()
	}

	s.router.POST("/auth/register", s.handler.Register)
	s.router.POST("/auth/login", s.handler.Login)
	s.router.POST("/auth/verify", s.handler.VerifyOTP)
	s.router.POST("/auth/logout", authMiddleware, s.handler.Logout)
	s.router.POST("/auth/forgot-password", s.handler.ForgotPassword)
	s.router.POST("/auth/reset-password", s.handler.ResetPassword)
	s.router.GET("/auth/me", authMiddleware, s.handler.Me)
}

func (s *AuthHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestAuthHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}

type testCaseAuth struct {
	name       string
	mutate     func(m map[string]any)
	expectCode int
}

// ================================================================================
// TestRegister
// ================================================================================

func (s *AuthHandlerTestSuite) TestRegister() {
	url := "/auth/register"

	ub := builder.NewUserBuilder()
	reqBody := ub.BuildRegisterRequestDTO()

	validationCases := []testCaseAuth{
		{name: "missing field: email (required)", mutate: testutil.Field("email", nil), expectCode: http.StatusBadRequest},
		{name: "invalid email format", mutate: testutil.Field("email", "not-an-email"), expectCode: http.StatusBadRequest},
		{name: "missing field: name (required)", mutate: testutil.Field("name", nil), expectCode: http.StatusBadRequest},
		{name: "missing field: password (required)", mutate: testutil.Field("password", nil), expectCode: http.StatusBadRequest},
		{name: "password below minimum length", mutate: testutil.Field("password", "short"), expectCode: http.StatusBadRequest},
	}

	s.Run("success: returns 201 Created with the new user id", func() {
		s.mockAuth.EXPECT().Register(gomock.Any(), ub.Email, ub.Name, ub.Password).
			Return(s.userID, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var body map[string]string
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal(s.userID.String(), body["id"])
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		for _, tc := range validationCases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectCode, "")
			})
		}
	})

	s.Run("error: 409 Conflict when email is taken", func() {
		s.mockAuth.EXPECT().Register(gomock.Any(), ub.Email, ub.Name, ub.Password).
			Return(uuid.Nil, commands.ErrEmailTaken).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "already registered")
	})

	s.Run("error: 500 on unexpected failure", func() {
		s.mockAuth.EXPECT().Register(gomock.Any(), ub.Email, ub.Name, ub.Password).
			Return(uuid.Nil, errors.New("database error")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal server error")
	})
}

// ================================================================================
// TestLogin
// ================================================================================

func (s *AuthHandlerTestSuite) TestLogin() {
	url := "/auth/login"

	ub := builder.NewUserBuilder()
	reqBody := ub.BuildLoginRequestDTO()

	s.Run("success: returns 202 Accepted once the code is mailed", func() {
		s.mockAuth.EXPECT().StartLogin(gomock.Any(), ub.Email, ub.Password).
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var body map[string]string
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusAccepted, &body)
		s.Contains(body["message"], "one-time login code")
	})

	s.Run("error: 400 Bad Request when email is missing", func() {
		requestMap := testutil.DtoMap(s.T(), reqBody, testutil.Field("email", nil))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "bad credentials",
				commandsError:  commands.ErrInvalidCredentials,
				expectedStatus: http.StatusUnauthorized,
				expectedMsg:    "Invalid email or password",
			},
			{
				name:           "inactive account",
				commandsError:  commands.ErrAccountInactive,
				expectedStatus: http.StatusForbidden,
				expectedMsg:    "inactive",
			},
			{
				name:           "internal server error",
				commandsError:  errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal server error",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockAuth.EXPECT().StartLogin(gomock.Any(), ub.Email, ub.Password).
					Return(tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

// ================================================================================
// TestVerifyOTP
// ================================================================================

func (s *AuthHandlerTestSuite) TestVerifyOTP() {
	url := "/auth/verify"

	ub := builder.NewUserBuilder()
	reqBody := map[string]any{"email": ub.Email, "code": "123456"}

	s.Run("success: returns 200 OK with token, user, and session cookie", func() {
		account, err := ub.BuildDomain()
		s.Require().NoError(err)

		s.mockAuth.EXPECT().CompleteLogin(gomock.Any(), ub.Email, "123456").
			Return("signed-token", account, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var body struct {
			AccessToken string `json:"access_token"`
			User        struct {
				Email string `json:"email"`
				Role  string `json:"role"`
			} `json:"user"`
		}
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("signed-token", body.AccessToken)
		s.Equal(ub.Email, body.User.Email)
		s.Equal("customer", body.User.Role)

		sessionCookie := httptest.ExtractCookie(rec, cookie.AccessTokenCookieName)
		s.Require().NotNil(sessionCookie)
		s.Equal("signed-token", sessionCookie.Value)
		s.True(sessionCookie.HttpOnly)
	})

	s.Run("error: 400 Bad Request when code is not six digits", func() {
		requestMap := testutil.DtoMap(s.T(), reqBody, testutil.Field("code", "123"))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
	})

	s.Run("error: 401 Unauthorized for an invalid code", func() {
		s.mockAuth.EXPECT().CompleteLogin(gomock.Any(), ub.Email, "123456").
			Return("", nil, commands.ErrInvalidOTP).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "invalid or expired")
	})

	s.Run("error: 403 Forbidden for an inactive account", func() {
		s.mockAuth.EXPECT().CompleteLogin(gomock.Any(), ub.Email, "123456").
			Return("", nil, commands.ErrAccountInactive).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "inactive")
	})
}

// ================================================================================
// TestLogout
// ================================================================================

func (s *AuthHandlerTestSuite) TestLogout() {
	url := "/auth/logout"

	s.Run("success: returns 204 and clears the session cookie", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")

		s.Equal(http.StatusNoContent, rec.Code)
		sessionCookie := httptest.ExtractCookie(rec, cookie.AccessTokenCookieName)
		s.Require().NotNil(sessionCookie)
		s.Empty(sessionCookie.Value)
		s.Negative(sessionCookie.MaxAge)
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})
}

// ================================================================================
// TestForgotPassword
// ================================================================================

func (s *AuthHandlerTestSuite) TestForgotPassword() {
	url := "/auth/forgot-password"

	reqBody := map[string]any{"email": "test@example.com"}

	s.Run("success: returns 202 Accepted without revealing account existence", func() {
		s.mockAuth.EXPECT().RequestPasswordReset(gomock.Any(), "test@example.com").
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var body map[string]string
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusAccepted, &body)
		s.Contains(body["message"], "If the address is registered")
	})

	s.Run("error: 400 Bad Request for malformed email", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"email": "nope"}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
	})
}

// ================================================================================
// TestResetPassword
// ================================================================================

func (s *AuthHandlerTestSuite) TestResetPassword() {
	url := "/auth/reset-password"

	reqBody := map[string]any{"token": "reset-token", "new_password": "NewPassword456!"}

	s.Run("success: returns 204 No Content", func() {
		s.mockAuth.EXPECT().ResetPassword(gomock.Any(), "reset-token", "NewPassword456!").
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 400 Bad Request when new password is too short", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
			map[string]any{"token": "reset-token", "new_password": "short"}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
	})

	s.Run("error: 401 Unauthorized for an invalid token", func() {
		s.mockAuth.EXPECT().ResetPassword(gomock.Any(), "reset-token", "NewPassword456!").
			Return(commands.ErrInvalidResetToken).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "invalid or expired")
	})
}

// ================================================================================
// TestMe
// ================================================================================

func (s *AuthHandlerTestSuite) TestMe() {
	url := "/auth/me"

	s.Run("success: returns 200 OK with the current user", func() {
		account, err := builder.NewUserBuilder().WithID(s.userID).BuildDomain()
		s.Require().NoError(err)

		s.mockAuth.EXPECT().CurrentUser(gomock.Any(), s.userID).
			Return(account, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var body map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(s.userID.String(), body["id"])
	})

	s.Run("error: 404 Not Found when the account is gone", func() {
		s.mockAuth.EXPECT().CurrentUser(gomock.Any(), s.userID).
			Return(nil, commands.ErrUserNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "User not found")
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})
}
