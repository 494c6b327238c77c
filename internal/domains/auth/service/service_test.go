package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"stayinn/config"
	"stayinn/infras/jwt"
	jwtMocks "stayinn/infras/jwt/mocks"
	kafkaMocks "stayinn/infras/kafka/mocks"
	"stayinn/infras/otel/mocks"
	"stayinn/internal/domains/auth/model/dto"
	"stayinn/internal/domains/auth/service"
	tokenService "stayinn/internal/domains/token/service"
	tokenMocks "stayinn/internal/domains/token/service/mocks"
	userMocks "stayinn/internal/domains/user/mocks"
	userModel "stayinn/internal/domains/user/model"
	"stayinn/shared/constant"
	gModel "stayinn/shared/model"
	"stayinn/shared/timezone"
)

func newAuthService(t *testing.T) (service.Auth, *userMocks.MockUser, *tokenMocks.MockToken, *jwtMocks.MockJWT) {
	t.Helper()

	ctrl := gomock.NewController(t)

	mockUserRepo := userMocks.NewMockUser(ctrl)
	mockTokens := tokenMocks.NewMockToken(ctrl)
	mockJWT := jwtMocks.NewMockJWT(ctrl)
	mockKafka := kafkaMocks.NewMockClient(ctrl)

	// Auth events publish on a detached goroutine.
	mockKafka.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(mockUserRepo, mockTokens, mockKafka, &config.Config{}, mocks.NewOtel(), mockJWT)

	return svc, mockUserRepo, mockTokens, mockJWT
}

// "password" hashed with bcrypt cost 10.
const passwordHash = "$2a$10$92IXUNpkjO0rOQ5byMi.Ye4oKoEa3Ro9llC/.og/at2.uheWG/igi"

func validUser() userModel.User {
	hash := passwordHash

	return userModel.User{
		ID:         "user-id-123",
		Email:      "test@example.com",
		Password:   &hash,
		Level:      constant.RoleUser,
		FullName:   stringPtr("Test User"),
		IsVerified: true,
		Active:     true,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  "system",
			ModifiedBy: "system",
		},
	}
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.RegisterRequest
		setupMock func(users *userMocks.MockUser, tokens *tokenMocks.MockToken)
		wantErr   bool
	}{
		{
			name: "successful registration issues a verification token",
			req: dto.RegisterRequest{
				Email:    "new@example.com",
				Password: "password123",
			},
			setupMock: func(users *userMocks.MockUser, tokens *tokenMocks.MockToken) {
				users.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)

				users.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)

				tokens.EXPECT().
					Issue(gomock.Any(), gomock.Any(), constant.TokenKindEmailVerification).
					Return(tokenService.IssuedToken{Value: "verify-token", ExpiresAt: time.Now().Add(time.Hour)}, nil)
			},
			wantErr: false,
		},
		{
			name: "duplicate email",
			req: dto.RegisterRequest{
				Email:    "taken@example.com",
				Password: "password123",
			},
			setupMock: func(users *userMocks.MockUser, tokens *tokenMocks.MockToken) {
				users.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
			},
			wantErr: true,
		},
		{
			name: "insert error",
			req: dto.RegisterRequest{
				Email:    "new@example.com",
				Password: "password123",
			},
			setupMock: func(users *userMocks.MockUser, tokens *tokenMocks.MockToken) {
				users.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)

				users.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(errors.New("insert error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, users, tokens, _ := newAuthService(t)
			tt.setupMock(users, tokens)

			err := svc.Register(context.Background(), tt.req)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAuthService_VerifyEmail(t *testing.T) {
	unverified := validUser()
	unverified.IsVerified = false

	tests := []struct {
		name      string
		req       dto.VerifyEmailRequest
		setupMock func(users *userMocks.MockUser, tokens *tokenMocks.MockToken)
		wantErr   bool
	}{
		{
			name: "successful verification",
			req: dto.VerifyEmailRequest{
				Email: "test@example.com",
				Token: "verify-token",
			},
			setupMock: func(users *userMocks.MockUser, tokens *tokenMocks.MockToken) {
				users.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(unverified, nil)

				tokens.EXPECT().
					Consume(gomock.Any(), unverified.ID, constant.TokenKindEmailVerification, "verify-token").
					Return(nil)

				users.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "already verified",
			req: dto.VerifyEmailRequest{
				Email: "test@example.com",
				Token: "verify-token",
			},
			setupMock: func(users *userMocks.MockUser, tokens *tokenMocks.MockToken) {
				users.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(validUser(), nil)
			},
			wantErr: true,
		},
		{
			name: "rejected token",
			req: dto.VerifyEmailRequest{
				Email: "test@example.com",
				Token: "stale-token",
			},
			setupMock: func(users *userMocks.MockUser, tokens *tokenMocks.MockToken) {
				users.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(unverified, nil)

				tokens.EXPECT().
					Consume(gomock.Any(), unverified.ID, constant.TokenKindEmailVerification, "stale-token").
					Return(errors.New("invalid token"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, users, tokens, _ := newAuthService(t)
			tt.setupMock(users, tokens)

			err := svc.VerifyEmail(context.Background(), tt.req)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.LoginRequest
		setupMock func(users *userMocks.MockUser, jwtMock *jwtMocks.MockJWT)
		wantErr   bool
	}{
		{
			name: "successful login",
			req: dto.LoginRequest{
				Email:    "test@example.com",
				Password: "password",
			},
			setupMock: func(users *userMocks.MockUser, jwtMock *jwtMocks.MockJWT) {
				user := validUser()

				users.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(user, nil)

				jwtMock.EXPECT().
					GenerateTokenPair(user.ID, user.Email, user.Level).
					Return(&jwt.TokenPair{
						AccessToken:  "access-token",
						RefreshToken: "refresh-token",
					}, nil)

				users.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "user not found",
			req: dto.LoginRequest{
				Email:    "nonexistent@example.com",
				Password: "password",
			},
			setupMock: func(users *userMocks.MockUser, jwtMock *jwtMocks.MockJWT) {
				users.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(userModel.User{}, errors.New("user not found"))
			},
			wantErr: true,
		},
		{
			name: "wrong password",
			req: dto.LoginRequest{
				Email:    "test@example.com",
				Password: "wrongpassword",
			},
			setupMock: func(users *userMocks.MockUser, jwtMock *jwtMocks.MockJWT) {
				users.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(validUser(), nil)
			},
			wantErr: true,
		},
		{
			name: "passwordless account",
			req: dto.LoginRequest{
				Email:    "test@example.com",
				Password: "password",
			},
			setupMock: func(users *userMocks.MockUser, jwtMock *jwtMocks.MockJWT) {
				oauthUser := validUser()
				oauthUser.Password = nil

				users.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(oauthUser, nil)
			},
			wantErr: true,
		},
		{
			name: "inactive user",
			req: dto.LoginRequest{
				Email:    "test@example.com",
				Password: "password",
			},
			setupMock: func(users *userMocks.MockUser, jwtMock *jwtMocks.MockJWT) {
				inactiveUser := validUser()
				inactiveUser.Active = false

				users.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(inactiveUser, nil)
			},
			wantErr: true,
		},
		{
			name: "token generation error",
			req: dto.LoginRequest{
				Email:    "test@example.com",
				Password: "password",
			},
			setupMock: func(users *userMocks.MockUser, jwtMock *jwtMocks.MockJWT) {
				user := validUser()

				users.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(user, nil)

				jwtMock.EXPECT().
					GenerateTokenPair(user.ID, user.Email, user.Level).
					Return(nil, errors.New("token generation failed"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, users, _, jwtMock := newAuthService(t)
			tt.setupMock(users, jwtMock)

			result, err := svc.Login(context.Background(), tt.req)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, result.AccessToken)
				assert.NotEmpty(t, result.RefreshToken)
			}
		})
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.RefreshTokenRequest
		setupMock func(jwtMock *jwtMocks.MockJWT)
		wantErr   bool
	}{
		{
			name: "successful token refresh",
			req: dto.RefreshTokenRequest{
				RefreshToken: "valid-refresh-token",
			},
			setupMock: func(jwtMock *jwtMocks.MockJWT) {
				jwtMock.EXPECT().
					RefreshTokens("valid-refresh-token").
					Return(&jwt.TokenPair{
						AccessToken:  "new-access-token",
						RefreshToken: "new-refresh-token",
					}, nil)
			},
			wantErr: false,
		},
		{
			name: "invalid refresh token",
			req: dto.RefreshTokenRequest{
				RefreshToken: "invalid-refresh-token",
			},
			setupMock: func(jwtMock *jwtMocks.MockJWT) {
				jwtMock.EXPECT().
					RefreshTokens("invalid-refresh-token").
					Return(nil, errors.New("invalid token"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _, jwtMock := newAuthService(t)
			tt.setupMock(jwtMock)

			result, err := svc.RefreshToken(context.Background(), tt.req)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, result.AccessToken)
				assert.NotEmpty(t, result.RefreshToken)
			}
		})
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.ChangePasswordRequest
		userID    string
		setupMock func(users *userMocks.MockUser)
		wantErr   bool
	}{
		{
			name: "successful password change",
			req: dto.ChangePasswordRequest{
				CurrentPassword: "password",
				NewPassword:     "newpassword123",
			},
			userID: "user-id-123",
			setupMock: func(users *userMocks.MockUser) {
				users.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(validUser(), nil)

				users.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "user not found",
			req: dto.ChangePasswordRequest{
				CurrentPassword: "password",
				NewPassword:     "newpassword123",
			},
			userID: "nonexistent-id",
			setupMock: func(users *userMocks.MockUser) {
				users.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(userModel.User{}, nil)
			},
			wantErr: true,
		},
		{
			name: "wrong current password",
			req: dto.ChangePasswordRequest{
				CurrentPassword: "wrongpassword",
				NewPassword:     "newpassword123",
			},
			userID: "user-id-123",
			setupMock: func(users *userMocks.MockUser) {
				users.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(validUser(), nil)
			},
			wantErr: true,
		},
		{
			name: "update password error",
			req: dto.ChangePasswordRequest{
				CurrentPassword: "password",
				NewPassword:     "newpassword123",
			},
			userID: "user-id-123",
			setupMock: func(users *userMocks.MockUser) {
				users.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(validUser(), nil)

				users.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("update error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, users, _, _ := newAuthService(t)
			tt.setupMock(users)

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user")
			err := svc.ChangePassword(ctx, tt.req, tt.userID)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAuthService_ForgotPassword(t *testing.T) {
	t.Run("unknown email still succeeds", func(t *testing.T) {
		svc, users, _, _ := newAuthService(t)

		users.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(userModel.User{}, nil)

		err := svc.ForgotPassword(context.Background(), dto.ForgotPasswordRequest{Email: "unknown@example.com"})

		assert.NoError(t, err)
	})

	t.Run("known email issues a reset token", func(t *testing.T) {
		svc, users, tokens, _ := newAuthService(t)

		user := validUser()

		users.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(user, nil)

		tokens.EXPECT().
			Issue(gomock.Any(), user.ID, constant.TokenKindPasswordReset).
			Return(tokenService.IssuedToken{Value: "reset-token", ExpiresAt: time.Now().Add(time.Hour)}, nil)

		err := svc.ForgotPassword(context.Background(), dto.ForgotPasswordRequest{Email: user.Email})

		assert.NoError(t, err)
	})
}

func TestAuthService_ResetPassword(t *testing.T) {
	t.Run("valid token stores the new password", func(t *testing.T) {
		svc, users, tokens, _ := newAuthService(t)

		user := validUser()

		users.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(user, nil)

		tokens.EXPECT().
			Consume(gomock.Any(), user.ID, constant.TokenKindPasswordReset, "reset-token").
			Return(nil)

		users.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		err := svc.ResetPassword(context.Background(), dto.ResetPasswordRequest{
			Email:       user.Email,
			Token:       "reset-token",
			NewPassword: "newpassword123",
		})

		assert.NoError(t, err)
	})

	t.Run("rejected token leaves the password alone", func(t *testing.T) {
		svc, users, tokens, _ := newAuthService(t)

		user := validUser()

		users.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(user, nil)

		tokens.EXPECT().
			Consume(gomock.Any(), user.ID, constant.TokenKindPasswordReset, "stale-token").
			Return(errors.New("invalid token"))

		err := svc.ResetPassword(context.Background(), dto.ResetPasswordRequest{
			Email:       user.Email,
			Token:       "stale-token",
			NewPassword: "newpassword123",
		})

		assert.Error(t, err)
	})
}

// Helper function to create string pointer
func stringPtr(s string) *string {
	return &s
}
