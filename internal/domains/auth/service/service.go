package service

import (
	"context"
	"fmt"

	"stayinn/config"
	"stayinn/infras/jwt"
	"stayinn/infras/kafka"
	"stayinn/infras/otel"
	"stayinn/internal/domains/auth/model/dto"
	tokenService "stayinn/internal/domains/token/service"
	userModel "stayinn/internal/domains/user/model"
	userRepo "stayinn/internal/domains/user/repository"
	"stayinn/shared"
	"stayinn/shared/constant"
	gDto "stayinn/shared/dto"
	"stayinn/shared/failure"
	"stayinn/shared/password"
	"stayinn/shared/timezone"

	"github.com/rs/zerolog/log"
)

type Auth interface {
	Register(ctx context.Context, req dto.RegisterRequest) error
	VerifyEmail(ctx context.Context, req dto.VerifyEmailRequest) error
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
	RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (dto.RefreshTokenResponse, error)
	ChangePassword(ctx context.Context, req dto.ChangePasswordRequest, userID string) error
	ForgotPassword(ctx context.Context, req dto.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req dto.ResetPasswordRequest) error
}

type serviceImpl struct {
	userRepo   userRepo.User
	tokens     tokenService.Token
	kafka      kafka.Client
	cfg        *config.Config
	otel       otel.Otel
	jwtService jwt.JWT
}

func New(
	userRepo userRepo.User,
	tokens tokenService.Token,
	kafkaClient kafka.Client,
	cfg *config.Config,
	otel otel.Otel,
	jwt jwt.JWT,
) Auth {
	return &serviceImpl{
		userRepo:   userRepo,
		tokens:     tokens,
		kafka:      kafkaClient,
		cfg:        cfg,
		otel:       otel,
		jwtService: jwt,
	}
}

// Register creates the account unverified and emits a verification token for
// the mail pipeline.
func (s *serviceImpl) Register(ctx context.Context, req dto.RegisterRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.Register")
	defer scope.End()
	defer scope.TraceIfError(err)

	exists, err := s.userRepo.Exist(ctx, emailFilter(req.Email))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if user exists")

		return fmt.Errorf("failed to check if user exists: %w", err)
	}

	if exists {
		return failure.BadRequestFromString("email already registered") //nolint:wrapcheck
	}

	hashedPassword, err := password.Hash(req.Password)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")

		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := req.ToUserModel(constant.ContextGuest, hashedPassword)

	if err = s.userRepo.Insert(ctx, user); err != nil {
		log.Error().Err(err).Msg("failed to create user")

		return fmt.Errorf("failed to create user: %w", err)
	}

	issued, err := s.tokens.Issue(ctx, user.ID, constant.TokenKindEmailVerification)
	if err != nil {
		return err
	}

	s.publishAuthEvent(ctx, dto.EventUserRegistered, user.ID, user.Email, issued)

	return nil
}

// VerifyEmail consumes the verification token and marks the account
// verified. The token is single-use.
func (s *serviceImpl) VerifyEmail(ctx context.Context, req dto.VerifyEmailRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.VerifyEmail")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, err := s.getByEmail(ctx, req.Email)
	if err != nil {
		return err
	}

	if user.IsVerified {
		return failure.Conflict("email is already verified") //nolint:wrapcheck
	}

	if err = s.tokens.Consume(ctx, user.ID, constant.TokenKindEmailVerification, req.Token); err != nil {
		return err
	}

	fields := map[string]any{
		userModel.FieldIsVerified: true,
		constant.FieldModifiedAt:  timezone.Now(),
		constant.FieldModifiedBy:  user.ID,
	}

	if err = s.userRepo.Update(ctx, fields, shared.FilterByID(user.ID, userModel.FieldID, userModel.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to mark user verified")

		return fmt.Errorf("failed to mark user verified: %w", err)
	}

	return nil
}

func (s *serviceImpl) Login(ctx context.Context, req dto.LoginRequest) (res dto.LoginResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.Login")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, err := s.userRepo.Get(ctx, emailFilter(req.Email))
	if err != nil || user.ID == constant.Empty {
		log.Warn().Str("email", req.Email).Msg("login attempt with non-existent email")

		return res, failure.BadRequestFromString("invalid email or password") //nolint:wrapcheck
	}

	if user.Password == nil {
		log.Warn().Str("email", req.Email).Msg("password login attempt on passwordless account")

		return res, failure.BadRequestFromString("invalid email or password") //nolint:wrapcheck
	}

	if err := password.Verify(req.Password, *user.Password); err != nil {
		log.Warn().Str("email", req.Email).Msg("login attempt with wrong password")

		return res, failure.BadRequestFromString("invalid email or password") //nolint:wrapcheck
	}

	if !user.Active {
		return res, failure.BadRequestFromString("user account is deactivated") //nolint:wrapcheck
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(user.ID, user.Email, user.Level)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate tokens")

		return res, fmt.Errorf("failed to generate tokens: %w", err)
	}

	lastLogin := dto.UpdateLastLoginRequest{LastLogin: timezone.Now()}
	updatedFields := shared.TransformFields(lastLogin, user.ID)

	if err := s.userRepo.Update(ctx, updatedFields, emailFilter(req.Email)); err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to update last login")

		return res, fmt.Errorf("failed to update last login: %w", err)
	}

	res.FromTokenPair(tokenPair)

	return res, nil
}

func (s *serviceImpl) RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (res dto.RefreshTokenResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.RefreshToken")
	defer scope.End()
	defer scope.TraceIfError(err)

	tokenPair, err := s.jwtService.RefreshTokens(req.RefreshToken)
	if err != nil {
		log.Warn().Err(err).Msg("failed to refresh tokens")

		return res, failure.Unauthorized("invalid refresh token") //nolint:wrapcheck
	}

	res.FromTokenPair(tokenPair)

	return res, nil
}

func (s *serviceImpl) ChangePassword(ctx context.Context, req dto.ChangePasswordRequest, userID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.ChangePassword")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(userID, userModel.FieldID, userModel.TableName)

	user, err := s.userRepo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == constant.Empty {
		return failure.NotFound("user not found") //nolint:wrapcheck
	}

	if user.Password == nil {
		return failure.BadRequestFromString("account has no password set") //nolint:wrapcheck
	}

	if err := password.Verify(req.CurrentPassword, *user.Password); err != nil {
		return failure.BadRequestFromString("current password is incorrect") //nolint:wrapcheck
	}

	hashedPassword, err := password.Hash(req.NewPassword)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash new password")

		return fmt.Errorf("failed to hash new password: %w", err)
	}

	updatePassword := dto.UpdatePasswordRequest{Password: hashedPassword}
	updatedFields := shared.TransformFields(updatePassword, userID)

	if err = s.userRepo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update password")

		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

// ForgotPassword issues a reset token for the mail pipeline. An unknown email
// returns success, so the endpoint never confirms which addresses exist.
func (s *serviceImpl) ForgotPassword(ctx context.Context, req dto.ForgotPasswordRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.ForgotPassword")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, err := s.userRepo.Get(ctx, emailFilter(req.Email))
	if err != nil {
		log.Error().Err(err).Msg("failed to get user for password reset")

		return fmt.Errorf("failed to get user for password reset: %w", err)
	}

	if user.ID == constant.Empty || !user.Active {
		log.Warn().Str("email", req.Email).Msg("password reset requested for unknown or inactive account")

		return nil
	}

	issued, err := s.tokens.Issue(ctx, user.ID, constant.TokenKindPasswordReset)
	if err != nil {
		return err
	}

	s.publishAuthEvent(ctx, dto.EventPasswordResetRequest, user.ID, user.Email, issued)

	return nil
}

// ResetPassword consumes the reset token and stores the new password.
func (s *serviceImpl) ResetPassword(ctx context.Context, req dto.ResetPasswordRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.ResetPassword")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, err := s.getByEmail(ctx, req.Email)
	if err != nil {
		return err
	}

	if err = s.tokens.Consume(ctx, user.ID, constant.TokenKindPasswordReset, req.Token); err != nil {
		return err
	}

	hashedPassword, err := password.Hash(req.NewPassword)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash new password")

		return fmt.Errorf("failed to hash new password: %w", err)
	}

	updatePassword := dto.UpdatePasswordRequest{Password: hashedPassword}
	updatedFields := shared.TransformFields(updatePassword, user.ID)

	if err = s.userRepo.Update(ctx, updatedFields, shared.FilterByID(user.ID, userModel.FieldID, userModel.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to reset password")

		return fmt.Errorf("failed to reset password: %w", err)
	}

	return nil
}

func (s *serviceImpl) getByEmail(ctx context.Context, email string) (userModel.User, error) {
	user, err := s.userRepo.Get(ctx, emailFilter(email))
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return user, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == constant.Empty {
		return user, failure.NotFound("user not found") //nolint:wrapcheck
	}

	return user, nil
}

func (s *serviceImpl) publishAuthEvent(ctx context.Context, event, userID, email string, issued tokenService.IssuedToken) {
	go func() {
		c := context.WithoutCancel(ctx)

		payload := dto.AuthEvent{
			Event:     event,
			UserID:    userID,
			Email:     email,
			Token:     issued.Value,
			ExpiresAt: timezone.Format(issued.ExpiresAt, constant.DateFormat),
		}

		message := kafka.Message{Key: userID, Value: payload}
		if err := s.kafka.SendMessages(c, s.cfg.Kafka.Topic.AuthEvents, message); err != nil {
			log.Error().Err(err).Str("user", userID).Str("event", event).Msg("failed to publish auth event")
		}
	}()
}

func emailFilter(email string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    userModel.FieldEmail,
				Operator: gDto.FilterOperatorEq,
				Value:    email,
				Table:    userModel.TableName,
			},
		},
	}
}
