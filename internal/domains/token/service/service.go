package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"stayinn/infras/otel"
	"stayinn/internal/domains/token/model"
	"stayinn/internal/domains/token/repository"
	"stayinn/shared/constant"
	gDto "stayinn/shared/dto"
	"stayinn/shared/failure"
	gModel "stayinn/shared/model"
	"stayinn/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const issuerName = "token-service"

type IssuedToken struct {
	Value     string    `json:"value"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Token interface {
	Issue(ctx context.Context, subject, kind string) (IssuedToken, error)
	Validate(ctx context.Context, subject, kind, value string) error
	Consume(ctx context.Context, subject, kind, value string) error
}

type serviceImpl struct {
	repo repository.Token
	otel otel.Otel
}

func New(repo repository.Token, otel otel.Otel) Token {
	return &serviceImpl{
		repo: repo,
		otel: otel,
	}
}

// Issue replaces any existing token for (subject, kind), expired or not, so
// that a single token is live per subject and kind at any time.
func (s *serviceImpl) Issue(ctx context.Context, subject, kind string) (res IssuedToken, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".token.Issue")
	defer scope.End()
	defer scope.TraceIfError(err)

	ttl, err := ttlFor(kind)
	if err != nil {
		return res, failure.BadRequestFromString(err.Error()) //nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, subjectKindFilter(subject, kind)); err != nil {
		log.Error().Err(err).Str("kind", kind).Msg("failed to delete superseded token")

		return res, fmt.Errorf("failed to delete superseded token: %w", err)
	}

	value, err := generateValue(kind)
	if err != nil {
		log.Error().Err(err).Str("kind", kind).Msg("failed to generate token value")

		return res, fmt.Errorf("failed to generate token value: %w", err)
	}

	now := timezone.Now()
	token := model.Token{
		ID:        uuid.NewString(),
		Subject:   subject,
		Kind:      kind,
		Value:     value,
		ExpiresAt: now.Add(ttl),
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  issuerName,
			ModifiedBy: issuerName,
		},
	}

	if err = s.repo.Insert(ctx, token); err != nil {
		log.Error().Err(err).Str("kind", kind).Msg("failed to persist token")

		return res, fmt.Errorf("failed to persist token: %w", err)
	}

	return IssuedToken{Value: token.Value, ExpiresAt: token.ExpiresAt}, nil
}

// Validate accepts a presented token only when it matches the stored value
// exactly and has not passed its expiry.
func (s *serviceImpl) Validate(ctx context.Context, subject, kind, value string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".token.Validate")
	defer scope.End()
	defer scope.TraceIfError(err)

	token, err := s.repo.Get(ctx, subjectKindFilter(subject, kind))
	if err != nil {
		log.Error().Err(err).Str("kind", kind).Msg("failed to look up token")

		return fmt.Errorf("failed to look up token: %w", err)
	}

	if token.ID == constant.Empty || token.Value != value {
		return failure.BadRequestFromString("invalid token") //nolint:wrapcheck
	}

	if token.Expired(timezone.Now()) {
		return failure.BadRequestFromString("token has expired") //nolint:wrapcheck
	}

	return nil
}

// Consume validates the token and then deletes it, making every token
// single-use.
func (s *serviceImpl) Consume(ctx context.Context, subject, kind, value string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".token.Consume")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.Validate(ctx, subject, kind, value); err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, subjectKindFilter(subject, kind)); err != nil {
		log.Error().Err(err).Str("kind", kind).Msg("failed to delete used token")

		return fmt.Errorf("failed to delete used token: %w", err)
	}

	return nil
}

func subjectKindFilter(subject, kind string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldSubject,
				Operator: gDto.FilterOperatorEq,
				Value:    subject,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldKind,
				Operator: gDto.FilterOperatorEq,
				Value:    kind,
				Table:    model.TableName,
			},
		},
	}
}

func ttlFor(kind string) (time.Duration, error) {
	switch kind {
	case constant.TokenKindEmailVerification:
		return constant.TokenVerificationTTL, nil
	case constant.TokenKindPasswordReset:
		return constant.TokenPasswordResetTTL, nil
	case constant.TokenKindReservationCancellation:
		return constant.TokenReservationCancellationTTL, nil
	default:
		return 0, fmt.Errorf("unknown token kind: %s", kind)
	}
}

// generateValue returns a UUID for verification and reset tokens, and a
// human-readable numeric code for reservation cancellations.
func generateValue(kind string) (string, error) {
	if kind != constant.TokenKindReservationCancellation {
		return uuid.NewString(), nil
	}

	limit := big.NewInt(1)
	for i := 0; i < constant.TokenCancellationCodeDigits; i++ {
		limit.Mul(limit, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return constant.Empty, fmt.Errorf("failed to read random bytes: %w", err)
	}

	return fmt.Sprintf("%0*d", constant.TokenCancellationCodeDigits, n), nil
}
