package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"stayinn/infras/otel"
	"stayinn/infras/postgres"
	"stayinn/shared/constant"
	"stayinn/shared/logger"
)

type Stats interface {
	SumPaidBetween(ctx context.Context, table string, from, to time.Time) (float64, error)
	CountCreatedBetween(ctx context.Context, table string, from, to time.Time) (int64, error)
}

type repositoryImpl struct {
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Stats {
	return &repositoryImpl{
		db:   db,
		otel: otel,
	}
}

// SumPaidBetween sums the paid amounts of non-cancelled reservations created
// in [from, to).
func (repo *repositoryImpl) SumPaidBetween(ctx context.Context, table string, from, to time.Time) (float64, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".stats.SumPaidBetween")
	defer scope.End()

	query := fmt.Sprintf(`SELECT COALESCE(SUM(paid_amount), 0) FROM %s
		WHERE status <> :cancelled
		AND created_at >= :from
		AND created_at < :to`, table)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	args := map[string]any{
		"cancelled": constant.ReservationStatusCancelled,
		"from":      from,
		"to":        to,
	}

	var sum float64

	prepare, err := repo.db.Read.PrepareNamedContext(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to prepare statement (stats): %w", err)
	}
	defer prepare.Close()

	if err = prepare.GetContext(ctx, &sum, args); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to sum paid amounts (%s): %w", table, err)
	}

	return sum, nil
}

// CountCreatedBetween counts non-cancelled reservations created in [from, to).
func (repo *repositoryImpl) CountCreatedBetween(ctx context.Context, table string, from, to time.Time) (int64, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".stats.CountCreatedBetween")
	defer scope.End()

	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s
		WHERE status <> :cancelled
		AND created_at >= :from
		AND created_at < :to`, table)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	args := map[string]any{
		"cancelled": constant.ReservationStatusCancelled,
		"from":      from,
		"to":        to,
	}

	var count int64

	prepare, err := repo.db.Read.PrepareNamedContext(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to prepare statement (stats): %w", err)
	}
	defer prepare.Close()

	if err = prepare.GetContext(ctx, &count, args); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to count reservations (%s): %w", table, err)
	}

	return count, nil
}
