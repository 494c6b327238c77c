package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"strings"

	"stayinn/infras/otel"
	"stayinn/infras/postgres"
	"stayinn/internal/domains/reservation/model"
	"stayinn/shared/constant"
	gDto "stayinn/shared/dto"
	"stayinn/shared/logger"
	gRepo "stayinn/shared/repository"
	"stayinn/shared/timezone"
)

type Reservation interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Reservation, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Reservation, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	NextNumber(ctx context.Context) (int64, error)
	InsertIfAvailable(ctx context.Context, model model.Reservation) (bool, error)
	ConfirmPayment(ctx context.Context, id string, amount float64, actor string) (bool, error)
	DeleteIfStatus(ctx context.Context, id, expectedStatus string) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Reservation]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Reservation {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Reservation](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// NextNumber draws the next public reservation number from the database
// sequence, so concurrent bookings never collide.
func (repo *repositoryImpl) NextNumber(ctx context.Context) (int64, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.NextNumber")
	defer scope.End()

	query := fmt.Sprintf("SELECT nextval('%s')", model.SequenceName)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var number int64

	err := repo.db.Write.GetContext(ctx, &number, query)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to get next reservation number: %w", err)
	}

	return number, nil
}

// InsertIfAvailable inserts the reservation only when no non-cancelled
// reservation overlaps [check_in, check_out) for the same room. The guard
// lives in the same statement, so of two racing bookings the store admits
// exactly one. Returns false when the row was not inserted.
func (repo *repositoryImpl) InsertIfAvailable(ctx context.Context, rsv model.Reservation) (bool, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.InsertIfAvailable")
	defer scope.End()

	placeholders := make([]string, len(repo.InsertColumns))
	for i, col := range repo.InsertColumns {
		placeholders[i] = ":" + col
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s)
		SELECT %s
		WHERE NOT EXISTS (
			SELECT 1 FROM %s existing
			WHERE existing.room_id = :room_id
			AND existing.status <> '%s'
			AND existing.check_in < :check_out
			AND existing.check_out > :check_in
		)`,
		model.TableName, strings.Join(repo.InsertColumns, ", "),
		strings.Join(placeholders, ", "),
		model.TableName,
		constant.ReservationStatusCancelled)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	result, err := repo.db.Write.NamedExecContext(ctx, query, rsv)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to insert reservation: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to read inserted rows: %w", err)
	}

	return rows > 0, nil
}

// ConfirmPayment accumulates the payment and flips the status in one
// statement. The increment happens in the store, so repeated or concurrent
// confirms on the same reservation never lose a payment. Returns false when
// the reservation is missing or cancelled.
func (repo *repositoryImpl) ConfirmPayment(ctx context.Context, id string, amount float64, actor string) (bool, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.ConfirmPayment")
	defer scope.End()

	query := fmt.Sprintf(`UPDATE %s
		SET paid_amount = paid_amount + :amount,
			status = :confirmed,
			modified_at = :modified_at,
			modified_by = :modified_by
		WHERE id = :id AND status <> :cancelled`, model.TableName)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	args := map[string]any{
		"amount":      amount,
		"confirmed":   constant.ReservationStatusConfirmed,
		"modified_at": timezone.Now(),
		"modified_by": actor,
		"id":          id,
		"cancelled":   constant.ReservationStatusCancelled,
	}

	result, err := repo.db.Write.NamedExecContext(ctx, query, args)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to confirm reservation payment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to read confirmed rows: %w", err)
	}

	return rows > 0, nil
}

// DeleteIfStatus removes the reservation only while it still has the status
// the caller saw. Returns false when the status moved on in the meantime.
func (repo *repositoryImpl) DeleteIfStatus(ctx context.Context, id, expectedStatus string) (bool, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.DeleteIfStatus")
	defer scope.End()

	query := fmt.Sprintf("DELETE FROM %s WHERE id = :id AND status = :status", model.TableName)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	args := map[string]any{
		"id":     id,
		"status": expectedStatus,
	}

	result, err := repo.db.Write.NamedExecContext(ctx, query, args)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to delete reservation: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to read deleted rows: %w", err)
	}

	return rows > 0, nil
}
