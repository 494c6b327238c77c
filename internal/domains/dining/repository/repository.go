package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"strings"

	"stayinn/infras/otel"
	"stayinn/infras/postgres"
	"stayinn/internal/domains/dining/model"
	"stayinn/shared/constant"
	gDto "stayinn/shared/dto"
	"stayinn/shared/logger"
	gRepo "stayinn/shared/repository"
	"stayinn/shared/timezone"
)

type Dining interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.TableReservation, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.TableReservation, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	NextNumber(ctx context.Context) (int64, error)
	InsertIfAvailable(ctx context.Context, rsv model.TableReservation, lines []model.FoodOrderLine) (bool, error)
	ConfirmPayment(ctx context.Context, id string, amount float64, actor string) (bool, error)
	DeleteIfStatus(ctx context.Context, id, expectedStatus string) (bool, error)
	GetLines(ctx context.Context, reservationID string) ([]model.FoodOrderLine, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.TableReservation]
	lines gRepo.Repository[model.FoodOrderLine]
	db    *postgres.Connection
	otel  otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Dining {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.TableReservation](model.EntityName, model.TableName, model.FieldID, db, otel),
		lines:      gRepo.NewRepository[model.FoodOrderLine](model.LineEntityName, model.LineTableName, model.LineFieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// NextNumber draws the next public reservation number from the database
// sequence, so concurrent bookings never collide.
func (repo *repositoryImpl) NextNumber(ctx context.Context) (int64, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".dining.NextNumber")
	defer scope.End()

	query := fmt.Sprintf("SELECT nextval('%s')", model.SequenceName)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var number int64

	err := repo.db.Write.GetContext(ctx, &number, query)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to get next table reservation number: %w", err)
	}

	return number, nil
}

// InsertIfAvailable inserts the reservation only when no non-cancelled
// reservation holds the same table for the same date and slot, then stores
// the pre-order lines in the same transaction. Of two racing bookings the
// store admits exactly one. Returns false when the row was not inserted.
func (repo *repositoryImpl) InsertIfAvailable(ctx context.Context, rsv model.TableReservation, lines []model.FoodOrderLine) (inserted bool, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".dining.InsertIfAvailable")
	defer scope.End()

	placeholders := make([]string, len(repo.InsertColumns))
	for i, col := range repo.InsertColumns {
		placeholders[i] = ":" + col
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s)
		SELECT %s
		WHERE NOT EXISTS (
			SELECT 1 FROM %s existing
			WHERE existing.table_id = :table_id
			AND existing.status <> '%s'
			AND existing.date = :date
			AND existing.slot = :slot
		)`,
		model.TableName, strings.Join(repo.InsertColumns, ", "),
		strings.Join(placeholders, ", "),
		model.TableName,
		constant.ReservationStatusCancelled)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	tx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to begin table reservation transaction: %w", err)
	}

	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				logger.ErrorWithStack(rollbackErr)
			}
		}
	}()

	result, err := tx.NamedExecContext(ctx, query, rsv)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to insert table reservation: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to read inserted rows: %w", err)
	}

	if rows == 0 {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			logger.ErrorWithStack(rollbackErr)
		}

		return false, nil
	}

	if len(lines) > 0 {
		if err = repo.lines.InsertBulkTx(ctx, tx, lines); err != nil {
			logger.ErrorWithStack(err)
			scope.TraceError(err)

			return false, fmt.Errorf("failed to insert food order lines: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to commit table reservation: %w", err)
	}

	return true, nil
}

// ConfirmPayment accumulates the payment and flips the status in one
// statement. Repeated confirms keep adding to paid_amount. Returns false
// when the reservation is missing or cancelled.
func (repo *repositoryImpl) ConfirmPayment(ctx context.Context, id string, amount float64, actor string) (bool, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".dining.ConfirmPayment")
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

		return false, fmt.Errorf("failed to confirm table reservation payment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to read confirmed rows: %w", err)
	}

	return rows > 0, nil
}

// DeleteIfStatus removes the reservation and its pre-order lines only while
// it still has the status the caller saw. Returns false when the status
// moved on in the meantime.
func (repo *repositoryImpl) DeleteIfStatus(ctx context.Context, id, expectedStatus string) (deleted bool, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".dining.DeleteIfStatus")
	defer scope.End()

	query := fmt.Sprintf("DELETE FROM %s WHERE id = :id AND status = :status", model.TableName)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	tx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to begin table reservation transaction: %w", err)
	}

	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				logger.ErrorWithStack(rollbackErr)
			}
		}
	}()

	lineFilter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.LineFieldReservationID,
				Value:    id,
				Operator: gDto.FilterOperatorEq,
				Table:    model.LineTableName,
			},
		},
	}

	if err = repo.lines.DeleteTx(ctx, tx, lineFilter); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to delete food order lines: %w", err)
	}

	result, err := tx.NamedExecContext(ctx, query, map[string]any{
		"id":     id,
		"status": expectedStatus,
	})
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to delete table reservation: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to read deleted rows: %w", err)
	}

	if rows == 0 {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			logger.ErrorWithStack(rollbackErr)
		}

		return false, nil
	}

	if err = tx.Commit(); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to commit table reservation delete: %w", err)
	}

	return true, nil
}

// GetLines returns the pre-order lines joined with the dish name.
func (repo *repositoryImpl) GetLines(ctx context.Context, reservationID string) ([]model.FoodOrderLine, error) {
	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.LineFieldReservationID,
				Value:    reservationID,
				Operator: gDto.FilterOperatorEq,
				Table:    model.LineTableName,
			},
		},
	}

	lines, err := repo.lines.GetAll(ctx, gDto.QueryParams{}, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to get food order lines: %w", err)
	}

	return lines, nil
}
