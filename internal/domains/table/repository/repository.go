package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"stayinn/infras/otel"
	"stayinn/infras/postgres"
	diningModel "stayinn/internal/domains/dining/model"
	"stayinn/internal/domains/table/model"
	"stayinn/shared/constant"
	gDto "stayinn/shared/dto"
	"stayinn/shared/logger"
	gRepo "stayinn/shared/repository"
)

type Table interface {
	Insert(ctx context.Context, model model.Table) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Table, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Table, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	FindAvailable(ctx context.Context, seatType string, date time.Time, slot string, matchingType bool) ([]model.Table, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Table]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Table {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Table](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// FindAvailable returns active tables with no non-cancelled reservation for
// the same date and slot.
func (repo *repositoryImpl) FindAvailable(ctx context.Context, seatType string, date time.Time, slot string, matchingType bool) ([]model.Table, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".table.FindAvailable")
	defer scope.End()

	typeComparison := "="
	if !matchingType {
		typeComparison = "<>"
	}

	columns := "id, table_number, seat_type, description, price, seats, images, active, created_by, modified_by"

	query := fmt.Sprintf(`SELECT %s FROM %s
		WHERE %s.active = TRUE
		AND %s.seat_type %s :seat_type
		AND NOT EXISTS (
			SELECT 1 FROM %s
			WHERE %s.table_id = %s.id
			AND %s.status <> :cancelled
			AND %s.date = :date
			AND %s.slot = :slot
		)
		ORDER BY %s.price ASC, %s.table_number ASC`,
		columns, model.TableName,
		model.TableName,
		model.TableName, typeComparison,
		diningModel.TableName,
		diningModel.TableName, model.TableName,
		diningModel.TableName,
		diningModel.TableName,
		diningModel.TableName,
		model.TableName, model.TableName)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	args := map[string]any{
		"seat_type": seatType,
		"cancelled": constant.ReservationStatusCancelled,
		"date":      date,
		"slot":      slot,
	}

	var tables []model.Table

	prepare, err := repo.db.Read.PrepareNamedContext(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return tables, fmt.Errorf("failed to prepare statement (%s): %w", model.EntityName, err)
	}
	defer prepare.Close()

	err = prepare.SelectContext(ctx, &tables, args)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return tables, fmt.Errorf("failed to find available tables: %w", err)
	}

	return tables, nil
}
