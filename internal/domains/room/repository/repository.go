package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"stayinn/infras/otel"
	"stayinn/infras/postgres"
	rsvModel "stayinn/internal/domains/reservation/model"
	"stayinn/internal/domains/room/model"
	"stayinn/shared/constant"
	gDto "stayinn/shared/dto"
	"stayinn/shared/logger"
	gRepo "stayinn/shared/repository"
)

type Room interface {
	Insert(ctx context.Context, model model.Room) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Room, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Room, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	FindAvailable(ctx context.Context, roomType string, checkIn, checkOut time.Time, matchingType bool) ([]model.Room, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Room]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Room {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Room](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// FindAvailable returns active rooms with no reservation overlapping
// [checkIn, checkOut). A stay ending on checkIn does not block, the room turns
// over the same day. Cancelled reservations never block.
func (repo *repositoryImpl) FindAvailable(ctx context.Context, roomType string, checkIn, checkOut time.Time, matchingType bool) ([]model.Room, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.FindAvailable")
	defer scope.End()

	typeComparison := "="
	if !matchingType {
		typeComparison = "<>"
	}

	columns := "id, room_number, type, description, price, capacity, beds, features, images, active, created_by, modified_by"

	query := fmt.Sprintf(`SELECT %s FROM %s
		WHERE %s.active = TRUE
		AND %s.type %s :type
		AND NOT EXISTS (
			SELECT 1 FROM %s
			WHERE %s.room_id = %s.id
			AND %s.status <> :cancelled
			AND %s.check_in < :check_out
			AND %s.check_out > :check_in
		)
		ORDER BY %s.price ASC, %s.room_number ASC`,
		columns, model.TableName,
		model.TableName,
		model.TableName, typeComparison,
		rsvModel.TableName,
		rsvModel.TableName, model.TableName,
		rsvModel.TableName,
		rsvModel.TableName,
		rsvModel.TableName,
		model.TableName, model.TableName)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	args := map[string]any{
		"type":      roomType,
		"cancelled": constant.ReservationStatusCancelled,
		"check_in":  checkIn,
		"check_out": checkOut,
	}

	var rooms []model.Room

	prepare, err := repo.db.Read.PrepareNamedContext(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return rooms, fmt.Errorf("failed to prepare statement (%s): %w", model.EntityName, err)
	}
	defer prepare.Close()

	err = prepare.SelectContext(ctx, &rooms, args)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return rooms, fmt.Errorf("failed to find available rooms: %w", err)
	}

	return rooms, nil
}
