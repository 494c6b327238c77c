package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"stayinn/infras/otel"
	"stayinn/infras/postgres"
	"stayinn/internal/domains/food/model"
	gDto "stayinn/shared/dto"
	gRepo "stayinn/shared/repository"
)

type Food interface {
	Insert(ctx context.Context, model model.Food) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Food, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Food, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Food]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Food {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Food](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
