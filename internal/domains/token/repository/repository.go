package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"stayinn/infras/otel"
	"stayinn/infras/postgres"
	"stayinn/internal/domains/token/model"
	gDto "stayinn/shared/dto"
	gRepo "stayinn/shared/repository"
)

type Token interface {
	Insert(ctx context.Context, model model.Token) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Token, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Token]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Token {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Token](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
