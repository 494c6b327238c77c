package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"stayinn/infras/otel"
	"stayinn/infras/postgres"
	"stayinn/internal/domains/user/model"
	"stayinn/shared/constant"
	gDto "stayinn/shared/dto"
	"stayinn/shared/logger"
	gRepo "stayinn/shared/repository"
	"stayinn/shared/timezone"
)

type User interface {
	Insert(ctx context.Context, model model.User) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.User, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.User, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	AddCoins(ctx context.Context, userID string, delta int64) error
}

type repositoryImpl struct {
	gRepo.Repository[model.User]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) User {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.User](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// AddCoins applies the loyalty-coin delta in the database so that concurrent
// awards never overwrite each other.
func (repo *repositoryImpl) AddCoins(ctx context.Context, userID string, delta int64) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".user.AddCoins")
	defer scope.End()

	query := fmt.Sprintf("UPDATE %s SET coins = coins + :delta, modified_at = :modified_at WHERE id = :id", model.TableName)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	args := map[string]any{
		"delta":       delta,
		"modified_at": timezone.Now(),
		"id":          userID,
	}

	_, err := repo.db.Write.NamedExecContext(ctx, query, args)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to add coins (%s): %w", model.EntityName, err)
	}

	return nil
}
