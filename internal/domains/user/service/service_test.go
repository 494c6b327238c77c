package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"stayinn/config"
	"stayinn/infras/otel/mocks"
	userMocks "stayinn/internal/domains/user/mocks"
	"stayinn/internal/domains/user/model"
	"stayinn/internal/domains/user/model/dto"
	"stayinn/internal/domains/user/service"
	cacheMocks "stayinn/shared/cache/mocks"
	"stayinn/shared/failure"
)

func newService(t *testing.T) (service.User, *userMocks.MockUser) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := userMocks.NewMockUser(ctrl)
	cache := cacheMocks.NewMockRedisCache(ctrl)

	// Async cache invalidations may or may not land before the test ends.
	cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(assert.AnError).AnyTimes()

	return service.New(repo, &config.Config{}, cache, mocks.NewOtel()), repo
}

func TestUserService_AwardCoins(t *testing.T) {
	member := model.User{
		ID:    "user-id-1",
		Email: "guest@example.com",
		Coins: 50,
	}

	t.Run("credits coins", func(t *testing.T) {
		svc, repo := newService(t)

		gomock.InOrder(
			repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(member, nil),
			repo.EXPECT().AddCoins(gomock.Any(), "user-id-1", int64(25)).Return(nil),
		)

		err := svc.AwardCoins(context.Background(), "user-id-1", dto.AwardCoinsRequest{Coins: 25, Reason: "late checkout goodwill"})

		assert.NoError(t, err)
	})

	t.Run("debit within the balance is allowed", func(t *testing.T) {
		svc, repo := newService(t)

		gomock.InOrder(
			repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(member, nil),
			repo.EXPECT().AddCoins(gomock.Any(), "user-id-1", int64(-50)).Return(nil),
		)

		err := svc.AwardCoins(context.Background(), "user-id-1", dto.AwardCoinsRequest{Coins: -50})

		assert.NoError(t, err)
	})

	t.Run("debit past zero is rejected", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(member, nil)

		err := svc.AwardCoins(context.Background(), "user-id-1", dto.AwardCoinsRequest{Coins: -51})

		assert.Error(t, err)
		assert.Equal(t, 409, failure.GetCode(err))
	})

	t.Run("unknown user is a not found", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{}, nil)

		err := svc.AwardCoins(context.Background(), "missing", dto.AwardCoinsRequest{Coins: 10})

		assert.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})
}

func TestUserService_UpdateProfile(t *testing.T) {
	t.Run("updates the profile fields", func(t *testing.T) {
		svc, repo := newService(t)

		gomock.InOrder(
			repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil),
			repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil),
		)

		err := svc.UpdateProfile(context.Background(), dto.UpdateProfileRequest{FullName: "Jamie Guest"}, "user-id-1")

		assert.NoError(t, err)
	})

	t.Run("empty update is rejected", func(t *testing.T) {
		svc, _ := newService(t)

		err := svc.UpdateProfile(context.Background(), dto.UpdateProfileRequest{}, "user-id-1")

		assert.Error(t, err)
		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("unknown user is a not found", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		err := svc.UpdateProfile(context.Background(), dto.UpdateProfileRequest{Phone: "0812"}, "missing")

		assert.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})
}
