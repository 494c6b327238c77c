package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"stayinn/config"
	"stayinn/infras/otel/mocks"
	roomMocks "stayinn/internal/domains/room/mocks"
	"stayinn/internal/domains/room/model"
	"stayinn/internal/domains/room/model/dto"
	"stayinn/internal/domains/room/service"
	cacheMocks "stayinn/shared/cache/mocks"
	"stayinn/shared/constant"
	"stayinn/shared/failure"
)

func TestRoomService_GetAvailability(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := roomMocks.NewMockRoom(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}

	svc := service.New(mockRepo, cfg, mockCache, mockOtel)

	// Async cache writes may or may not land before the test ends.
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	deluxeRoom := model.Room{
		ID:         "room-id-1",
		RoomNumber: "101",
		Type:       constant.RoomTypeDeluxe,
		Price:      150,
		Capacity:   2,
		Active:     true,
	}
	standardRoom := model.Room{
		ID:         "room-id-2",
		RoomNumber: "201",
		Type:       constant.RoomTypeStandard,
		Price:      90,
		Capacity:   2,
		Active:     true,
	}

	tests := []struct {
		name       string
		req        dto.AvailabilityRequest
		setupMock  func()
		wantErr    bool
		wantRooms  int
		wantOthers int
	}{
		{
			name: "returns matching and alternative rooms",
			req: dto.AvailabilityRequest{
				CheckIn:  "2026-10-10",
				CheckOut: "2026-10-15",
				Type:     constant.RoomTypeDeluxe,
			},
			setupMock: func() {
				checkIn := time.Date(2026, 10, 10, 0, 0, 0, 0, time.UTC)
				checkOut := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)

				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				mockRepo.EXPECT().
					FindAvailable(gomock.Any(), constant.RoomTypeDeluxe, checkIn, checkOut, true).
					Return([]model.Room{deluxeRoom}, nil)

				mockRepo.EXPECT().
					FindAvailable(gomock.Any(), constant.RoomTypeDeluxe, checkIn, checkOut, false).
					Return([]model.Room{standardRoom}, nil)
			},
			wantErr:    false,
			wantRooms:  1,
			wantOthers: 1,
		},
		{
			name: "no availability is an empty list, not an error",
			req: dto.AvailabilityRequest{
				CheckIn:  "2026-10-10",
				CheckOut: "2026-10-15",
				Type:     constant.RoomTypeSuperior,
			},
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				mockRepo.EXPECT().
					FindAvailable(gomock.Any(), constant.RoomTypeSuperior, gomock.Any(), gomock.Any(), true).
					Return([]model.Room{}, nil)

				mockRepo.EXPECT().
					FindAvailable(gomock.Any(), constant.RoomTypeSuperior, gomock.Any(), gomock.Any(), false).
					Return([]model.Room{}, nil)
			},
			wantErr:    false,
			wantRooms:  0,
			wantOthers: 0,
		},
		{
			name: "check_in equal to check_out is rejected before the store",
			req: dto.AvailabilityRequest{
				CheckIn:  "2026-10-10",
				CheckOut: "2026-10-10",
				Type:     constant.RoomTypeDeluxe,
			},
			setupMock: func() {},
			wantErr:   true,
		},
		{
			name: "check_in after check_out is rejected",
			req: dto.AvailabilityRequest{
				CheckIn:  "2026-10-15",
				CheckOut: "2026-10-10",
				Type:     constant.RoomTypeDeluxe,
			},
			setupMock: func() {},
			wantErr:   true,
		},
		{
			name: "malformed check_in is rejected",
			req: dto.AvailabilityRequest{
				CheckIn:  "10-10-2026",
				CheckOut: "2026-10-15",
				Type:     constant.RoomTypeDeluxe,
			},
			setupMock: func() {},
			wantErr:   true,
		},
		{
			name: "repository error is propagated",
			req: dto.AvailabilityRequest{
				CheckIn:  "2026-10-10",
				CheckOut: "2026-10-15",
				Type:     constant.RoomTypeDeluxe,
			},
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				mockRepo.EXPECT().
					FindAvailable(gomock.Any(), constant.RoomTypeDeluxe, gomock.Any(), gomock.Any(), true).
					Return(nil, errors.New("db down"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.Background()
			res, err := svc.GetAvailability(ctx, tt.req)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Len(t, res.Rooms, tt.wantRooms)
				assert.Len(t, res.OtherRooms, tt.wantOthers)
			}
		})
	}
}

func TestRoomService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := roomMocks.NewMockRoom(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}

	svc := service.New(mockRepo, cfg, mockCache, mockOtel)

	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	tests := []struct {
		name      string
		req       dto.CreateRoomRequest
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful create",
			req: dto.CreateRoomRequest{
				RoomNumber: "101",
				Type:       constant.RoomTypeDeluxe,
				Price:      150,
				Capacity:   2,
			},
			setupMock: func() {
				mockRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)

				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "duplicate room number",
			req: dto.CreateRoomRequest{
				RoomNumber: "101",
				Type:       constant.RoomTypeDeluxe,
				Price:      150,
				Capacity:   2,
			},
			setupMock: func() {
				mockRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
			},
			wantErr:  true,
			wantCode: 409,
		},
		{
			name: "insert error",
			req: dto.CreateRoomRequest{
				RoomNumber: "102",
				Type:       constant.RoomTypeStandard,
				Price:      90,
				Capacity:   2,
			},
			setupMock: func() {
				mockRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)

				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(errors.New("insert error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.Background()
			err := svc.Create(ctx, tt.req)

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRoomService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := roomMocks.NewMockRoom(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}

	svc := service.New(mockRepo, cfg, mockCache, mockOtel)

	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	tests := []struct {
		name      string
		id        string
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name: "found",
			id:   "room-id-1",
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Room{ID: "room-id-1", RoomNumber: "101", Type: constant.RoomTypeDeluxe}, nil)
			},
			wantErr: false,
		},
		{
			name: "not found",
			id:   "missing-id",
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Room{}, nil)
			},
			wantErr:  true,
			wantCode: 404,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.Background()
			res, err := svc.Get(ctx, tt.id)

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.id, res.ID)
			}
		})
	}
}
