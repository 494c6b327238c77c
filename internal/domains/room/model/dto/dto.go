package dto

import (
	"stayinn/internal/domains/room/model"
	"stayinn/shared"
	gDto "stayinn/shared/dto"
	gModel "stayinn/shared/model"
	"stayinn/shared/timezone"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type CreateRoomRequest struct {
	RoomNumber  string   `json:"room_number" validate:"required,max=10"`
	Type        string   `json:"type"        validate:"required,oneof=standard deluxe superior"`
	Description string   `json:"description" validate:"omitempty,max=1000"`
	Price       float64  `json:"price"       validate:"required,gt=0"`
	Capacity    int      `json:"capacity"    validate:"required,min=1"`
	Beds        []string `json:"beds"        validate:"omitempty,dive,max=50"`
	Features    []string `json:"features"    validate:"omitempty,dive,max=100"`
	Images      []string `json:"images"      validate:"omitempty,dive,url"`
	Active      *bool    `json:"active"      validate:"omitempty"`
}

func (c *CreateRoomRequest) ToModel(user string) model.Room {
	active := true
	if c.Active != nil {
		active = *c.Active
	}

	return model.Room{
		ID:          uuid.NewString(),
		RoomNumber:  c.RoomNumber,
		Type:        c.Type,
		Description: c.Description,
		Price:       c.Price,
		Capacity:    c.Capacity,
		Beds:        pq.StringArray(c.Beds),
		Features:    pq.StringArray(c.Features),
		Images:      pq.StringArray(c.Images),
		Active:      active,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateRoomRequest struct {
	RoomNumber  string   `db:"room_number" json:"room_number" validate:"omitempty,max=10"`
	Type        string   `db:"type"        json:"type"        validate:"omitempty,oneof=standard deluxe superior"`
	Description string   `db:"description" json:"description" validate:"omitempty,max=1000"`
	Price       *float64 `db:"price"       json:"price"       validate:"omitempty,gt=0"`
	Capacity    *int     `db:"capacity"    json:"capacity"    validate:"omitempty,min=1"`
	Active      *bool    `db:"active"      json:"active"      validate:"omitempty"`
}

type ReplaceRoomArraysRequest struct {
	Beds     []string `json:"beds"     validate:"omitempty,dive,max=50"`
	Features []string `json:"features" validate:"omitempty,dive,max=100"`
	Images   []string `json:"images"   validate:"omitempty,dive,url"`
}

type AvailabilityRequest struct {
	CheckIn  string `json:"check_in"  validate:"required,datetime=2006-01-02"`
	CheckOut string `json:"check_out" validate:"required,datetime=2006-01-02"`
	Type     string `json:"type"      validate:"required,oneof=standard deluxe superior"`
}

type RoomResponse struct {
	ID          string   `json:"id"`
	RoomNumber  string   `json:"room_number"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Capacity    int      `json:"capacity"`
	Beds        []string `json:"beds"`
	Features    []string `json:"features"`
	Images      []string `json:"images"`
	Active      bool     `json:"active"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.RoomNumber = model.RoomNumber
	r.Type = model.Type
	r.Description = model.Description
	r.Price = model.Price
	r.Capacity = model.Capacity
	r.Beds = model.Beds
	r.Features = model.Features
	r.Images = model.Images
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type AvailabilityResponse struct {
	Rooms      []RoomResponse `json:"rooms"`
	OtherRooms []RoomResponse `json:"other_rooms"`
}

func (r *AvailabilityResponse) FromModels(matching, others []model.Room) {
	r.Rooms = make([]RoomResponse, len(matching))
	for i, mod := range matching {
		r.Rooms[i].FromModel(mod)
	}

	r.OtherRooms = make([]RoomResponse, len(others))
	for i, mod := range others {
		r.OtherRooms[i].FromModel(mod)
	}
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}
