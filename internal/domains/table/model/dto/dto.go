package dto

import (
	"stayinn/internal/domains/table/model"
	"stayinn/shared"
	gDto "stayinn/shared/dto"
	gModel "stayinn/shared/model"
	"stayinn/shared/timezone"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type CreateTableRequest struct {
	TableNumber string   `json:"table_number" validate:"required,max=10"`
	SeatType    string   `json:"seat_type"    validate:"required,oneof=indoor outdoor vip"`
	Description string   `json:"description"  validate:"omitempty,max=1000"`
	Price       float64  `json:"price"        validate:"required,gt=0"`
	Seats       int      `json:"seats"        validate:"required,min=1"`
	Images      []string `json:"images"       validate:"omitempty,dive,url"`
	Active      *bool    `json:"active"       validate:"omitempty"`
}

func (c *CreateTableRequest) ToModel(user string) model.Table {
	active := true
	if c.Active != nil {
		active = *c.Active
	}

	return model.Table{
		ID:          uuid.NewString(),
		TableNumber: c.TableNumber,
		SeatType:    c.SeatType,
		Description: c.Description,
		Price:       c.Price,
		Seats:       c.Seats,
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

type UpdateTableRequest struct {
	TableNumber string   `db:"table_number" json:"table_number" validate:"omitempty,max=10"`
	SeatType    string   `db:"seat_type"    json:"seat_type"    validate:"omitempty,oneof=indoor outdoor vip"`
	Description string   `db:"description"  json:"description"  validate:"omitempty,max=1000"`
	Price       *float64 `db:"price"        json:"price"        validate:"omitempty,gt=0"`
	Seats       *int     `db:"seats"        json:"seats"        validate:"omitempty,min=1"`
	Active      *bool    `db:"active"       json:"active"       validate:"omitempty"`
}

type TableAvailabilityRequest struct {
	Date     string `json:"date"      validate:"required,datetime=2006-01-02"`
	Slot     string `json:"slot"      validate:"required,oneof=lunch dinner"`
	SeatType string `json:"seat_type" validate:"required,oneof=indoor outdoor vip"`
}

type TableResponse struct {
	ID          string   `json:"id"`
	TableNumber string   `json:"table_number"`
	SeatType    string   `json:"seat_type"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Seats       int      `json:"seats"`
	Images      []string `json:"images"`
	Active      bool     `json:"active"`
	gDto.Metadata
}

func (r *TableResponse) FromModel(model model.Table) {
	r.ID = model.ID
	r.TableNumber = model.TableNumber
	r.SeatType = model.SeatType
	r.Description = model.Description
	r.Price = model.Price
	r.Seats = model.Seats
	r.Images = model.Images
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type TableAvailabilityResponse struct {
	Tables      []TableResponse `json:"tables"`
	OtherTables []TableResponse `json:"other_tables"`
}

func (r *TableAvailabilityResponse) FromModels(matching, others []model.Table) {
	r.Tables = make([]TableResponse, len(matching))
	for i, mod := range matching {
		r.Tables[i].FromModel(mod)
	}

	r.OtherTables = make([]TableResponse, len(others))
	for i, mod := range others {
		r.OtherTables[i].FromModel(mod)
	}
}

type GetTablesResponse struct {
	Tables    []TableResponse `json:"tables"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetTablesResponse) FromModels(models []model.Table, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Tables = make([]TableResponse, len(models))
	for i, mod := range models {
		r.Tables[i].FromModel(mod)
	}
}
