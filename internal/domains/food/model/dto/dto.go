package dto

import (
	"stayinn/internal/domains/food/model"
	"stayinn/shared"
	gDto "stayinn/shared/dto"
	gModel "stayinn/shared/model"
	"stayinn/shared/timezone"

	"github.com/google/uuid"
)

type CreateFoodRequest struct {
	Name        string  `json:"name"        validate:"required,max=100"`
	Description string  `json:"description" validate:"omitempty,max=1000"`
	Price       float64 `json:"price"       validate:"required,gt=0"`
	Image       string  `json:"image"       validate:"omitempty,url"`
	Active      *bool   `json:"active"      validate:"omitempty"`
}

func (c *CreateFoodRequest) ToModel(user string) model.Food {
	active := true
	if c.Active != nil {
		active = *c.Active
	}

	return model.Food{
		ID:          uuid.NewString(),
		Name:        c.Name,
		Description: c.Description,
		Price:       c.Price,
		Image:       c.Image,
		Active:      active,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateFoodRequest struct {
	Name        string   `db:"name"        json:"name"        validate:"omitempty,max=100"`
	Description string   `db:"description" json:"description" validate:"omitempty,max=1000"`
	Price       *float64 `db:"price"       json:"price"       validate:"omitempty,gt=0"`
	Image       string   `db:"image"       json:"image"       validate:"omitempty,url"`
	Active      *bool    `db:"active"      json:"active"      validate:"omitempty"`
}

type FoodResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Active      bool    `json:"active"`
	gDto.Metadata
}

func (r *FoodResponse) FromModel(model model.Food) {
	r.ID = model.ID
	r.Name = model.Name
	r.Description = model.Description
	r.Price = model.Price
	r.Image = model.Image
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type GetFoodsResponse struct {
	Foods     []FoodResponse `json:"foods"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetFoodsResponse) FromModels(models []model.Food, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Foods = make([]FoodResponse, len(models))
	for i, mod := range models {
		r.Foods[i].FromModel(mod)
	}
}
