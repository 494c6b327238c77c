package dto

import (
	"time"

	"stayinn/internal/domains/offer/model"
	"stayinn/shared"
	"stayinn/shared/constant"
	gDto "stayinn/shared/dto"
	gModel "stayinn/shared/model"
	"stayinn/shared/timezone"

	"github.com/google/uuid"
)

type CreateOfferRequest struct {
	Code      string  `json:"code"       validate:"required,max=30,alphanum"`
	Name      string  `json:"name"       validate:"required,max=100"`
	Percent   float64 `json:"percent"    validate:"required,gt=0,lte=100"`
	ValidFrom string  `json:"valid_from" validate:"required,datetime=2006-01-02"`
	ValidTo   string  `json:"valid_to"   validate:"required,datetime=2006-01-02"`
	Active    *bool   `json:"active"     validate:"omitempty"`
}

func (c *CreateOfferRequest) ToModel(user string) (model.Offer, error) {
	validFrom, err := time.Parse(constant.DateOnlyFormat, c.ValidFrom)
	if err != nil {
		return model.Offer{}, err
	}

	validTo, err := time.Parse(constant.DateOnlyFormat, c.ValidTo)
	if err != nil {
		return model.Offer{}, err
	}

	active := true
	if c.Active != nil {
		active = *c.Active
	}

	return model.Offer{
		ID:        uuid.NewString(),
		Code:      c.Code,
		Name:      c.Name,
		Percent:   c.Percent,
		ValidFrom: validFrom,
		ValidTo:   validTo,
		Active:    active,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}, nil
}

type UpdateOfferRequest struct {
	Name    string   `db:"name"    json:"name"    validate:"omitempty,max=100"`
	Percent *float64 `db:"percent" json:"percent" validate:"omitempty,gt=0,lte=100"`
	Active  *bool    `db:"active"  json:"active"  validate:"omitempty"`
}

type OfferResponse struct {
	ID        string  `json:"id"`
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	Percent   float64 `json:"percent"`
	ValidFrom string  `json:"valid_from"`
	ValidTo   string  `json:"valid_to"`
	Active    bool    `json:"active"`
	gDto.Metadata
}

func (r *OfferResponse) FromModel(model model.Offer) {
	r.ID = model.ID
	r.Code = model.Code
	r.Name = model.Name
	r.Percent = model.Percent
	r.ValidFrom = model.ValidFrom.Format(constant.DateOnlyFormat)
	r.ValidTo = model.ValidTo.Format(constant.DateOnlyFormat)
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type GetOffersResponse struct {
	Offers    []OfferResponse `json:"offers"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetOffersResponse) FromModels(models []model.Offer, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Offers = make([]OfferResponse, len(models))
	for i, mod := range models {
		r.Offers[i].FromModel(mod)
	}
}
