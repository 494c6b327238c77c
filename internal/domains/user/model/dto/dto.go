package dto

import (
	"stayinn/internal/domains/user/model"
	"stayinn/shared"
	gDto "stayinn/shared/dto"
)

type UserResponse struct {
	ID           string  `json:"id"`
	Email        string  `json:"email"`
	Level        string  `json:"level"`
	FullName     *string `json:"full_name"`
	Phone        *string `json:"phone"`
	ProfileImage *string `json:"profile_image"`
	IsVerified   bool    `json:"is_verified"`
	Coins        int64   `json:"coins"`
	Active       bool    `json:"active"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(model model.User) {
	r.ID = model.ID
	r.Email = model.Email
	r.Level = model.Level
	r.FullName = model.FullName
	r.Phone = model.Phone
	r.ProfileImage = model.ProfileImage
	r.IsVerified = model.IsVerified
	r.Coins = model.Coins
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type UpdateProfileRequest struct {
	FullName     string `db:"full_name"     json:"full_name"     validate:"omitempty,max=100"`
	Phone        string `db:"phone"         json:"phone"         validate:"omitempty,max=20"`
	ProfileImage string `db:"profile_image" json:"profile_image" validate:"omitempty,max=500"`
}

type AwardCoinsRequest struct {
	Coins  int64  `json:"coins"  validate:"required,ne=0"`
	Reason string `json:"reason" validate:"omitempty,max=200"`
}

type GetUsersResponse struct {
	Users     []UserResponse `json:"users"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetUsersResponse) FromModels(models []model.User, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Users = make([]UserResponse, len(models))
	for i, mod := range models {
		r.Users[i].FromModel(mod)
	}
}
