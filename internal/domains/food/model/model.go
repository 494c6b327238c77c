package model

import "stayinn/shared/model"

const (
	TableName  = "foods"
	EntityName = "food"

	FieldID          = "id"
	FieldName        = "name"
	FieldDescription = "description"
	FieldPrice       = "price"
	FieldImage       = "image"
	FieldActive      = "active"
)

type Food struct {
	ID          string  `db:"id"`
	Name        string  `db:"name"`
	Description string  `db:"description"`
	Price       float64 `db:"price"`
	Image       string  `db:"image"`
	Active      bool    `db:"active"`
	model.Metadata
}
