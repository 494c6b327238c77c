package model

import (
	"time"

	"stayinn/shared/model"
)

const (
	TableName  = "offers"
	EntityName = "offer"

	FieldID        = "id"
	FieldCode      = "code"
	FieldName      = "name"
	FieldPercent   = "percent"
	FieldValidFrom = "valid_from"
	FieldValidTo   = "valid_to"
	FieldActive    = "active"
)

type Offer struct {
	ID        string    `db:"id"`
	Code      string    `db:"code"`
	Name      string    `db:"name"`
	Percent   float64   `db:"percent"`
	ValidFrom time.Time `db:"valid_from"`
	ValidTo   time.Time `db:"valid_to"`
	Active    bool      `db:"active"`
	model.Metadata
}

// ValidAt reports whether the offer applies at the given moment. Both
// boundary dates are inclusive.
func (o *Offer) ValidAt(at time.Time) bool {
	return o.Active && !at.Before(o.ValidFrom) && !at.After(o.ValidTo)
}
