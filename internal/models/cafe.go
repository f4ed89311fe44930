// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import "time"

// Cafe is a directory entry submitted by a user.
type Cafe struct { //nolint:govet // fieldalignment: readability over optimization
	ID           int64     `db:"id" json:"id"`
	UserID       int64     `db:"user_id" json:"user_id"`
	Name         string    `db:"name" json:"name"`
	MapURL       string    `db:"map_url" json:"map_url"`
	ImgURL       string    `db:"img_url" json:"img_url"`
	Location     string    `db:"location" json:"location"`
	HasToilet    bool      `db:"has_toilet" json:"has_toilet"`
	HasWifi      bool      `db:"has_wifi" json:"has_wifi"`
	HasSockets   bool      `db:"has_sockets" json:"has_sockets"`
	CanTakeCalls bool      `db:"can_take_calls" json:"can_take_calls"`
	Seats        string    `db:"seats" json:"seats"` // free text, e.g. "20-30"
	CoffeePrice  *string   `db:"coffee_price" json:"coffee_price,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// CoffeePriceOrEmpty returns the coffee price or "" when unset.
func (c *Cafe) CoffeePriceOrEmpty() string {
	if c.CoffeePrice == nil {
		return ""
	}
	return *c.CoffeePrice
}

// OwnedBy reports whether the cafe was submitted by the given user ID.
func (c *Cafe) OwnedBy(userID int64) bool {
	return c.UserID == userID
}
