package models

import (
	"strings"
	"time"
)

// Customer is a row in the customers table. Customers are looked up by
// phone and created on first checkout or chat contact.
type Customer struct {
	ID        string    `json:"customer_id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Location  string    `json:"location,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CustomerSession is the locally persisted identity blob. It lets repeat
// visits reuse the same backend customer record.
type CustomerSession struct {
	CustomerID string `json:"customer_id"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Location   string `json:"location"`
}

// CleanPhone strips all whitespace from a phone number before validation
// or lookup.
func CleanPhone(phone string) string {
	return strings.Join(strings.Fields(phone), "")
}
