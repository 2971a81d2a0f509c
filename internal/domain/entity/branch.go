package entity

import "time"

// Branch representa una sucursal con stock y caja propios.
type Branch struct {
	ID        string
	Name      string
	Address   string
	Phone     string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
