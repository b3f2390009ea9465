package models

import "time"

// TableStatus is the floor status of a dining table
type TableStatus string

const (
	TableAvailable TableStatus = "available"
	TableOccupied  TableStatus = "occupied"
	TableReserved  TableStatus = "reserved"
	TableInactive  TableStatus = "inactive"
)

// Valid reports whether s is a known table status
func (s TableStatus) Valid() bool {
	switch s {
	case TableAvailable, TableOccupied, TableReserved, TableInactive:
		return true
	}
	return false
}

// Label is the display name of the status
func (s TableStatus) Label() string {
	switch s {
	case TableAvailable:
		return "Available"
	case TableOccupied:
		return "Occupied"
	case TableReserved:
		return "Reserved"
	case TableInactive:
		return "Inactive"
	}
	return "Unknown"
}

type Table struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	TableNumber string      `json:"table_number" gorm:"uniqueIndex;not null"`
	Status      TableStatus `json:"status" gorm:"not null;default:'available'"`
	Capacity    int         `json:"capacity"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
