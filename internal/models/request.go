package models

import "time"

type RequestType string

const (
	RequestTypeEquipment RequestType = "Equipment"
	RequestTypeLeave     RequestType = "Leave"
	RequestTypeResources RequestType = "Resources"
	RequestTypeOther     RequestType = "Other"
)

type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "Pending"
	RequestStatusApproved  RequestStatus = "Approved"
	RequestStatusRejected  RequestStatus = "Rejected"
	RequestStatusCompleted RequestStatus = "Completed"
)

type Request struct {
	ID          string
	AccountID   string
	Type        RequestType
	Title       string
	Description string
	Status      RequestStatus
	CreatedBy   string
	UpdatedBy   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Account *Account
	Items   []RequestItem
}

type RequestItem struct {
	ID          string
	RequestID   string
	Name        string
	Description string
	Quantity    int
	Status      RequestStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
