package models

import "time"

// Event types
const (
	EventTypeOfferCreated   = "OFFER_CREATED"
	EventTypeOfferDecided   = "OFFER_DECIDED"
	EventTypeSupplyRecorded = "SUPPLY_RECORDED"
	EventTypeMessagePosted  = "MESSAGE_POSTED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OfferCreatedEvent published when a customer submits an offer
type OfferCreatedEvent struct {
	BaseEvent
	OfferID  string `json:"offer_id"`
	Customer string `json:"customer"`
	Product  string `json:"product"`
	Qty      int    `json:"qty"`
	Off      int64  `json:"off"`
}

// OfferDecidedEvent published when the admin accepts or rejects an offer
type OfferDecidedEvent struct {
	BaseEvent
	OfferID  string `json:"offer_id"`
	Customer string `json:"customer"`
	Status   string `json:"status"`
}

// SupplyRecordedEvent published for every supplied unit
type SupplyRecordedEvent struct {
	BaseEvent
	OfferID     string `json:"offer_id"`
	Customer    string `json:"customer"`
	Supplied    int    `json:"supplied"`
	Qty         int    `json:"qty"`
	OrderStatus string `json:"order_status"`
}

// MessagePostedEvent published when a chat message is appended to a thread
type MessagePostedEvent struct {
	BaseEvent
	Thread string `json:"thread"`
	Sender string `json:"sender"`
	Text   string `json:"text"`
}
