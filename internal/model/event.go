package model

import "time"

const (
	// TopicCustomerCreated is broadcast after a customer is stored for the first time
	TopicCustomerCreated = "customer-created"
	// TopicCustomerUpdated is broadcast after an existing customer is modified
	TopicCustomerUpdated = "customer-updated"
	// TopicCustomerDeleted is broadcast after a customer is removed, only id is carried
	TopicCustomerDeleted = "customer-deleted"
)

// Event is a change notification about single customer
type Event struct {
	Topic      string    `json:"topic" msgpack:"topic"`
	CustomerID string    `json:"customerId" msgpack:"customerId"`
	Customer   *Customer `json:"customer,omitempty" msgpack:"customer,omitempty"`
	OccurredAt time.Time `json:"occurredAt" msgpack:"occurredAt"`
}

// NewCustomerEvent builds event carrying full customer representation
func NewCustomerEvent(topic string, c *Customer, at time.Time) Event {
	return Event{Topic: topic, CustomerID: c.ID, Customer: c, OccurredAt: at}
}

// NewDeletedEvent builds deletion event carrying customer id only
func NewDeletedEvent(id string, at time.Time) Event {
	return Event{Topic: TopicCustomerDeleted, CustomerID: id, OccurredAt: at}
}
