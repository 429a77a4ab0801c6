package model

import "time"

// PersonType specifies which national identifier of the customer is authoritative
type PersonType string

const (
	// PersonTypeIndividual means customer is a natural person identified by IndividualID
	PersonTypeIndividual PersonType = "INDIVIDUAL"
	// PersonTypeOrganization means customer is a legal entity identified by OrganizationID
	PersonTypeOrganization PersonType = "ORGANIZATION"
)

// Customer is customer model entity
type Customer struct {
	ID             string     `json:"id" bson:"_id,omitempty" msgpack:"id"`
	Name           string     `json:"name" bson:"name" msgpack:"name"`
	PersonType     PersonType `json:"personType,omitempty" bson:"personType,omitempty" msgpack:"personType"`
	IndividualID   string     `json:"individualId,omitempty" bson:"individualId" msgpack:"individualId"`
	OrganizationID string     `json:"organizationId,omitempty" bson:"organizationId" msgpack:"organizationId"`
	BirthDate      *time.Time `json:"birthDate,omitempty" bson:"birthDate,omitempty" msgpack:"birthDate"`
	PostalCode     string     `json:"postalCode,omitempty" bson:"postalCode" msgpack:"postalCode"`
	Street         string     `json:"street,omitempty" bson:"street" msgpack:"street"`
	Number         string     `json:"number,omitempty" bson:"number" msgpack:"number"`
	City           string     `json:"city,omitempty" bson:"city" msgpack:"city"`
	District       string     `json:"district,omitempty" bson:"district" msgpack:"district"`
	Complement     string     `json:"complement,omitempty" bson:"complement" msgpack:"complement"`
	State          string     `json:"state,omitempty" bson:"state" msgpack:"state"`
	Landline       string     `json:"landline,omitempty" bson:"landline" msgpack:"landline"`
	Mobile         string     `json:"mobile,omitempty" bson:"mobile" msgpack:"mobile"`
	Email          string     `json:"email,omitempty" bson:"email" msgpack:"email"`
	RegisteredAt   time.Time  `json:"registeredAt" bson:"registeredAt" msgpack:"registeredAt"`
	UpdatedAt      time.Time  `json:"updatedAt" bson:"updatedAt" msgpack:"updatedAt"`
}

// IsOrganization reports whether the organization identifier is authoritative for the customer
func (c *Customer) IsOrganization() bool {
	return c.PersonType == PersonTypeOrganization
}

// Replace copies every client-editable field from src, leaving identity and timestamps untouched
func (c *Customer) Replace(src *Customer) {
	c.Name = src.Name
	c.PersonType = src.PersonType
	c.IndividualID = src.IndividualID
	c.OrganizationID = src.OrganizationID
	c.BirthDate = src.BirthDate
	c.PostalCode = src.PostalCode
	c.Street = src.Street
	c.Number = src.Number
	c.City = src.City
	c.District = src.District
	c.Complement = src.Complement
	c.State = src.State
	c.Landline = src.Landline
	c.Mobile = src.Mobile
	c.Email = src.Email
}

// PageSpec describes requested page of customers, Page is zero-based
type PageSpec struct {
	Page int
	Size int
}

// Offset returns number of entries to skip
func (p PageSpec) Offset() int {
	return p.Page * p.Size
}

// CustomerPage is a single page of customers
type CustomerPage struct {
	Items      []*Customer `json:"items"`
	Page       int         `json:"page"`
	Size       int         `json:"size"`
	TotalItems int64       `json:"totalItems"`
	TotalPages int         `json:"totalPages"`
}

// NewCustomerPage builds page envelope and computes number of pages
func NewCustomerPage(items []*Customer, spec PageSpec, total int64) *CustomerPage {
	pages := 0
	if spec.Size > 0 {
		pages = int((total + int64(spec.Size) - 1) / int64(spec.Size))
	}

	return &CustomerPage{
		Items:      items,
		Page:       spec.Page,
		Size:       spec.Size,
		TotalItems: total,
		TotalPages: pages,
	}
}
