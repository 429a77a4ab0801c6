package handlers

import (
	"net/http"
	"time"

	"github.com/celidone/customers/internal/document"
	"github.com/celidone/customers/internal/model"
	"github.com/celidone/customers/internal/service"
	"github.com/celidone/customers/internal/validation"
	"github.com/labstack/echo/v4"
)

const (
	dateLayout      = "2006-01-02"
	defaultPageSize = 20
)

type identifier struct {
	ID string `json:"id" validate:"required,uuid"`
}

type pageQuery struct {
	Page int `json:"page" validate:"min=0"`
	Size int `json:"size" validate:"min=1,max=100"`
}

type recentQuery struct {
	Limit int `json:"limit" validate:"min=0,max=100"`
}

// customerPayload must keep the same fields as rpc.CustomerFields, both are converted into each other
type customerPayload struct {
	Name           string `json:"name" validate:"required,max=100"`
	PersonType     string `json:"personType" validate:"omitempty,oneof=INDIVIDUAL ORGANIZATION"`
	IndividualID   string `json:"individualId" validate:"omitempty,max=14,cpf"`
	OrganizationID string `json:"organizationId" validate:"omitempty,max=18,cnpj"`
	BirthDate      string `json:"birthDate" validate:"omitempty,datetime=2006-01-02"`
	PostalCode     string `json:"postalCode" validate:"omitempty,cep"`
	Street         string `json:"street" validate:"max=200"`
	Number         string `json:"number" validate:"max=10"`
	City           string `json:"city" validate:"max=100"`
	District       string `json:"district" validate:"max=100"`
	Complement     string `json:"complement" validate:"max=100"`
	State          string `json:"state" validate:"omitempty,len=2"`
	Landline       string `json:"landline" validate:"max=15"`
	Mobile         string `json:"mobile" validate:"max=15"`
	Email          string `json:"email" validate:"omitempty,email,max=100"`
}

// customer converts validated payload, identifiers are stored digits only
func (p *customerPayload) customer() (*model.Customer, error) {
	c := &model.Customer{
		Name:           p.Name,
		PersonType:     model.PersonType(p.PersonType),
		IndividualID:   document.Digits(p.IndividualID),
		OrganizationID: document.Digits(p.OrganizationID),
		PostalCode:     p.PostalCode,
		Street:         p.Street,
		Number:         p.Number,
		City:           p.City,
		District:       p.District,
		Complement:     p.Complement,
		State:          p.State,
		Landline:       p.Landline,
		Mobile:         p.Mobile,
		Email:          p.Email,
	}

	if p.BirthDate != "" {
		birthDate, err := time.Parse(dateLayout, p.BirthDate)
		if err != nil {
			return nil, validation.NewPayloadError("birthDate", "birthDate must follow the 2006-01-02 format")
		}
		c.BirthDate = &birthDate
	}
	return c, nil
}

type customerResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	PersonType     string `json:"personType,omitempty"`
	IndividualID   string `json:"individualId,omitempty"`
	OrganizationID string `json:"organizationId,omitempty"`
	BirthDate      string `json:"birthDate,omitempty"`
	PostalCode     string `json:"postalCode,omitempty"`
	Street         string `json:"street,omitempty"`
	Number         string `json:"number,omitempty"`
	City           string `json:"city,omitempty"`
	District       string `json:"district,omitempty"`
	Complement     string `json:"complement,omitempty"`
	State          string `json:"state,omitempty"`
	Landline       string `json:"landline,omitempty"`
	Mobile         string `json:"mobile,omitempty"`
	Email          string `json:"email,omitempty"`
	RegisteredAt   string `json:"registeredAt"`
	UpdatedAt      string `json:"updatedAt"`
}

func newCustomerResponse(c *model.Customer) *customerResponse {
	res := &customerResponse{
		ID:             c.ID,
		Name:           c.Name,
		PersonType:     string(c.PersonType),
		IndividualID:   c.IndividualID,
		OrganizationID: c.OrganizationID,
		PostalCode:     c.PostalCode,
		Street:         c.Street,
		Number:         c.Number,
		City:           c.City,
		District:       c.District,
		Complement:     c.Complement,
		State:          c.State,
		Landline:       c.Landline,
		Mobile:         c.Mobile,
		Email:          c.Email,
		RegisteredAt:   c.RegisteredAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:      c.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}

	if c.BirthDate != nil {
		res.BirthDate = c.BirthDate.Format(dateLayout)
	}
	return res
}

func newCustomerResponses(customers []*model.Customer) []*customerResponse {
	res := make([]*customerResponse, 0, len(customers))
	for _, c := range customers {
		res = append(res, newCustomerResponse(c))
	}
	return res
}

type customerPageResponse struct {
	Items      []*customerResponse `json:"items"`
	Page       int                 `json:"page"`
	Size       int                 `json:"size"`
	TotalItems int64               `json:"totalItems"`
	TotalPages int                 `json:"totalPages"`
}

// CustomerHTTPHandler is http handler for customer endpoint
type CustomerHTTPHandler struct {
	customerSvc service.CustomerService
	statsSvc    service.StatisticsService
}

// NewCustomerHTTPHandler builds new CustomerHTTPHandler
func NewCustomerHTTPHandler(customerSvc service.CustomerService, statsSvc service.StatisticsService) *CustomerHTTPHandler {
	return &CustomerHTTPHandler{customerSvc: customerSvc, statsSvc: statsSvc}
}

// Get gets customer
// @Summary     Get single customer by id
// @Description Returns single customer with provided id
// @Tags        customers
// @Produce     json
// @Param       id     path 	string true "Customer guid" Format(uuid)
// @Success     200    {object} customerResponse
// @Failure     400    {object} validation.PayloadError
// @Failure     404    {object} echo.HTTPError
// @Failure     500    {object} echo.HTTPError
// @Router      /api/customers/{id} [get]
func (h *CustomerHTTPHandler) Get(c echo.Context) error {
	id := c.Param("id")
	if err := c.Validate(&identifier{ID: id}); err != nil {
		return err
	}

	customer, err := h.customerSvc.FindByID(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newCustomerResponse(customer))
}

// GetAll gets page of customers
// @Summary     Get customers page
// @Description Returns customers page, most recently registered first
// @Tags        customers
// @Produce     json
// @Param       page   query 	int false "Zero-based page number" default(0)
// @Param       size   query 	int false "Page size" default(20) maximum(100)
// @Success     200    {object} customerPageResponse
// @Failure     400    {object} validation.PayloadError
// @Failure     500    {object} echo.HTTPError
// @Router      /api/customers [get]
func (h *CustomerHTTPHandler) GetAll(c echo.Context) error {
	q := pageQuery{Page: 0, Size: defaultPageSize}
	if err := echo.QueryParamsBinder(c).Int("page", &q.Page).Int("size", &q.Size).BindError(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&q); err != nil {
		return err
	}

	page, err := h.customerSvc.FindAll(c.Request().Context(), model.PageSpec{Page: q.Page, Size: q.Size})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &customerPageResponse{
		Items:      newCustomerResponses(page.Items),
		Page:       page.Page,
		Size:       page.Size,
		TotalItems: page.TotalItems,
		TotalPages: page.TotalPages,
	})
}

// Search searches customers
// @Summary     Search customers
// @Description Returns customers whose name or email contains term, case is ignored
// @Tags        customers
// @Produce     json
// @Param       term   query 	string false "Search term"
// @Success     200    {array}  customerResponse
// @Failure     500    {object} echo.HTTPError
// @Router      /api/customers/search [get]
func (h *CustomerHTTPHandler) Search(c echo.Context) error {
	customers, err := h.customerSvc.Search(c.Request().Context(), c.QueryParam("term"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newCustomerResponses(customers))
}

// Recent gets most recently registered customers
// @Summary     Recent customers
// @Description Returns most recently registered customers, newest first
// @Tags        customers
// @Produce     json
// @Param       limit  query 	int false "Number of customers" default(10) maximum(100)
// @Success     200    {array}  customerResponse
// @Failure     400    {object} validation.PayloadError
// @Failure     500    {object} echo.HTTPError
// @Router      /api/customers/recent [get]
func (h *CustomerHTTPHandler) Recent(c echo.Context) error {
	var q recentQuery
	if err := echo.QueryParamsBinder(c).Int("limit", &q.Limit).BindError(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&q); err != nil {
		return err
	}

	customers, err := h.customerSvc.Recent(c.Request().Context(), q.Limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newCustomerResponses(customers))
}

// Stats gets customers statistics
// @Summary     Customers statistics
// @Description Returns registration counters, person type split and top city
// @Tags        customers
// @Produce     json
// @Success     200    {object} model.StatsSnapshot
// @Failure     500    {object} echo.HTTPError
// @Router      /api/customers/stats [get]
func (h *CustomerHTTPHandler) Stats(c echo.Context) error {
	snap, err := h.statsSvc.Snapshot(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, snap)
}

// Post creates new customer
// @Summary     New Customer
// @Description Creates new customer, email and organization id must be unique
// @Tags        customers
// @Accept		json
// @Produce     json
// @Param 		customer body	 customerPayload true "Data for new customer"
// @Success     201    	 {object} customerResponse
// @Failure     400    	 {object} validation.PayloadError
// @Failure     409    	 {object} errors.BusinessErr
// @Failure     500    	 {object} echo.HTTPError
// @Router      /api/customers [post]
func (h *CustomerHTTPHandler) Post(c echo.Context) error {
	var p customerPayload
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&p); err != nil {
		return err
	}

	candidate, err := p.customer()
	if err != nil {
		return err
	}

	customer, err := h.customerSvc.Create(c.Request().Context(), candidate)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, newCustomerResponse(customer))
}

// Put updates customer
// @Summary     Update Customer
// @Description Replaces editable fields of existing customer
// @Tags        customers
// @Accept		json
// @Produce     json
// @Param       id       path 	 string 	     true "Customer guid" Format(uuid)
// @Param 		customer body	 customerPayload true "Customer data"
// @Success     200    	 {object} customerResponse
// @Failure     400    	 {object} validation.PayloadError
// @Failure     404    	 {object} echo.HTTPError
// @Failure     409    	 {object} errors.BusinessErr
// @Failure     500    	 {object} echo.HTTPError
// @Router      /api/customers/{id} [put]
func (h *CustomerHTTPHandler) Put(c echo.Context) error {
	id := c.Param("id")
	if err := c.Validate(&identifier{ID: id}); err != nil {
		return err
	}

	var p customerPayload
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&p); err != nil {
		return err
	}

	candidate, err := p.customer()
	if err != nil {
		return err
	}

	customer, err := h.customerSvc.Update(c.Request().Context(), id, candidate)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newCustomerResponse(customer))
}

// DeleteByID deletes customer
// @Summary     Delete customer by id
// @Description Deletes customer with provided id
// @Tags        customers
// @Param       id     path 	string true "Customer guid" Format(uuid)
// @Success     204    "Successful status code"
// @Failure     400    {object} validation.PayloadError
// @Failure     404    {object} echo.HTTPError
// @Failure     500    {object} echo.HTTPError
// @Router      /api/customers/{id} [delete]
func (h *CustomerHTTPHandler) DeleteByID(c echo.Context) error {
	id := c.Param("id")
	if err := c.Validate(&identifier{ID: id}); err != nil {
		return err
	}

	if err := h.customerSvc.DeleteByID(c.Request().Context(), id); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
