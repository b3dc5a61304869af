package controllers

import (
	"github.com/shashiranjanraj/orderdesk/app/services"
	"github.com/shashiranjanraj/orderdesk/pkg/ctx"
)

type CustomerController struct {
	service *services.CustomerService
}

func NewCustomerController(s *services.CustomerService) *CustomerController {
	return &CustomerController{service: s}
}

// Index lists customers, optionally filtered by ?search=.
func (cc *CustomerController) Index(c *ctx.Context) {
	list, err := cc.service.List(c.Context(), c.Query("search"))
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(list)
}

func (cc *CustomerController) Show(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	customer, err := cc.service.Get(c.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(customer)
}

func (cc *CustomerController) Store(c *ctx.Context) {
	var in services.CustomerInput
	if !c.BindJSON(&in) {
		return
	}
	customer, err := cc.service.Create(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(customer)
}

func (cc *CustomerController) Update(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	var in services.CustomerInput
	if !c.BindJSON(&in) {
		return
	}
	customer, err := cc.service.Update(c.Context(), id, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(customer)
}

// Destroy deletes a customer together with its orders.
func (cc *CustomerController) Destroy(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	if err := cc.service.Delete(c.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Success(map[string]uint{"deleted": id})
}
