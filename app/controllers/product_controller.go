package controllers

import (
	"github.com/shashiranjanraj/orderdesk/app/services"
	"github.com/shashiranjanraj/orderdesk/pkg/ctx"
)

type ProductController struct {
	service *services.ProductService
}

func NewProductController(s *services.ProductService) *ProductController {
	return &ProductController{service: s}
}

// Index lists products, optionally filtered by ?search=.
func (pc *ProductController) Index(c *ctx.Context) {
	list, err := pc.service.List(c.Context(), c.Query("search"))
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(list)
}

func (pc *ProductController) Show(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	product, err := pc.service.Get(c.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(product)
}

func (pc *ProductController) Store(c *ctx.Context) {
	var in services.ProductInput
	if !c.BindJSON(&in) {
		return
	}
	product, err := pc.service.Create(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(product)
}

func (pc *ProductController) Update(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	var in services.ProductInput
	if !c.BindJSON(&in) {
		return
	}
	product, err := pc.service.Update(c.Context(), id, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(product)
}

// Destroy deletes a product; order lines keep their name snapshot.
func (pc *ProductController) Destroy(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	if err := pc.service.Delete(c.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Success(map[string]uint{"deleted": id})
}
