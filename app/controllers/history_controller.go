package controllers

import (
	"github.com/shashiranjanraj/orderdesk/pkg/audit"
	"github.com/shashiranjanraj/orderdesk/pkg/ctx"
)

type HistoryController struct {
	sink audit.Sink
}

func NewHistoryController(sink audit.Sink) *HistoryController {
	return &HistoryController{sink: sink}
}

// Index returns the audit trail, newest first, ?limit= entries (0 = all).
func (hc *HistoryController) Index(c *ctx.Context) {
	limit, ok := c.QueryInt("limit", 100)
	if !ok {
		return
	}
	entries, err := hc.sink.History(c.Context(), limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(entries)
}

func (hc *HistoryController) Clear(c *ctx.Context) {
	if err := hc.sink.Clear(c.Context()); err != nil {
		fail(c, err)
		return
	}
	c.Success(map[string]bool{"cleared": true})
}
