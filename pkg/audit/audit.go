// Package audit keeps the append-only trail of catalogue and order changes.
//
// Entries are written by a Recorder, which never blocks or fails its caller:
// delivery to the Sink happens on a worker pool and errors are only logged.
package audit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// TimeLayout is the timestamp format of the text form of an Entry.
const TimeLayout = "2006-01-02 15:04:05"

// ErrMalformedLine is returned by ParseLine for text not produced by Entry.String.
var ErrMalformedLine = errors.New("audit: malformed line")

// Entry is one (entity, action, detail) tuple.
type Entry struct {
	Time   time.Time `json:"time"   bson:"time"`
	Entity string    `json:"entity" bson:"entity"`
	Action string    `json:"action" bson:"action"`
	Detail string    `json:"detail" bson:"detail"`
}

// String renders "2006-01-02 15:04:05 - [ENTITY] ACTION: detail".
func (e Entry) String() string {
	return fmt.Sprintf("%s - [%s] %s: %s",
		e.Time.Format(TimeLayout),
		strings.ToUpper(e.Entity),
		strings.ToUpper(e.Action),
		oneLine(e.Detail))
}

// ParseLine is the inverse of Entry.String. Times are read in loc.
func ParseLine(line string, loc *time.Location) (Entry, error) {
	if len(line) < len(TimeLayout)+3 {
		return Entry{}, ErrMalformedLine
	}

	ts, err := time.ParseInLocation(TimeLayout, line[:len(TimeLayout)], loc)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: %v", ErrMalformedLine, err)
	}

	rest, ok := strings.CutPrefix(line[len(TimeLayout):], " - [")
	if !ok {
		return Entry{}, ErrMalformedLine
	}
	entity, rest, ok := strings.Cut(rest, "] ")
	if !ok {
		return Entry{}, ErrMalformedLine
	}
	action, detail, ok := strings.Cut(rest, ": ")
	if !ok {
		// An empty detail renders as "ACTION: ".
		action, ok = strings.CutSuffix(rest, ":")
		if !ok {
			return Entry{}, ErrMalformedLine
		}
	}

	return Entry{Time: ts, Entity: entity, Action: action, Detail: detail}, nil
}

func oneLine(s string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
}

// Sink stores entries.
type Sink interface {
	Write(ctx context.Context, e Entry) error
	// History returns up to limit entries, newest first. limit <= 0 means all.
	History(ctx context.Context, limit int) ([]Entry, error)
	Clear(ctx context.Context) error
	Close(ctx context.Context) error
}

// Entity kinds.
const (
	EntityCustomer = "CUSTOMER"
	EntityProduct  = "PRODUCT"
	EntityOrder    = "ORDER"
)

// Actions.
const (
	ActionCreate = "CREATE"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)
