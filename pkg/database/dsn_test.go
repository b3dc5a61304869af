package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithForeignKeys(t *testing.T) {
	cases := map[string]string{
		"orderdesk.db":                       "file:orderdesk.db?_foreign_keys=1",
		"file:orderdesk.db?cache=shared":     "file:orderdesk.db?cache=shared&_foreign_keys=1",
		"file:orderdesk.db?_foreign_keys=0":  "file:orderdesk.db?_foreign_keys=0",
		"file::memory:?_fk=1":                "file::memory:?_fk=1",
		"file:/var/lib/orderdesk/orders.db": "file:/var/lib/orderdesk/orders.db?_foreign_keys=1",
	}
	for in, want := range cases {
		assert.Equal(t, want, withForeignKeys(in), in)
	}
}
