package validate_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/orderdesk/pkg/validate"
)

type customerInput struct {
	Name  string  `json:"name"  validate:"required,max=255"`
	Email *string `json:"email" validate:"nullable,email"`
	Phone *string `json:"phone" validate:"nullable,phone"`
}

type lineInput struct {
	ProductID   *uint           `json:"product_id"`
	ProductName string          `json:"product_name" validate:"required"`
	Quantity    int             `json:"quantity"     validate:"required,gt=0"`
	UnitPrice   decimal.Decimal `json:"unit_price"   validate:"gt=0"`
}

type orderInput struct {
	CustomerID uint        `json:"customer_id" validate:"required"`
	Date       string      `json:"date"        validate:"required,date"`
	Lines      []lineInput `json:"lines"       validate:"required,dive"`
}

func ptr[T any](v T) *T { return &v }

func TestValidCustomer(t *testing.T) {
	errs := validate.Struct(customerInput{Name: "Ana", Email: ptr("ana@example.com"), Phone: ptr("(11) 98765-4321")})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}

	errs = validate.Struct(&customerInput{Name: "Ana"})
	if validate.HasErrors(errs) {
		t.Errorf("nil optional fields must pass, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(customerInput{Name: "   "})
	if _, ok := errs["name"]; !ok {
		t.Error("expected blank name to be rejected")
	}
}

func TestEmailRule(t *testing.T) {
	errs := validate.Struct(customerInput{Name: "Ana", Email: ptr("not-an-email")})
	if _, ok := errs["email"]; !ok {
		t.Error("expected email validation error")
	}
}

func TestPhoneRule(t *testing.T) {
	cases := map[string]bool{
		"1234567":            false,
		"12345678":           true,
		"+55 (11) 9876-5432": true,
		"1234567890123456":   false,
	}
	for phone, ok := range cases {
		errs := validate.Struct(customerInput{Name: "Ana", Phone: ptr(phone)})
		_, failed := errs["phone"]
		if failed == ok {
			t.Errorf("phone %q: expected ok=%v, got errs=%v", phone, ok, errs)
		}
	}
}

func TestDateRuleIsStrict(t *testing.T) {
	for _, d := range []string{"2024-03-01", "2024-02-29"} {
		errs := validate.Struct(orderInput{CustomerID: 1, Date: d, Lines: []lineInput{{ProductName: "x", Quantity: 1, UnitPrice: decimal.NewFromInt(1)}}})
		if validate.HasErrors(errs) {
			t.Errorf("%s: unexpected errors %v", d, errs)
		}
	}
	for _, d := range []string{"01/03/2024", "2024-3-1", "2023-02-29", "2024-03-01T00:00:00Z"} {
		errs := validate.Struct(orderInput{CustomerID: 1, Date: d, Lines: []lineInput{{ProductName: "x", Quantity: 1, UnitPrice: decimal.NewFromInt(1)}}})
		if _, ok := errs["date"]; !ok {
			t.Errorf("%s: expected date error", d)
		}
	}
}

func TestDiveReportsElementErrors(t *testing.T) {
	errs := validate.Struct(orderInput{
		CustomerID: 1,
		Date:       "2024-03-01",
		Lines: []lineInput{
			{ProductName: "ok", Quantity: 1, UnitPrice: decimal.RequireFromString("10.00")},
			{ProductName: "bad", Quantity: -2, UnitPrice: decimal.Zero},
		},
	})

	if _, ok := errs["lines.1.quantity"]; !ok {
		t.Errorf("expected lines.1.quantity error, got %v", errs)
	}
	if _, ok := errs["lines.1.unit_price"]; !ok {
		t.Errorf("expected lines.1.unit_price error, got %v", errs)
	}
	if _, ok := errs["lines.0.quantity"]; ok {
		t.Errorf("line 0 is valid, got %v", errs)
	}
}

func TestEmptyLinesRequired(t *testing.T) {
	errs := validate.Struct(orderInput{CustomerID: 1, Date: "2024-03-01"})
	if _, ok := errs["lines"]; !ok {
		t.Error("expected lines to be required")
	}
}

func TestInRule(t *testing.T) {
	type in struct {
		Disk string `json:"disk" validate:"required,in=local,s3,max=5"`
	}
	if errs := validate.Struct(in{Disk: "s3"}); validate.HasErrors(errs) {
		t.Errorf("expected s3 to be valid, got %v", errs)
	}
	if errs := validate.Struct(in{Disk: "ftp"}); !validate.HasErrors(errs) {
		t.Error("expected ftp to be rejected")
	}
}

func TestMinMaxOnNumbersAndStrings(t *testing.T) {
	type in struct {
		Stock int    `json:"stock" validate:"gte=0,max=1000"`
		Name  string `json:"name"  validate:"min=2"`
	}
	errs := validate.Struct(in{Stock: -1, Name: "a"})
	if _, ok := errs["stock"]; !ok {
		t.Error("expected stock error")
	}
	if _, ok := errs["name"]; !ok {
		t.Error("expected name error")
	}
	if errs := validate.Struct(in{Stock: 0, Name: "ab"}); validate.HasErrors(errs) {
		t.Errorf("unexpected errors %v", errs)
	}
}

func TestNullableSkipsBlankPointers(t *testing.T) {
	errs := validate.Struct(customerInput{Name: "Ana", Phone: ptr("   ")})
	if validate.HasErrors(errs) {
		t.Errorf("blank phone should be treated as absent, got %v", errs)
	}
}
