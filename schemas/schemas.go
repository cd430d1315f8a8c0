// Package schemas validates the shape of static and mock records: products,
// categories, orders, cart lines and user profiles.
package schemas

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"freshcart/models"
)

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
	})
	return validate
}

// ValidationError lists every failed field of one record.
type ValidationError struct {
	Record string
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Record, strings.Join(e.Fields, ", "))
}

func check(record string, v any) error {
	return describe(record, instance().Struct(v))
}

func describe(record string, err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate %s: %w", record, err)
	}
	ve := &ValidationError{Record: record}
	for _, fe := range verrs {
		ve.Fields = append(ve.Fields, fmt.Sprintf("%s(%s)", fe.Namespace(), fe.Tag()))
	}
	return ve
}

func Product(p models.Product) error { return check("product "+p.ID, p) }

func Category(c models.Category) error { return check("category "+c.ID, c) }

func Order(o models.OrderDetails) error { return check("order "+o.ID, o) }

func CartItem(c models.CartItem) error { return check("cart item "+c.Product.ID, c) }

// CartLine checks only what a stored cart line needs to be usable: a product
// id and a positive quantity. The product snapshot is taken as written.
func CartLine(c models.CartItem) error {
	return describe("cart line "+c.Product.ID, instance().StructPartial(c, "Quantity", "Product.ID"))
}

func UserProfile(u models.UserProfile) error { return check("profile "+u.ID, u) }
