package models

// WeightOption is a size/weight variant of a product.
type WeightOption struct {
	Label         string  `json:"label" bson:"label" yaml:"label" validate:"required"`
	Value         string  `json:"value" bson:"value" yaml:"value" validate:"required"`
	PriceModifier float64 `json:"priceModifier" bson:"priceModifier" yaml:"priceModifier"` // -0.25 means 25% cheaper
}

// Product is immutable catalog reference data. SelectedWeight is only set on
// snapshots taken when a variant is chosen.
type Product struct {
	ID             string         `json:"id" bson:"id" yaml:"id" validate:"required"`
	Name           string         `json:"name" bson:"name" yaml:"name" validate:"required"`
	Price          float64        `json:"price" bson:"price" yaml:"price" validate:"gt=0"`
	Image          string         `json:"image" bson:"image" yaml:"image" validate:"required,url"`
	Category       string         `json:"category" bson:"category" yaml:"category" validate:"required"`
	Description    string         `json:"description" bson:"description" yaml:"description"`
	InStock        bool           `json:"inStock" bson:"inStock" yaml:"inStock"`
	Rating         float64        `json:"rating" bson:"rating" yaml:"rating" validate:"min=0,max=5"`
	Discount       float64        `json:"discount,omitempty" bson:"discount,omitempty" yaml:"discount" validate:"min=0,max=100"`
	IsNew          bool           `json:"isNew,omitempty" bson:"isNew,omitempty" yaml:"isNew"`
	IsFeatured     bool           `json:"isFeatured,omitempty" bson:"isFeatured,omitempty" yaml:"isFeatured"`
	WeightOptions  []WeightOption `json:"weightOptions,omitempty" bson:"weightOptions,omitempty" yaml:"weightOptions" validate:"omitempty,min=1,unique=Value,dive"`
	SelectedWeight string         `json:"selectedWeight,omitempty" bson:"selectedWeight,omitempty" yaml:"-"`
}

// FinalPrice is the unit price after the product discount.
func (p Product) FinalPrice() float64 {
	if p.Discount > 0 {
		return p.Price * (1 - p.Discount/100)
	}
	return p.Price
}

// Category groups products on the storefront.
type Category struct {
	ID    string `json:"id" bson:"id" yaml:"id" validate:"required"`
	Name  string `json:"name" bson:"name" yaml:"name" validate:"required"`
	Image string `json:"image" bson:"image" yaml:"image" validate:"required,url"`
}
