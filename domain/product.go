package domain

import (
	"errors"
	"strconv"
)

// Category is one of the four snack kinds the statistics screens know about.
type Category string

const (
	CategorySnack    Category = "snack"
	CategoryBeverage Category = "beverage"
	CategoryCandy    Category = "candy_jelly"
	CategoryIceCream Category = "ice_cream"
)

// Categories lists the enumeration in display order.
var Categories = []Category{
	CategorySnack,
	CategoryBeverage,
	CategoryCandy,
	CategoryIceCream,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

var (
	MessageSuccessGetProducts = "products retrieved successfully"
	MessageSuccessSaveProduct = "product saved successfully"
	MessageSuccessUploadImage = "image uploaded successfully"

	MessageFailedGetProducts    = "failed to retrieve products"
	MessageFailedSaveProduct    = "failed to save product"
	MessageFailedUploadImage    = "failed to upload image"
	MessageFailedInvalidProduct = "invalid product"

	ErrProductNotFound = errors.New("product not found")
	ErrKeyAllocation   = errors.New("failed to generate unique ID for product")
	ErrInvalidKcal     = errors.New("kcal must be a non-negative whole number")
	ErrEmptyImage      = errors.New("image is empty")
)

type (
	// Product is a catalog record stored at products/<id>. Kcal is kept as
	// text the way the store holds it.
	Product struct {
		ID       string   `json:"id"`
		Name     string   `json:"name" validate:"required"`
		Category Category `json:"category" validate:"required,oneof=snack beverage candy_jelly ice_cream"`
		Kcal     string   `json:"kcal" validate:"required,kcal"`
		ImageURL string   `json:"imageurl"`
	}

	SaveProductRequest struct {
		Name     string `json:"name" validate:"required"`
		Category string `json:"category" validate:"required,oneof=snack beverage candy_jelly ice_cream"`
		Kcal     string `json:"kcal" validate:"required,kcal"`
		ImageURL string `json:"imageurl" validate:"omitempty,url"`
	}

	UploadImageResponse struct {
		ImageURL string `json:"image_url"`
	}
)

func (r SaveProductRequest) Product() Product {
	return Product{
		Name:     r.Name,
		Category: Category(r.Category),
		Kcal:     r.Kcal,
		ImageURL: r.ImageURL,
	}
}

// ParseKcal reads a kcal text value. Empty text counts as zero.
func ParseKcal(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, ErrInvalidKcal
	}
	return n, nil
}

// UploadState is the outcome of the most recent image upload. The zero value
// means nothing has been uploaded yet.
type UploadState struct {
	URL string
	Err error
}

func (u UploadState) Done() bool {
	return u.URL != "" || u.Err != nil
}
