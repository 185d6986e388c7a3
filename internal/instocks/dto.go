package instocks

import (
	"strings"
	"time"

	"github.com/angelmondragon/autosallon-backend/pkg/db/models"
	"github.com/angelmondragon/autosallon-backend/pkg/imagelist"
	"github.com/google/uuid"
)

// ItemInput is the admin create/update payload.
type ItemInput struct {
	Name        string          `json:"name" validate:"required,notblank,max=255"`
	Description *string         `json:"description" validate:"omitempty,max=5000"`
	Price       *int            `json:"price" validate:"omitempty,min=0"`
	Images      *imagelist.List `json:"images"`
}

func (in ItemInput) normalize() ItemInput {
	in.Name = strings.TrimSpace(in.Name)
	if in.Description != nil {
		trimmed := strings.TrimSpace(*in.Description)
		if trimmed == "" {
			in.Description = nil
		} else {
			in.Description = &trimmed
		}
	}
	return in
}

func (in ItemInput) apply(item *models.InStockItem) {
	item.Name = in.Name
	item.Description = in.Description
	item.Price = in.Price
	if in.Images != nil {
		item.Images = imagelist.Clean(*in.Images)
	}
}

// ItemView is the representation shared by the admin and public pages.
type ItemView struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Price       *int      `json:"price,omitempty"`
	Images      []string  `json:"images"`
	MainImage   string    `json:"main_image"`
	ImagesText  string    `json:"images_text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewItemView maps a persisted item.
func NewItemView(item models.InStockItem, placeholder string) ItemView {
	images := imagelist.Clean(item.Images)
	return ItemView{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Price:       item.Price,
		Images:      images,
		MainImage:   imagelist.Main(images, placeholder),
		ImagesText:  imagelist.Join(images),
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}

// ListResult is one admin page of items.
type ListResult struct {
	Items    []ItemView `json:"items"`
	Total    int64      `json:"total"`
	Page     int        `json:"page"`
	PerPage  int        `json:"per_page"`
	LastPage int        `json:"last_page"`
}
