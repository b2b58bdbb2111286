package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gabrielcmoraru/react-shop-advanced/internal/events"
	"github.com/gabrielcmoraru/react-shop-advanced/internal/models"
	"github.com/gabrielcmoraru/react-shop-advanced/internal/permission"
	"github.com/gabrielcmoraru/react-shop-advanced/internal/repository"
	"github.com/gabrielcmoraru/react-shop-advanced/internal/search"
	"github.com/gabrielcmoraru/react-shop-advanced/internal/util"
)

type ItemService struct {
	Items    ItemStore
	Producer *events.Producer
	Search   *search.Index
}

type ItemInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	LargeImage  string `json:"large_image"`
	Price       int64  `json:"price"`
}

func (in ItemInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("title is required: %w", ErrValidation)
	}
	if in.Price <= 0 {
		return fmt.Errorf("price must be positive: %w", ErrValidation)
	}
	return nil
}

func (s *ItemService) CreateItem(ctx context.Context, user *models.User, in ItemInput) (*models.Item, error) {
	if user == nil {
		return nil, ErrUnauthenticated
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	item := &models.Item{
		Title:       in.Title,
		Description: in.Description,
		Image:       in.Image,
		LargeImage:  in.LargeImage,
		Price:       in.Price,
		UserID:      user.ID,
	}
	if err := s.Items.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	s.Search.IndexItem(ctx, *item)
	s.Producer.Publish(ctx, strconv.FormatUint(uint64(user.ID), 10), map[string]any{
		"type":    "item_created",
		"item_id": item.ID,
		"user_id": user.ID,
		"title":   item.Title,
		"price":   item.Price,
	})
	return item, nil
}

// UpdateItem edits an item. The seller may edit their own listing; anyone
// else needs the ADMIN or ITEMUPDATE tag.
func (s *ItemService) UpdateItem(ctx context.Context, user *models.User, id uint, in ItemInput) (*models.Item, error) {
	if user == nil {
		return nil, ErrUnauthenticated
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	item, err := s.Items.FindItem(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("item %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	if item.UserID != user.ID && !user.Permissions.HasAny(permission.Admin, permission.ItemUpdate) {
		return nil, fmt.Errorf("you don't own item %d: %w", id, ErrForbidden)
	}

	item.Title = in.Title
	item.Description = in.Description
	item.Image = in.Image
	item.LargeImage = in.LargeImage
	item.Price = in.Price
	if err := s.Items.UpdateItem(ctx, item); err != nil {
		return nil, err
	}

	s.Search.IndexItem(ctx, *item)
	s.Producer.Publish(ctx, strconv.FormatUint(uint64(user.ID), 10), map[string]any{
		"type":    "item_updated",
		"item_id": item.ID,
		"user_id": user.ID,
	})
	return item, nil
}

// DeleteItem removes a listing. The owner may always delete; non-owners need
// the ADMIN or ITEMDELETE tag.
func (s *ItemService) DeleteItem(ctx context.Context, user *models.User, id uint) error {
	if user == nil {
		return ErrUnauthenticated
	}

	item, err := s.Items.FindItem(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("item %d: %w", id, ErrNotFound)
		}
		return err
	}
	if item.UserID != user.ID && !user.Permissions.HasAny(permission.Admin, permission.ItemDelete) {
		return fmt.Errorf("you don't have permission to delete item %d: %w", id, ErrForbidden)
	}

	if err := s.Items.DeleteItem(ctx, id); err != nil {
		return err
	}

	s.Search.RemoveItem(ctx, id)
	s.Producer.Publish(ctx, strconv.FormatUint(uint64(user.ID), 10), map[string]any{
		"type":    "item_deleted",
		"item_id": id,
		"user_id": user.ID,
	})
	return nil
}

func (s *ItemService) GetItem(ctx context.Context, id uint) (*models.Item, error) {
	item, err := s.Items.FindItem(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("item %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return item, nil
}

type ItemPage struct {
	Items []models.Item `json:"items"`
	Page  int           `json:"page"`
	Size  int           `json:"size"`
	Total int64         `json:"total"`
}

func (s *ItemService) ListItems(ctx context.Context, page, size int) (ItemPage, error) {
	offset, limit := util.Calculate(page, size)
	items, total, err := s.Items.ListItems(ctx, offset, limit)
	if err != nil {
		return ItemPage{}, err
	}
	if page < 1 {
		page = 1
	}
	return ItemPage{Items: items, Page: page, Size: limit, Total: total}, nil
}

// SearchItems queries the search index over title and description.
func (s *ItemService) SearchItems(ctx context.Context, query string, page, size int) (ItemPage, error) {
	if strings.TrimSpace(query) == "" {
		return ItemPage{}, fmt.Errorf("query is required: %w", ErrValidation)
	}
	offset, limit := util.Calculate(page, size)
	total, items, err := s.Search.Search(ctx, query, offset, limit)
	if err != nil {
		return ItemPage{}, err
	}
	if page < 1 {
		page = 1
	}
	return ItemPage{Items: items, Page: page, Size: limit, Total: total}, nil
}
