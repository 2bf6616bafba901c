package service

import (
	"strings"

	"github.com/akhand08/adibFin/internal/domain"
	"github.com/akhand08/adibFin/internal/websocket"
	"github.com/google/uuid"
)

// CategoryService handles the category directory: user-owned categories plus
// shared system categories readable by everyone.
type CategoryService struct {
	categoryRepo   domain.CategoryRepository
	eventPublisher websocket.EventPublisher
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo domain.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *CategoryService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *CategoryService) publishEvent(ownerID uuid.UUID, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(ownerID, event)
	}
}

// GetCategories returns the categories visible to the user, system first,
// then name ascending. A non-nil txType filters by type.
func (s *CategoryService) GetCategories(ownerID uuid.UUID, txType *domain.TransactionType) ([]*domain.Category, error) {
	return s.categoryRepo.ListVisible(ownerID, txType)
}

// CreateCategory creates a non-system category owned by the user
func (s *CategoryService) CreateCategory(ownerID uuid.UUID, name string, txType domain.TransactionType) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}
	if txType != domain.TransactionTypeIncome && txType != domain.TransactionTypeExpense {
		return nil, domain.ErrInvalidType
	}

	category, err := s.categoryRepo.Create(&domain.Category{
		OwnerID:  ownerID,
		Name:     name,
		Type:     txType,
		IsSystem: false,
	})
	if err != nil {
		return nil, err
	}
	s.publishEvent(ownerID, websocket.CategoryCreated(category))
	return category, nil
}

// DeleteCategory removes an owned, non-system category with no referencing
// transactions.
func (s *CategoryService) DeleteCategory(ownerID, categoryID uuid.UUID) error {
	category, err := s.categoryRepo.GetOwned(ownerID, categoryID)
	if err != nil {
		return domain.ErrCategoryNotFound
	}
	if category.IsSystem {
		return domain.ErrSystemCategory
	}

	count, err := s.categoryRepo.CountTransactions(categoryID)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrCategoryInUse
	}

	if err := s.categoryRepo.Delete(categoryID); err != nil {
		return err
	}
	s.publishEvent(ownerID, websocket.CategoryDeleted(map[string]interface{}{"id": categoryID}))
	return nil
}
