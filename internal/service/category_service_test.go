package service

import (
	"errors"
	"testing"

	"github.com/akhand08/adibFin/internal/domain"
	"github.com/akhand08/adibFin/internal/testutil"
	"github.com/google/uuid"
)

func TestCreateCategory_Success(t *testing.T) {
	categoryRepo := testutil.NewMockCategoryRepository()
	svc := NewCategoryService(categoryRepo)
	ownerID := uuid.New()

	category, err := svc.CreateCategory(ownerID, "  Groceries ", domain.TransactionTypeExpense)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if category.Name != "Groceries" {
		t.Errorf("Expected trimmed name 'Groceries', got %q", category.Name)
	}
	if category.IsSystem {
		t.Error("User-created categories must not be system categories")
	}
	if category.OwnerID != ownerID {
		t.Errorf("Expected owner %s, got %s", ownerID, category.OwnerID)
	}
}

func TestCreateCategory_EmptyName(t *testing.T) {
	svc := NewCategoryService(testutil.NewMockCategoryRepository())

	_, err := svc.CreateCategory(uuid.New(), "   ", domain.TransactionTypeExpense)
	if !errors.Is(err, domain.ErrNameRequired) {
		t.Errorf("Expected ErrNameRequired, got %v", err)
	}
}

func TestCreateCategory_InvalidType(t *testing.T) {
	svc := NewCategoryService(testutil.NewMockCategoryRepository())

	_, err := svc.CreateCategory(uuid.New(), "Misc", domain.TransactionType("transfer"))
	if !errors.Is(err, domain.ErrInvalidType) {
		t.Errorf("Expected ErrInvalidType, got %v", err)
	}
}

func TestGetCategories_SystemFirstThenName(t *testing.T) {
	categoryRepo := testutil.NewMockCategoryRepository()
	svc := NewCategoryService(categoryRepo)
	ownerID := uuid.New()

	categoryRepo.AddCategory(&domain.Category{OwnerID: ownerID, Name: "Zoo trips", Type: domain.TransactionTypeExpense})
	categoryRepo.AddCategory(&domain.Category{OwnerID: ownerID, Name: "Groceries", Type: domain.TransactionTypeExpense})
	categoryRepo.AddCategory(&domain.Category{Name: "Utilities", Type: domain.TransactionTypeExpense, IsSystem: true})
	categoryRepo.AddCategory(&domain.Category{OwnerID: uuid.New(), Name: "Hidden", Type: domain.TransactionTypeExpense})

	categories, err := svc.GetCategories(ownerID, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(categories) != 3 {
		t.Fatalf("Expected 3 visible categories, got %d", len(categories))
	}
	if !categories[0].IsSystem {
		t.Errorf("Expected system category first, got %q", categories[0].Name)
	}
	if categories[1].Name != "Groceries" || categories[2].Name != "Zoo trips" {
		t.Errorf("Expected name-ascending order, got %q, %q", categories[1].Name, categories[2].Name)
	}
}

func TestGetCategories_TypeFilter(t *testing.T) {
	categoryRepo := testutil.NewMockCategoryRepository()
	svc := NewCategoryService(categoryRepo)
	ownerID := uuid.New()

	categoryRepo.AddCategory(&domain.Category{OwnerID: ownerID, Name: "Groceries", Type: domain.TransactionTypeExpense})
	categoryRepo.AddCategory(&domain.Category{OwnerID: ownerID, Name: "Salary", Type: domain.TransactionTypeIncome})

	income := domain.TransactionTypeIncome
	categories, err := svc.GetCategories(ownerID, &income)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(categories) != 1 || categories[0].Name != "Salary" {
		t.Errorf("Expected only the income category, got %d", len(categories))
	}
}

func TestDeleteCategory_InUse(t *testing.T) {
	categoryRepo := testutil.NewMockCategoryRepository()
	svc := NewCategoryService(categoryRepo)
	ownerID := uuid.New()

	category := categoryRepo.AddCategory(&domain.Category{
		OwnerID: ownerID,
		Name:    "Groceries",
		Type:    domain.TransactionTypeExpense,
	})
	categoryRepo.Counts[category.ID] = 1

	if err := svc.DeleteCategory(ownerID, category.ID); !errors.Is(err, domain.ErrCategoryInUse) {
		t.Errorf("Expected ErrCategoryInUse, got %v", err)
	}
}

func TestDeleteCategory_Unreferenced(t *testing.T) {
	categoryRepo := testutil.NewMockCategoryRepository()
	svc := NewCategoryService(categoryRepo)
	ownerID := uuid.New()

	category := categoryRepo.AddCategory(&domain.Category{
		OwnerID: ownerID,
		Name:    "Groceries",
		Type:    domain.TransactionTypeExpense,
	})

	if err := svc.DeleteCategory(ownerID, category.ID); err != nil {
		t.Fatalf("Expected delete to succeed, got %v", err)
	}
	if len(categoryRepo.Categories) != 0 {
		t.Error("Expected category to be removed")
	}
}

func TestDeleteCategory_NotOwned(t *testing.T) {
	categoryRepo := testutil.NewMockCategoryRepository()
	svc := NewCategoryService(categoryRepo)

	category := categoryRepo.AddCategory(&domain.Category{
		OwnerID: uuid.New(),
		Name:    "Groceries",
		Type:    domain.TransactionTypeExpense,
	})

	if err := svc.DeleteCategory(uuid.New(), category.ID); !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Errorf("Expected ErrCategoryNotFound, got %v", err)
	}
}

func TestDeleteCategory_SystemProtected(t *testing.T) {
	categoryRepo := testutil.NewMockCategoryRepository()
	svc := NewCategoryService(categoryRepo)
	ownerID := uuid.New()

	// A system category that happens to carry an owner still refuses delete.
	category := categoryRepo.AddCategory(&domain.Category{
		OwnerID:  ownerID,
		Name:     "Utilities",
		Type:     domain.TransactionTypeExpense,
		IsSystem: true,
	})

	if err := svc.DeleteCategory(ownerID, category.ID); !errors.Is(err, domain.ErrSystemCategory) {
		t.Errorf("Expected ErrSystemCategory, got %v", err)
	}
}
