package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/trayflow/internal/domain"
	"github.com/alexanderramin/trayflow/internal/repository"
	"github.com/google/uuid"
)

type customerService struct {
	customers repository.CustomerRepo
}

func NewCustomerService(customers repository.CustomerRepo) CustomerService {
	return &customerService{customers: customers}
}

func (s *customerService) Create(ctx context.Context, c *domain.Customer) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return fmt.Errorf("%w: customer name is required", domain.ErrInvalidInput)
	}
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	c.CreatedAt = time.Now().UTC()
	return s.customers.Create(ctx, c)
}

func (s *customerService) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	return s.customers.GetByID(ctx, id)
}

func (s *customerService) List(ctx context.Context, farmID string) ([]*domain.Customer, error) {
	return s.customers.List(ctx, farmID)
}

type productService struct {
	products repository.ProductRepo
	recipes  repository.RecipeRepo
}

func NewProductService(products repository.ProductRepo, recipes repository.RecipeRepo) ProductService {
	return &productService{products: products, recipes: recipes}
}

func (s *productService) Create(ctx context.Context, p *domain.Product) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return fmt.Errorf("%w: product name is required", domain.ErrInvalidInput)
	}
	if p.RecipeID != nil {
		if err := s.checkRecipe(ctx, p.FarmID, *p.RecipeID); err != nil {
			return err
		}
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	p.CreatedAt = time.Now().UTC()
	return s.products.Create(ctx, p)
}

func (s *productService) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

func (s *productService) List(ctx context.Context, farmID string) ([]*domain.Product, error) {
	return s.products.List(ctx, farmID)
}

func (s *productService) LinkRecipe(ctx context.Context, productID string, recipeID *string) error {
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if recipeID != nil {
		if err := s.checkRecipe(ctx, p.FarmID, *recipeID); err != nil {
			return err
		}
	}
	return s.products.SetRecipe(ctx, productID, recipeID)
}

func (s *productService) checkRecipe(ctx context.Context, farmID, recipeID string) error {
	r, err := s.recipes.GetByID(ctx, recipeID)
	if err != nil {
		return err
	}
	if r.FarmID != farmID {
		return fmt.Errorf("%w: recipe %s belongs to another farm", domain.ErrInvalidInput, recipeID)
	}
	return nil
}

type orderService struct {
	orders    repository.StandingOrderRepo
	customers repository.CustomerRepo
	products  repository.ProductRepo
}

func NewOrderService(orders repository.StandingOrderRepo, customers repository.CustomerRepo, products repository.ProductRepo) OrderService {
	return &orderService{orders: orders, customers: customers, products: products}
}

func (s *orderService) Create(ctx context.Context, o *domain.StandingOrder) error {
	o.StartDate = domain.DateOf(o.StartDate)
	if o.EndDate != nil {
		end := domain.DateOf(*o.EndDate)
		o.EndDate = &end
	}
	if err := o.Validate(); err != nil {
		return err
	}
	c, err := s.customers.GetByID(ctx, o.CustomerID)
	if err != nil {
		return err
	}
	p, err := s.products.GetByID(ctx, o.ProductID)
	if err != nil {
		return err
	}
	if c.FarmID != o.FarmID || p.FarmID != o.FarmID {
		return fmt.Errorf("%w: customer and product must belong to farm %s", domain.ErrInvalidInput, o.FarmID)
	}
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	o.CreatedAt = time.Now().UTC()
	return s.orders.Create(ctx, o)
}

func (s *orderService) GetByID(ctx context.Context, id string) (*domain.StandingOrder, error) {
	return s.orders.GetByID(ctx, id)
}

func (s *orderService) List(ctx context.Context, farmID string) ([]*domain.StandingOrder, error) {
	return s.orders.List(ctx, farmID)
}

// End stops an order after the given date. Requests it already produced
// are left alone.
func (s *orderService) End(ctx context.Context, id string, end time.Time) error {
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return err
	}
	end = domain.DateOf(end)
	if end.Before(o.StartDate) {
		return fmt.Errorf("%w: end date %s is before start date %s",
			domain.ErrInvalidInput, domain.FormatDate(end), domain.FormatDate(o.StartDate))
	}
	return s.orders.SetEndDate(ctx, id, &end)
}

func (s *orderService) Delete(ctx context.Context, id string) error {
	if _, err := s.orders.GetByID(ctx, id); err != nil {
		return err
	}
	return s.orders.Delete(ctx, id)
}
