package orders

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-engine/internal/domain"
	"github.com/jhoicas/pos-engine/internal/domain/entity"
	"github.com/jhoicas/pos-engine/internal/domain/repository"
)

// Requirement es la cantidad de un recurso (producto o materia prima) que una
// línea de venta necesita consumir.
type Requirement struct {
	ResourceID   string
	ResourceKind string // domain.ResourceKindProduct | domain.ResourceKindRawMaterial
	Quantity     decimal.Decimal
}

// ResolvedLine es una línea de venta clasificada: recipe-backed o stock-backed,
// con sus requerimientos ya expandidos y el precio/costo congelados de la
// variante. Se calcula una sola vez y se arrastra por todo el pipeline.
type ResolvedLine struct {
	VariantID    string
	VariantName  string
	ProductID    string
	Kind         string // entity.ItemKindStockBacked | entity.ItemKindRecipeBacked
	Quantity     decimal.Decimal
	UnitPrice    decimal.Decimal
	UnitCost     decimal.Decimal
	Requirements []Requirement
}

// Resolver clasifica una variante vendible y computa sus requerimientos de
// recursos para una cantidad solicitada. Lectura pura, sin efectos.
type Resolver struct {
	variantRepo repository.VariantRepository
	productRepo repository.ProductRepository
	recipeRepo  repository.RecipeRepository
}

// NewResolver construye el resolver.
func NewResolver(
	variantRepo repository.VariantRepository,
	productRepo repository.ProductRepository,
	recipeRepo repository.RecipeRepository,
) *Resolver {
	return &Resolver{
		variantRepo: variantRepo,
		productRepo: productRepo,
		recipeRepo:  recipeRepo,
	}
}

// Resolve clasifica la variante según tenga o no receta:
//   - con receta: requirements = [(materia prima, quantity_used × qty), ...]
//   - sin receta: requirements = [(producto, qty)]
func (r *Resolver) Resolve(businessID, variantID string, qty decimal.Decimal) (*ResolvedLine, error) {
	if !qty.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	variant, err := r.variantRepo.GetByID(variantID)
	if err != nil {
		return nil, err
	}
	if variant == nil {
		return nil, domain.ErrNotFound
	}
	product, err := r.productRepo.GetByID(variant.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.BusinessID != businessID {
		return nil, domain.ErrForbidden
	}

	line := &ResolvedLine{
		VariantID:   variant.ID,
		VariantName: variant.Name,
		ProductID:   product.ID,
		Quantity:    qty,
		UnitPrice:   variant.Price,
		UnitCost:    variant.Cost,
	}

	recipes, err := r.recipeRepo.ListByProduct(product.ID)
	if err != nil {
		return nil, err
	}
	if len(recipes) > 0 {
		line.Kind = entity.ItemKindRecipeBacked
		line.Requirements = make([]Requirement, 0, len(recipes))
		for _, rec := range recipes {
			line.Requirements = append(line.Requirements, Requirement{
				ResourceID:   rec.RawMaterialID,
				ResourceKind: domain.ResourceKindRawMaterial,
				Quantity:     rec.QuantityUsed.Mul(qty),
			})
		}
		return line, nil
	}

	line.Kind = entity.ItemKindStockBacked
	line.Requirements = []Requirement{{
		ResourceID:   product.ID,
		ResourceKind: domain.ResourceKindProduct,
		Quantity:     qty,
	}}
	return line, nil
}
