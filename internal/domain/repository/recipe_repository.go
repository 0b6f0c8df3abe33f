package repository

import "github.com/jhoicas/pos-engine/internal/domain/entity"

// RecipeRepository define el puerto de lectura para recetas.
type RecipeRepository interface {
	ListByProduct(productID string) ([]*entity.Recipe, error)
}
