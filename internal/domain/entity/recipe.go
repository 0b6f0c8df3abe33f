package entity

import "github.com/shopspring/decimal"

// Recipe vincula un producto con una materia prima y la cantidad que consume
// cada unidad vendida. Un producto con una o más filas de receta es recipe-backed.
type Recipe struct {
	ProductID     string
	RawMaterialID string
	QuantityUsed  decimal.Decimal
}
