package orders

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-engine/internal/domain"
	"github.com/jhoicas/pos-engine/internal/domain/repository"
)

// ResourceDemand es el requerimiento agregado de un recurso a través de todas
// las líneas de una orden.
type ResourceDemand struct {
	ResourceID   string
	ResourceKind string
	Required     decimal.Decimal
}

// AggregateRequirements suma los requerimientos por recurso (un mismo producto
// o materia prima puede aparecer en varias líneas) y devuelve la demanda
// ordenada por id ascendente. El mismo orden se usa para bloquear y para
// mutar, eliminando deadlocks por orden de bloqueo entre órdenes concurrentes.
func AggregateRequirements(lines []*ResolvedLine) []ResourceDemand {
	byID := make(map[string]*ResourceDemand)
	for _, line := range lines {
		for _, req := range line.Requirements {
			if d, ok := byID[req.ResourceID]; ok {
				d.Required = d.Required.Add(req.Quantity)
				continue
			}
			byID[req.ResourceID] = &ResourceDemand{
				ResourceID:   req.ResourceID,
				ResourceKind: req.ResourceKind,
				Required:     req.Quantity,
			}
		}
	}
	demands := make([]ResourceDemand, 0, len(byID))
	for _, d := range byID {
		demands = append(demands, *d)
	}
	sort.Slice(demands, func(i, j int) bool {
		return demands[i].ResourceID < demands[j].ResourceID
	})
	return demands
}

// ValidateAvailability verifica la suficiencia agregada de cada recurso de la
// orden bajo lectura con bloqueo (SELECT FOR UPDATE), antes de cualquier
// mutación. Los bloqueos quedan retenidos hasta el fin de la transacción del
// caller: la cantidad leída es la vigente, no un snapshot previo.
// Al primer faltante retorna *domain.StockShortageError y no evalúa el resto.
func ValidateAvailability(
	productRepo repository.ProductRepository,
	materialRepo repository.RawMaterialRepository,
	lines []*ResolvedLine,
) error {
	for _, d := range AggregateRequirements(lines) {
		switch d.ResourceKind {
		case domain.ResourceKindProduct:
			p, err := productRepo.GetForUpdate(d.ResourceID)
			if err != nil {
				return err
			}
			if p == nil {
				return domain.ErrNotFound
			}
			if p.Stock.LessThan(d.Required) {
				return &domain.StockShortageError{
					ResourceKind: domain.ResourceKindProduct,
					ResourceName: p.Name,
					Required:     d.Required,
					Available:    p.Stock,
				}
			}
		case domain.ResourceKindRawMaterial:
			m, err := materialRepo.GetForUpdate(d.ResourceID)
			if err != nil {
				return err
			}
			if m == nil {
				return domain.ErrNotFound
			}
			if m.StockQuantity.LessThan(d.Required) {
				return &domain.StockShortageError{
					ResourceKind: domain.ResourceKindRawMaterial,
					ResourceName: m.Name,
					Required:     d.Required,
					Available:    m.StockQuantity,
				}
			}
		default:
			return domain.ErrInvalidInput
		}
	}
	return nil
}
