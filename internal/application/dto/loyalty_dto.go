package dto

// RedeemPointsRequest canje de puntos de un cliente.
type RedeemPointsRequest struct {
	Points      int64  `json:"points"`
	Description string `json:"description"`
}

// PointsEntryResponse una fila del ledger de puntos.
type PointsEntryResponse struct {
	ID           string `json:"id"`
	OrderID      string `json:"order_id,omitempty"`
	PointsChange int64  `json:"points_change"`
	Description  string `json:"description"`
	CreatedAt    string `json:"created_at"`
}

// PointsBalanceResponse saldo cacheado más movimientos recientes.
type PointsBalanceResponse struct {
	CustomerID string                `json:"customer_id"`
	Points     int64                 `json:"points"`
	Entries    []PointsEntryResponse `json:"entries"`
}

// ReconcileResponse resultado de la reconciliación del saldo cacheado.
type ReconcileResponse struct {
	CustomerID   string `json:"customer_id"`
	CachedBefore int64  `json:"cached_before"`
	Recomputed   int64  `json:"recomputed"`
	Adjusted     bool   `json:"adjusted"`
}
