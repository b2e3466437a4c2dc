package entity

import "time"

// Estados del ciclo de vida de un movimiento: pending -> completed (terminal).
const (
	MovementPending   = "pending"
	MovementCompleted = "completed"
)

// MovementLine línea de un movimiento: producto y cantidad (> 0).
type MovementLine struct {
	ID        string
	ProductID string
	Quantity  int
}

// StockIn entrada de mercancía hacia la bodega central o hacia una tienda.
type StockIn struct {
	ID              string
	TransactionCode string // único entre las entradas
	Date            time.Time
	Status          string
	ToWarehouse     bool
	StoreID         string // destino; requerido cuando ToWarehouse es false
	Lines           []MovementLine
	PerformedBy     string // usuario que crea y luego verifica
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Destination ubicación destino de la entrada.
func (m *StockIn) Destination() Location {
	if m.ToWarehouse {
		return Warehouse()
	}
	return AtStore(m.StoreID)
}

// StockOut salida de mercancía desde una tienda hacia fuera del sistema.
type StockOut struct {
	ID              string
	TransactionCode string // único entre las salidas
	Date            time.Time
	Status          string
	StoreID         string // origen (siempre tienda)
	Lines           []MovementLine
	PerformedBy     string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Source ubicación origen de la salida.
func (m *StockOut) Source() Location { return AtStore(m.StoreID) }

// StockMutation traslado entre ubicaciones: bodega -> tienda o tienda -> tienda.
// El destino siempre es una tienda.
type StockMutation struct {
	ID              string
	TransactionCode string // único entre los traslados
	Date            time.Time
	Status          string
	FromWarehouse   bool
	FromStoreID     string // requerido cuando FromWarehouse es false
	ToStoreID       string
	Lines           []MovementLine
	PerformedBy     string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Source ubicación origen del traslado.
func (m *StockMutation) Source() Location {
	if m.FromWarehouse {
		return Warehouse()
	}
	return AtStore(m.FromStoreID)
}

// Destination ubicación destino del traslado.
func (m *StockMutation) Destination() Location { return AtStore(m.ToStoreID) }
