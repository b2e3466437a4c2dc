package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func newVerifyEnv() (*memState, *inventory.VerifyMovementUseCase, *recordingPublisher) {
	state := newMemState()
	pub := &recordingPublisher{}
	notifier := inventory.NewStockNotifier(&memStockRepo{s: state}, pub)
	uc := inventory.NewVerifyMovementUseCase(&fakeTxRunner{s: state}, notifier)
	return state, uc, pub
}

func seedProduct(state *memState, id, name string, threshold int) {
	state.products[id] = &entity.Product{ID: id, Name: name, Threshold: threshold}
}

func seedStore(state *memState, id, name string) {
	state.stores[id] = &entity.Store{ID: id, Name: name}
}

func seedStock(state *memState, loc entity.Location, productID string, qty, threshold int) {
	state.stocks[stockKey(loc, productID)] = &entity.Stock{
		ID:        "stock-" + loc.StoreID + "-" + productID,
		Location:  loc,
		ProductID: productID,
		Quantity:  qty,
		Status:    classifyFor(qty, threshold),
	}
}

func classifyFor(qty, threshold int) string {
	if qty <= 0 {
		return entity.StatusOutOfStock
	}
	if qty <= threshold {
		return entity.StatusLowStock
	}
	return entity.StatusAvailable
}

func quantityAt(state *memState, loc entity.Location, productID string) int {
	st, ok := state.stocks[stockKey(loc, productID)]
	if !ok {
		return -1
	}
	return st.Quantity
}

// ──────────────────────────────────────────────────────────────────────────────
// Entradas
// ──────────────────────────────────────────────────────────────────────────────

// Primera recepción en bodega: el saldo no existe y la verificación lo crea.
func TestVerifyStockIn_CreaSaldoEnBodega(t *testing.T) {
	state, uc, pub := newVerifyEnv()
	seedProduct(state, "p1", "Aceite", 5)
	state.stockIns["in1"] = &entity.StockIn{
		ID: "in1", TransactionCode: "IN-1", Status: entity.MovementPending,
		ToWarehouse: true,
		Lines:       []entity.MovementLine{{ID: "l1", ProductID: "p1", Quantity: 20}},
	}

	require.NoError(t, uc.VerifyStockIn(context.Background(), "in1", "user-1"))

	st := state.stocks[stockKey(entity.Warehouse(), "p1")]
	require.NotNil(t, st, "la verificación debe crear el saldo en bodega")
	assert.Equal(t, 20, st.Quantity)
	assert.Equal(t, entity.StatusAvailable, st.Status)
	assert.Equal(t, entity.MovementCompleted, state.stockIns["in1"].Status)
	assert.Equal(t, "user-1", state.stockIns["in1"].PerformedBy,
		"debe registrarse el usuario que verificó")
	assert.Len(t, pub.published, 1, "la verificación debe publicar exactamente un snapshot")
}

// Segunda verificación del mismo movimiento: error y cero efecto en saldos.
func TestVerifyStockIn_YaVerificadoNoDuplicaEfecto(t *testing.T) {
	state, uc, _ := newVerifyEnv()
	seedProduct(state, "p1", "Aceite", 5)
	state.stockIns["in1"] = &entity.StockIn{
		ID: "in1", TransactionCode: "IN-1", Status: entity.MovementPending,
		ToWarehouse: true,
		Lines:       []entity.MovementLine{{ID: "l1", ProductID: "p1", Quantity: 20}},
	}

	require.NoError(t, uc.VerifyStockIn(context.Background(), "in1", "user-1"))
	err := uc.VerifyStockIn(context.Background(), "in1", "user-2")

	assert.ErrorIs(t, err, domain.ErrAlreadyVerified)
	assert.Equal(t, 20, quantityAt(state, entity.Warehouse(), "p1"),
		"reintentar la verificación no debe volver a sumar")
	assert.Equal(t, "user-1", state.stockIns["in1"].PerformedBy,
		"el verificador original no debe sobrescribirse")
}

// Dos verificaciones concurrentes del mismo movimiento. Bajo READ COMMITTED la
// perdedora puede leer el movimiento todavía pending (su lectura ocurre antes del
// commit de la ganadora); el guard de estado en MarkCompleted debe detenerla y
// revertir sus deltas ya aplicados, dejando el saldo aplicado una sola vez.
func TestVerifyStockIn_CarreraDeVerificacionesNoDuplica(t *testing.T) {
	state, uc, _ := newVerifyEnv()
	seedProduct(state, "p1", "Aceite", 5)
	state.stockIns["in1"] = &entity.StockIn{
		ID: "in1", TransactionCode: "IN-1", Status: entity.MovementPending,
		ToWarehouse: true,
		Lines:       []entity.MovementLine{{ID: "l1", ProductID: "p1", Quantity: 20}},
	}

	// La ganadora verifica y confirma primero.
	require.NoError(t, uc.VerifyStockIn(context.Background(), "in1", "user-A"))
	require.Equal(t, 20, quantityAt(state, entity.Warehouse(), "p1"))

	// La perdedora arrancó antes de ese commit: su GetByID devuelve la copia
	// pending, así que pasa el chequeo de ya-verificado y aplica sus deltas.
	stale := *state.stockIns["in1"]
	stale.Status = entity.MovementPending
	stale.Lines = append([]entity.MovementLine(nil), state.stockIns["in1"].Lines...)
	runner := &fakeTxRunner{s: state}
	runner.makeRepos = func() inventory.Repos {
		repos := state.repos()
		repos.StockIn = &staleStockInRepo{memStockInRepo: memStockInRepo{s: state}, stale: &stale}
		return repos
	}
	loser := inventory.NewVerifyMovementUseCase(runner,
		inventory.NewStockNotifier(&memStockRepo{s: state}, nil))

	err := loser.VerifyStockIn(context.Background(), "in1", "user-B")

	assert.ErrorIs(t, err, domain.ErrAlreadyVerified,
		"el guard de estado debe frenar a la segunda verificación")
	assert.Equal(t, 20, quantityAt(state, entity.Warehouse(), "p1"),
		"los deltas de la perdedora deben revertirse, no sumarse encima")
	assert.Equal(t, "user-A", state.stockIns["in1"].PerformedBy)
}

// staleStockInRepo devuelve siempre la misma copia del movimiento, como la vería
// una transacción que leyó antes del commit de otra.
type staleStockInRepo struct {
	memStockInRepo
	stale *entity.StockIn
}

func (r *staleStockInRepo) GetByID(string) (*entity.StockIn, error) {
	cp := *r.stale
	cp.Lines = append([]entity.MovementLine(nil), r.stale.Lines...)
	return &cp, nil
}

func TestVerifyStockIn_MovimientoInexistente(t *testing.T) {
	_, uc, _ := newVerifyEnv()
	err := uc.VerifyStockIn(context.Background(), "no-existe", "user-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// El producto de una línea fue borrado entre la creación y la verificación.
func TestVerifyStockIn_ProductoBorrado(t *testing.T) {
	state, uc, _ := newVerifyEnv()
	state.stockIns["in1"] = &entity.StockIn{
		ID: "in1", TransactionCode: "IN-1", Status: entity.MovementPending,
		ToWarehouse: true,
		Lines:       []entity.MovementLine{{ID: "l1", ProductID: "fantasma", Quantity: 5}},
	}

	err := uc.VerifyStockIn(context.Background(), "in1", "user-1")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, entity.MovementPending, state.stockIns["in1"].Status,
		"el movimiento debe seguir pending tras un fallo")
}

// ──────────────────────────────────────────────────────────────────────────────
// Salidas
// ──────────────────────────────────────────────────────────────────────────────

// Salida que deja el saldo exactamente en el umbral: la clasificación es lowStock
// (umbral inclusivo).
func TestVerifyStockOut_ReclasificaEnUmbral(t *testing.T) {
	state, uc, _ := newVerifyEnv()
	seedProduct(state, "p1", "Harina", 5)
	seedStore(state, "s1", "Tienda Centro")
	seedStock(state, entity.AtStore("s1"), "p1", 12, 5)
	state.stockOuts["out1"] = &entity.StockOut{
		ID: "out1", TransactionCode: "OUT-1", Status: entity.MovementPending,
		StoreID: "s1",
		Lines:   []entity.MovementLine{{ID: "l1", ProductID: "p1", Quantity: 7}},
	}

	require.NoError(t, uc.VerifyStockOut(context.Background(), "out1", "user-1"))

	st := state.stocks[stockKey(entity.AtStore("s1"), "p1")]
	assert.Equal(t, 5, st.Quantity)
	assert.Equal(t, entity.StatusLowStock, st.Status,
		"cantidad == umbral debe clasificar como lowStock")
}

// Salida que agota el saldo: queda en 0 con estado outOfStock, nunca negativo.
func TestVerifyStockOut_AgotaSaldo(t *testing.T) {
	state, uc, _ := newVerifyEnv()
	seedProduct(state, "p1", "Harina", 5)
	seedStore(state, "s1", "Tienda Centro")
	seedStock(state, entity.AtStore("s1"), "p1", 7, 5)
	state.stockOuts["out1"] = &entity.StockOut{
		ID: "out1", TransactionCode: "OUT-1", Status: entity.MovementPending,
		StoreID: "s1",
		Lines:   []entity.MovementLine{{ID: "l1", ProductID: "p1", Quantity: 7}},
	}

	require.NoError(t, uc.VerifyStockOut(context.Background(), "out1", "user-1"))

	st := state.stocks[stockKey(entity.AtStore("s1"), "p1")]
	assert.Equal(t, 0, st.Quantity)
	assert.Equal(t, entity.StatusOutOfStock, st.Status)
}

// Una línea insuficiente rechaza el movimiento completo: la línea previa ya
// aplicada se revierte y el estado sigue pending.
func TestVerifyStockOut_InsuficienciaRevierteTodo(t *testing.T) {
	state, uc, pub := newVerifyEnv()
	seedProduct(state, "p1", "Harina", 2)
	seedProduct(state, "p2", "Azúcar", 2)
	seedStore(state, "s1", "Tienda Centro")
	seedStock(state, entity.AtStore("s1"), "p1", 10, 2)
	seedStock(state, entity.AtStore("s1"), "p2", 3, 2)
	state.stockOuts["out1"] = &entity.StockOut{
		ID: "out1", TransactionCode: "OUT-1", Status: entity.MovementPending,
		StoreID: "s1",
		Lines: []entity.MovementLine{
			{ID: "l1", ProductID: "p1", Quantity: 4},
			{ID: "l2", ProductID: "p2", Quantity: 5}, // solo hay 3
		},
	}

	err := uc.VerifyStockOut(context.Background(), "out1", "user-1")

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 10, quantityAt(state, entity.AtStore("s1"), "p1"),
		"la primera línea debe revertirse con el rollback")
	assert.Equal(t, 3, quantityAt(state, entity.AtStore("s1"), "p2"))
	assert.Equal(t, entity.MovementPending, state.stockOuts["out1"].Status)
	assert.Empty(t, pub.published, "un movimiento rechazado no publica snapshot")
}

// Dos líneas del mismo producto se acumulan: la segunda ve el saldo ya
// descontado por la primera.
func TestVerifyStockOut_LineasRepetidasAcumulan(t *testing.T) {
	state, uc, _ := newVerifyEnv()
	seedProduct(state, "p1", "Harina", 1)
	seedStore(state, "s1", "Tienda Centro")
	seedStock(state, entity.AtStore("s1"), "p1", 8, 1)
	state.stockOuts["out1"] = &entity.StockOut{
		ID: "out1", TransactionCode: "OUT-1", Status: entity.MovementPending,
		StoreID: "s1",
		Lines: []entity.MovementLine{
			{ID: "l1", ProductID: "p1", Quantity: 5},
			{ID: "l2", ProductID: "p1", Quantity: 5},
		},
	}

	err := uc.VerifyStockOut(context.Background(), "out1", "user-1")

	assert.ErrorIs(t, err, domain.ErrInsufficientStock,
		"5+5 contra un saldo de 8 debe fallar aunque cada línea quepa por separado")
	assert.Equal(t, 8, quantityAt(state, entity.AtStore("s1"), "p1"))
}

// Las líneas se aplican en el orden del payload: con dos líneas insuficientes,
// el error nombra el producto de la primera.
func TestVerifyStockOut_PrimeraLineaInsuficienteDeterminaElError(t *testing.T) {
	state, uc, _ := newVerifyEnv()
	seedProduct(state, "p1", "Harina", 1)
	seedProduct(state, "p2", "Azúcar", 1)
	seedStore(state, "s1", "Tienda Centro")
	seedStock(state, entity.AtStore("s1"), "p1", 1, 1)
	seedStock(state, entity.AtStore("s1"), "p2", 1, 1)
	state.stockOuts["out1"] = &entity.StockOut{
		ID: "out1", TransactionCode: "OUT-1", Status: entity.MovementPending,
		StoreID: "s1",
		Lines: []entity.MovementLine{
			{ID: "l1", ProductID: "p1", Quantity: 9},
			{ID: "l2", ProductID: "p2", Quantity: 9},
		},
	}

	err := uc.VerifyStockOut(context.Background(), "out1", "user-1")

	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "p1", "debe fallar en la primera línea del orden dado")
	assert.NotContains(t, err.Error(), "p2")
}

func TestVerifyStockOut_SaldoInexistente(t *testing.T) {
	state, uc, _ := newVerifyEnv()
	seedProduct(state, "p1", "Harina", 1)
	seedStore(state, "s1", "Tienda Centro")
	state.stockOuts["out1"] = &entity.StockOut{
		ID: "out1", TransactionCode: "OUT-1", Status: entity.MovementPending,
		StoreID: "s1",
		Lines:   []entity.MovementLine{{ID: "l1", ProductID: "p1", Quantity: 1}},
	}

	err := uc.VerifyStockOut(context.Background(), "out1", "user-1")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock,
		"restar de un saldo inexistente es insuficiencia, no creación")
}

// ──────────────────────────────────────────────────────────────────────────────
// Traslados
// ──────────────────────────────────────────────────────────────────────────────

// Traslado bodega -> tienda: conserva la cantidad total del producto y crea el
// saldo destino clasificado solo con lo recibido.
func TestVerifyStockMutation_ConservaCantidadTotal(t *testing.T) {
	state, uc, _ := newVerifyEnv()
	seedProduct(state, "p1", "Aceite", 5)
	seedStore(state, "s1", "Tienda Centro")
	seedStock(state, entity.Warehouse(), "p1", 30, 5)
	state.mutations["mut1"] = &entity.StockMutation{
		ID: "mut1", TransactionCode: "MUT-1", Status: entity.MovementPending,
		FromWarehouse: true, ToStoreID: "s1",
		Lines: []entity.MovementLine{{ID: "l1", ProductID: "p1", Quantity: 12}},
	}

	require.NoError(t, uc.VerifyStockMutation(context.Background(), "mut1", "user-1"))

	assert.Equal(t, 18, quantityAt(state, entity.Warehouse(), "p1"))
	dest := state.stocks[stockKey(entity.AtStore("s1"), "p1")]
	require.NotNil(t, dest, "el saldo destino debe crearse")
	assert.Equal(t, 12, dest.Quantity)
	assert.Equal(t, entity.StatusAvailable, dest.Status)
	assert.Equal(t, 30, 18+dest.Quantity, "la cantidad total del producto se conserva")
}

// Traslado tienda -> tienda con origen insuficiente: nada cambia en ninguna ubicación.
func TestVerifyStockMutation_OrigenInsuficiente(t *testing.T) {
	state, uc, _ := newVerifyEnv()
	seedProduct(state, "p1", "Aceite", 5)
	seedStore(state, "s1", "Tienda Centro")
	seedStore(state, "s2", "Tienda Norte")
	seedStock(state, entity.AtStore("s1"), "p1", 4, 5)
	state.mutations["mut1"] = &entity.StockMutation{
		ID: "mut1", TransactionCode: "MUT-1", Status: entity.MovementPending,
		FromStoreID: "s1", ToStoreID: "s2",
		Lines: []entity.MovementLine{{ID: "l1", ProductID: "p1", Quantity: 10}},
	}

	err := uc.VerifyStockMutation(context.Background(), "mut1", "user-1")

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 4, quantityAt(state, entity.AtStore("s1"), "p1"))
	assert.Equal(t, -1, quantityAt(state, entity.AtStore("s2"), "p1"),
		"el destino no debe crearse si el traslado falla")
	assert.Equal(t, entity.MovementPending, state.mutations["mut1"].Status)
}

// El origen que queda en cero tras el traslado se reclasifica a outOfStock.
func TestVerifyStockMutation_OrigenQuedaAgotado(t *testing.T) {
	state, uc, _ := newVerifyEnv()
	seedProduct(state, "p1", "Aceite", 5)
	seedStore(state, "s1", "Tienda Centro")
	seedStore(state, "s2", "Tienda Norte")
	seedStock(state, entity.AtStore("s1"), "p1", 10, 5)
	state.mutations["mut1"] = &entity.StockMutation{
		ID: "mut1", TransactionCode: "MUT-1", Status: entity.MovementPending,
		FromStoreID: "s1", ToStoreID: "s2",
		Lines: []entity.MovementLine{{ID: "l1", ProductID: "p1", Quantity: 10}},
	}

	require.NoError(t, uc.VerifyStockMutation(context.Background(), "mut1", "user-1"))

	src := state.stocks[stockKey(entity.AtStore("s1"), "p1")]
	assert.Equal(t, 0, src.Quantity)
	assert.Equal(t, entity.StatusOutOfStock, src.Status)
	assert.Equal(t, 10, quantityAt(state, entity.AtStore("s2"), "p1"))
}

// Escenario completo: entrada a bodega, traslado a tienda y salida, encadenados.
func TestVerify_FlujoCompleto(t *testing.T) {
	state, uc, pub := newVerifyEnv()
	seedProduct(state, "p1", "Aceite", 5)
	seedStore(state, "s1", "Tienda Centro")

	state.stockIns["in1"] = &entity.StockIn{
		ID: "in1", TransactionCode: "IN-1", Status: entity.MovementPending,
		ToWarehouse: true,
		Lines:       []entity.MovementLine{{ID: "l1", ProductID: "p1", Quantity: 50}},
	}
	require.NoError(t, uc.VerifyStockIn(context.Background(), "in1", "u"))

	state.mutations["mut1"] = &entity.StockMutation{
		ID: "mut1", TransactionCode: "MUT-1", Status: entity.MovementPending,
		FromWarehouse: true, ToStoreID: "s1",
		Lines: []entity.MovementLine{{ID: "l1", ProductID: "p1", Quantity: 20}},
	}
	require.NoError(t, uc.VerifyStockMutation(context.Background(), "mut1", "u"))

	state.stockOuts["out1"] = &entity.StockOut{
		ID: "out1", TransactionCode: "OUT-1", Status: entity.MovementPending,
		StoreID: "s1",
		Lines:   []entity.MovementLine{{ID: "l1", ProductID: "p1", Quantity: 16}},
	}
	require.NoError(t, uc.VerifyStockOut(context.Background(), "out1", "u"))

	assert.Equal(t, 30, quantityAt(state, entity.Warehouse(), "p1"))
	st := state.stocks[stockKey(entity.AtStore("s1"), "p1")]
	assert.Equal(t, 4, st.Quantity)
	assert.Equal(t, entity.StatusLowStock, st.Status)
	assert.Len(t, pub.published, 3, "cada verificación exitosa publica un snapshot")

	last := pub.published[len(pub.published)-1]
	require.Equal(t, 1, last.Length)
	require.Len(t, last.LowStock, 1)
	assert.Equal(t, "Aceite", last.LowStock[0].ProductName)
	assert.Equal(t, "Tienda Centro", last.LowStock[0].Location)
}

// Verificar no debe depender de la fecha del movimiento.
func TestVerifyStockIn_FechaPasadaNoImporta(t *testing.T) {
	state, uc, _ := newVerifyEnv()
	seedProduct(state, "p1", "Aceite", 5)
	state.stockIns["in1"] = &entity.StockIn{
		ID: "in1", TransactionCode: "IN-1", Status: entity.MovementPending,
		ToWarehouse: true,
		Date:        time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		Lines:       []entity.MovementLine{{ID: "l1", ProductID: "p1", Quantity: 3}},
	}

	require.NoError(t, uc.VerifyStockIn(context.Background(), "in1", "u"))
	assert.Equal(t, 3, quantityAt(state, entity.Warehouse(), "p1"))
}
