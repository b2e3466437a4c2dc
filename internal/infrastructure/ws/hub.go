package ws

import (
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/rs/zerolog/log"
)

// Ensure Hub implements inventory.Publisher.
var _ inventory.Publisher = (*Hub)(nil)

// SnapshotSource provee el snapshot actual para enviarlo a cada cliente que se conecta.
type SnapshotSource interface {
	Snapshot() (dto.StockNotification, error)
}

// Hub mantiene los clientes WebSocket suscritos a notificaciones de stock y les
// difunde cada snapshot publicado. Los writes van serializados bajo el mutex
// (websocket.Conn no soporta escrituras concurrentes).
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	source  SnapshotSource
	closed  bool
}

// NewHub construye el hub sin clientes.
func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]struct{})}
}

// SetSource inyecta la fuente de snapshots (se asigna en el arranque, tras crear el agregador).
func (h *Hub) SetSource(source SnapshotSource) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.source = source
}

// HandleConn atiende una conexión entrante: registra el cliente, le envía el snapshot
// actual y lo mantiene suscrito hasta que cierre. Usar con websocket.New en la ruta.
func (h *Hub) HandleConn(c *websocket.Conn) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = c.Close()
		return
	}
	h.clients[c] = struct{}{}
	source := h.source
	h.mu.Unlock()

	if source != nil {
		snap, err := source.Snapshot()
		if err != nil {
			log.Warn().Err(err).Msg("snapshot inicial para cliente ws")
		} else {
			h.mu.Lock()
			_ = c.WriteJSON(snap)
			h.mu.Unlock()
		}
	}

	// Drenar mensajes entrantes hasta que el cliente cierre; no se esperan comandos.
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	_ = c.Close()
}

// Publish difunde el snapshot a todos los clientes conectados. Best-effort:
// los clientes con error de escritura se desconectan y se descartan.
func (h *Hub) Publish(snapshot dto.StockNotification) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	for c := range h.clients {
		if err := c.WriteJSON(snapshot); err != nil {
			log.Debug().Err(err).Msg("cliente ws desconectado")
			delete(h.clients, c)
			_ = c.Close()
		}
	}
}

// Close cierra todas las conexiones y rechaza registros posteriores (shutdown).
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		_ = c.Close()
	}
	h.clients = make(map[*websocket.Conn]struct{})
}
