package http

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
)

// WSUpgrade exige que la petición sea un upgrade WebSocket antes de entrar al handler.
func WSUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// MeteredPublisher envuelve un Publisher contando cada snapshot publicado.
func MeteredPublisher(next inventory.Publisher) inventory.Publisher {
	return meteredPublisher{next: next}
}

type meteredPublisher struct {
	next inventory.Publisher
}

func (p meteredPublisher) Publish(snapshot dto.StockNotification) {
	snapshotsPublished.Inc()
	p.next.Publish(snapshot)
}
