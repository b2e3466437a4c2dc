package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Métricas del motor: verificaciones por tipo/resultado y snapshots publicados.
var (
	verificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "almacen_verifications_total",
		Help: "Verificaciones de movimientos por tipo y resultado.",
	}, []string{"kind", "outcome"})

	snapshotsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "almacen_stock_snapshots_published_total",
		Help: "Snapshots de notificación de stock publicados a los suscriptores.",
	})
)
