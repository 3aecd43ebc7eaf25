package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Ledger metrics
	MovementsRecorded *prometheus.CounterVec
	StockRejections   prometheus.Counter
	InventoryValue    *prometheus.GaugeVec

	// Order metrics
	OrdersCreated   prometheus.Counter
	OrdersCompleted prometheus.Counter
	OrdersCancelled prometheus.Counter
	OrdersRefunded  prometheus.Counter
	OrderAmount     prometheus.Histogram

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBQueries     *prometheus.CounterVec
	DBDuration    *prometheus.HistogramVec
	DBConnections prometheus.Gauge
	DBErrors      *prometheus.CounterVec

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisErrors     *prometheus.CounterVec

	// Idempotency metrics
	IdempotencyHits prometheus.Counter
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Ledger metrics
		MovementsRecorded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockledger_movements_recorded_total",
				Help: "Total inventory movements recorded by type",
			},
			[]string{"type"},
		),
		StockRejections: promauto.NewCounter(prometheus.CounterOpts{
			Name: "stockledger_stock_rejections_total",
			Help: "Total operations rejected for insufficient stock",
		}),
		InventoryValue: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stockledger_inventory_value",
				Help: "Current inventory value at cost",
			},
			[]string{"store_id"},
		),

		// Order metrics
		OrdersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "stockledger_orders_created_total",
			Help: "Total number of orders created",
		}),
		OrdersCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "stockledger_orders_completed_total",
			Help: "Total number of orders completed",
		}),
		OrdersCancelled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "stockledger_orders_cancelled_total",
			Help: "Total number of orders cancelled",
		}),
		OrdersRefunded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "stockledger_orders_refunded_total",
			Help: "Total number of orders refunded",
		}),
		OrderAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "stockledger_order_amount",
			Help:    "Order total amounts",
			Buckets: []float64{1, 5, 10, 50, 100, 500, 1000, 5000},
		}),

		// API metrics
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockledger_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Database metrics
		DBQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockledger_db_queries_total",
				Help: "Total database queries",
			},
			[]string{"operation", "table"},
		),
		DBDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockledger_db_query_duration_seconds",
				Help:    "Database query duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "table"},
		),
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "stockledger_db_connections",
			Help: "Current number of database connections",
		}),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockledger_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),

		// Redis metrics
		RedisOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockledger_redis_operations_total",
				Help: "Total Redis operations",
			},
			[]string{"operation"},
		),
		RedisErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockledger_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),

		// Idempotency metrics
		IdempotencyHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "stockledger_idempotency_hits_total",
			Help: "Total requests served from the idempotency cache",
		}),
	}
}
