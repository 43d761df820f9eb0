package health

import (
	"context"

	"github.com/farm2bag/voicecart/internal/catalog"
)

// CatalogChecker reports ready once the product catalog has been loaded into
// the holder.
func CatalogChecker(h *catalog.Holder) Checker {
	return Checker{
		Name: "catalog",
		Check: func(context.Context) error {
			_, err := h.Index()
			return err
		},
	}
}

// Pinger is satisfied by pgxpool.Pool and pgx.Conn.
type Pinger interface {
	Ping(ctx context.Context) error
}

// DatabaseChecker probes the backing database connection.
func DatabaseChecker(p Pinger) Checker {
	return Checker{
		Name:  "database",
		Check: p.Ping,
	}
}
