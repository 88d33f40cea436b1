package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store joins the event and ticket repositories over one pool so services
// that need both, and their shared transaction, can take a single value.
type Store struct {
	*EventRepository
	*TicketRepository
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		EventRepository:  NewEventRepository(pool),
		TicketRepository: NewTicketRepository(pool),
	}
}
