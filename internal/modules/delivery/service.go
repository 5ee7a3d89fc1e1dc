// README: Delivery service; adapts the store to the navigation collaborator contracts.
package delivery

import (
	"context"

	"rota/internal/modules/navigation"
	"rota/internal/types"
)

// Payment methods accepted by the operation.
const (
	MethodCash = "dinheiro"
	MethodPix  = "pix"
	MethodCard = "cartao"
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

// PendingDeliveries implements navigation.DeliveryProvider.
func (s *Service) PendingDeliveries(ctx context.Context, driverID types.ID) ([]navigation.Delivery, error) {
	records, err := s.store.PendingByDriver(ctx, driverID)
	if err != nil {
		return nil, err
	}
	out := make([]navigation.Delivery, 0, len(records))
	for _, r := range records {
		out = append(out, navigation.Delivery{
			ID:       r.ID,
			Customer: r.Customer,
			Address:  r.Address,
			Point:    types.Point{Lat: r.Lat, Lng: r.Lng},
			Notes:    r.Notes,
		})
	}
	return out, nil
}

// MarkDelivered implements navigation.DeliveryActions.
func (s *Service) MarkDelivered(ctx context.Context, deliveryID types.ID) error {
	return s.store.MarkDelivered(ctx, deliveryID)
}

// RegisterPayment implements navigation.DeliveryActions. Amount validation
// is the session controller's job; by the time a call lands here it is on
// its way to the database.
func (s *Service) RegisterPayment(ctx context.Context, deliveryID types.ID, amount float64, method string) error {
	return s.store.InsertPayment(ctx, deliveryID, amount, method)
}
