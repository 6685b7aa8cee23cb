package dashboard

import (
	"context"

	"woocrm/internal/features/contact"
	"woocrm/internal/features/order"
)

type Stats struct {
	TotalContacts  int64 `json:"total_contacts"`
	ActiveStudents int64 `json:"active_students"`
	TotalOrders    int64 `json:"total_orders"`
	Leads          int64 `json:"leads"`
}

type DashboardService struct {
	contacts contact.ContactRepository
	orders   order.OrderRepository
}

func NewDashboardService(contacts contact.ContactRepository, orders order.OrderRepository) *DashboardService {
	return &DashboardService{
		contacts: contacts,
		orders:   orders,
	}
}

func (s *DashboardService) GetStats(ctx context.Context) (*Stats, error) {
	totalContacts, err := s.contacts.Count(ctx)
	if err != nil {
		return nil, err
	}
	students, err := s.contacts.CountByStatus(ctx, "student")
	if err != nil {
		return nil, err
	}
	leads, err := s.contacts.CountByStatus(ctx, "lead")
	if err != nil {
		return nil, err
	}
	totalOrders, err := s.orders.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &Stats{
		TotalContacts:  totalContacts,
		ActiveStudents: students,
		TotalOrders:    totalOrders,
		Leads:          leads,
	}, nil
}
