package store

import "fleet-client/internal/domain"

type CustomerStore struct {
	*Store[domain.Customer]
}

func NewCustomerStore() *CustomerStore {
	return &CustomerStore{Store: New[domain.Customer]()}
}

func (s *CustomerStore) ByStatus(status domain.CustomerStatus) []domain.Customer {
	return s.Filter(func(c domain.Customer) bool { return c.Status == status })
}

func (s *CustomerStore) ByCategory(category string) []domain.Customer {
	return s.Filter(func(c domain.Customer) bool { return c.Category == category })
}

// Search matches name, email, phone and GSTIN.
func (s *CustomerStore) Search(q string) []domain.Customer {
	return s.Filter(func(c domain.Customer) bool {
		return matchesQuery(q, c.Name, c.Email, c.Phone, c.GSTIN)
	})
}
