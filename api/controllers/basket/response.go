package basket

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	basketsvc "github.com/pharaonic/basket-backend/internal/basket"
)

// ItemPayload is the wire shape of one line. Index is projection-local and
// only valid against the basket state returned alongside it.
type ItemPayload struct {
	Index      int             `json:"index"`
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
	Total      decimal.Decimal `json:"total"`
	Attributes map[string]any  `json:"attributes,omitempty"`
	ProductID  *uuid.UUID      `json:"product_id,omitempty"`
}

// BasketPayload is the wire shape of the current basket.
type BasketPayload struct {
	ID        uuid.UUID       `json:"id"`
	Currency  string          `json:"currency"`
	Status    string          `json:"status"`
	Anonymous bool            `json:"anonymous"`
	Count     int             `json:"count"`
	Total     decimal.Decimal `json:"total"`
	Items     []ItemPayload   `json:"items"`
}

func newItemPayload(item *basketsvc.Item) ItemPayload {
	payload := ItemPayload{
		Index:      item.Index(),
		ID:         item.ID(),
		Name:       item.Name(),
		Price:      item.Price(),
		Quantity:   item.Quantity(),
		Total:      item.Total(),
		Attributes: item.Attributes(),
	}
	if ref := item.Reference(); ref != nil {
		id := ref.ID
		payload.ProductID = &id
	}
	return payload
}

func newBasketPayload(m *basketsvc.Manager) (BasketPayload, error) {
	current := m.Current()
	items, err := m.All()
	if err != nil {
		return BasketPayload{}, err
	}
	total, err := m.Total()
	if err != nil {
		return BasketPayload{}, err
	}

	payload := BasketPayload{
		ID:        current.ID,
		Currency:  current.Currency.String(),
		Status:    current.Status.String(),
		Anonymous: current.Anonymous(),
		Count:     len(items),
		Total:     total,
		Items:     make([]ItemPayload, 0, len(items)),
	}
	for _, item := range items {
		payload.Items = append(payload.Items, newItemPayload(item))
	}
	return payload, nil
}
