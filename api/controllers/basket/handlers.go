// Package basket exposes the HTTP surface of the basket manager: lifecycle
// operations, line mutations and quantity changes, all addressed by basket
// id plus projection-local item index.
package basket

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pharaonic/basket-backend/api/responses"
	"github.com/pharaonic/basket-backend/api/validators"
	basketsvc "github.com/pharaonic/basket-backend/internal/basket"
	"github.com/pharaonic/basket-backend/internal/identity"
	"github.com/pharaonic/basket-backend/internal/products"
	"github.com/pharaonic/basket-backend/pkg/db/models"
	"github.com/pharaonic/basket-backend/pkg/enums"
	pkgerrors "github.com/pharaonic/basket-backend/pkg/errors"
	"github.com/pharaonic/basket-backend/pkg/logger"
)

// ManagerResolver builds the request-scoped manager. The response writer is
// needed so the cookie-backed carrier can queue its Set-Cookie headers.
type ManagerResolver func(w http.ResponseWriter, r *http.Request) (*basketsvc.Manager, error)

// Create opens a new basket for the caller.
func Create(resolve ManagerResolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := resolve(w, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload CreateBasketRequest
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		if err := m.Create(r.Context(), enums.Currency(payload.Currency), payload.Fingerprint); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		body, err := newBasketPayload(m)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, body)
	}
}

// Current returns the basket resolved from the ambient carrier.
func Current(resolve ManagerResolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := resolve(w, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if m.Current() == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "no current basket"))
			return
		}

		body, err := newBasketPayload(m)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, body)
	}
}

// UseBasket resolves the basket named in the path and returns it. Ownership
// transfer to an authenticated caller happens as a side effect.
func UseBasket(resolve ManagerResolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := resolveWithBasket(resolve, w, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		body, err := newBasketPayload(m)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, body)
	}
}

// Destroy soft-deletes the basket named in the path.
func Destroy(resolve ManagerResolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := resolveWithBasket(resolve, w, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := m.Destroy(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"destroyed": true})
	}
}

// AssignUser claims the basket for the given principal.
func AssignUser(resolve ManagerResolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := resolveWithBasket(resolve, w, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload AssignUserRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := m.AssignUser(r.Context(), identityPrincipal(payload)); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		body, err := newBasketPayload(m)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, body)
	}
}

// ItemsAdd appends or merges the submitted lines. Lines referencing a
// product are validated against the catalog, defaulting name and price from
// the record when omitted.
func ItemsAdd(resolve ManagerResolver, catalog products.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := resolveWithBasket(resolve, w, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload AddItemsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		inputs := make([]basketsvc.ItemInput, 0, len(payload.Items))
		for _, line := range payload.Items {
			input, err := toItemInput(r, catalog, line)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			inputs = append(inputs, input)
		}

		added, err := m.Add(r.Context(), inputs...)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]ItemPayload, 0, len(added))
		for _, item := range added {
			items = append(items, newItemPayload(item))
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, items)
	}
}

// ItemsList returns the live projection of the basket.
func ItemsList(resolve ManagerResolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := resolveWithBasket(resolve, w, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		all, err := m.All()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		items := make([]ItemPayload, 0, len(all))
		for _, item := range all {
			items = append(items, newItemPayload(item))
		}
		responses.WriteSuccess(w, items)
	}
}

// ItemRemove deletes the line at the given index. A missing index reports
// removed=false rather than an error.
func ItemRemove(resolve ManagerResolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := resolveWithBasket(resolve, w, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		index, err := itemIndex(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		removed, err := m.Remove(r.Context(), index)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"removed": removed})
	}
}

// ItemsClear removes every line from the basket.
func ItemsClear(resolve ManagerResolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := resolveWithBasket(resolve, w, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := m.Clear(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"cleared": true})
	}
}

// ItemQuantity applies an absolute or relative quantity change to the line
// at the given index. Dropping below one removes the line.
func ItemQuantity(resolve ManagerResolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := resolveWithBasket(resolve, w, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		index, err := itemIndex(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload QuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if countSet(payload) != 1 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "exactly one of quantity, increment or decrement is required"))
			return
		}

		item, ok, err := m.Find(index)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "item not found"))
			return
		}

		var updated *basketsvc.Item
		switch {
		case payload.Quantity != nil:
			updated, err = item.SetQuantity(r.Context(), *payload.Quantity)
		case payload.Increment != nil:
			updated, err = item.Increment(r.Context(), *payload.Increment)
		default:
			updated, err = item.Decrement(r.Context(), *payload.Decrement)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if updated == nil {
			responses.WriteSuccess(w, map[string]bool{"removed": true})
			return
		}
		responses.WriteSuccess(w, newItemPayload(updated))
	}
}

func resolveWithBasket(resolve ManagerResolver, w http.ResponseWriter, r *http.Request) (*basketsvc.Manager, error) {
	m, err := resolve(w, r)
	if err != nil {
		return nil, err
	}
	id, err := basketID(r)
	if err != nil {
		return nil, err
	}
	// The ambient carrier may already have resolved this basket.
	if current := m.Current(); current != nil && current.ID == id {
		return m, nil
	}
	if err := m.Use(r.Context(), id); err != nil {
		return nil, err
	}
	return m, nil
}

func identityPrincipal(payload AssignUserRequest) identity.Principal {
	principalType := payload.UserType
	if principalType == "" {
		principalType = identity.PrincipalTypeCustomer
	}
	return identity.Principal{Type: principalType, ID: payload.UserID}
}

func basketID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "basketID")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid basket id")
	}
	return id, nil
}

func itemIndex(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "index")
	index, err := strconv.Atoi(raw)
	if err != nil || index < 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid item index")
	}
	return index, nil
}

func countSet(payload QuantityRequest) int {
	set := 0
	if payload.Quantity != nil {
		set++
	}
	if payload.Increment != nil {
		set++
	}
	if payload.Decrement != nil {
		set++
	}
	return set
}

func toItemInput(r *http.Request, catalog products.Repository, line AddItemPayload) (basketsvc.ItemInput, error) {
	input := basketsvc.ItemInput{
		Name:       line.Name,
		Quantity:   line.Quantity,
		Attributes: line.Attributes,
	}
	if line.Price != nil {
		input.Price = *line.Price
	}

	if line.ProductID == nil {
		if input.Name == "" {
			return basketsvc.ItemInput{}, pkgerrors.New(pkgerrors.CodeValidation, "name is required for free-form items")
		}
		return input, nil
	}

	if catalog == nil {
		return basketsvc.ItemInput{}, pkgerrors.New(pkgerrors.CodeInternal, "product catalog unavailable")
	}
	product, err := catalog.FindByID(r.Context(), *line.ProductID)
	if err != nil {
		return basketsvc.ItemInput{}, err
	}

	if input.Name == "" {
		input.Name = product.Name
	}
	// An explicit zero price is honored; only an omitted price defaults.
	if line.Price == nil {
		input.Price = product.Price
	}
	input.Modelable = &basketsvc.ModelableRef{Type: models.ModelableTypeProduct, ID: product.ID}
	return input, nil
}
