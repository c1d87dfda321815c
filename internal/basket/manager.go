// Package basket implements the basket lifecycle: resolving which basket a
// request is entitled to use, migrating ownership across the
// anonymous-to-authenticated boundary, and mutating line items with
// duplicate-line merging.
package basket

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pharaonic/basket-backend/internal/identity"
	"github.com/pharaonic/basket-backend/internal/session"
	"github.com/pharaonic/basket-backend/pkg/config"
	"github.com/pharaonic/basket-backend/pkg/db/models"
	"github.com/pharaonic/basket-backend/pkg/enums"
	apperrors "github.com/pharaonic/basket-backend/pkg/errors"
	"github.com/pharaonic/basket-backend/pkg/logger"
	"github.com/pharaonic/basket-backend/pkg/metrics"
	"github.com/pharaonic/basket-backend/pkg/types"
)

// ModelableRef names the external record a line is created from. An empty
// Type defaults to the product discriminator.
type ModelableRef struct {
	Type string
	ID   uuid.UUID
}

// ItemInput is one line descriptor accepted by Add.
type ItemInput struct {
	Name       string
	Price      decimal.Decimal
	Quantity   int
	Attributes map[string]any
	Modelable  *ModelableRef
}

// Manager is the request-scoped basket aggregate. One instance is built per
// inbound request and discarded at request end; it holds the current basket
// plus an ordered in-memory projection of its lines. Cross-request races on
// the same basket id are resolved by the storage layer's last-write-wins.
type Manager struct {
	repo     Repository
	carrier  session.Carrier
	identity identity.Context
	cfg      config.BasketConfig
	logg     *logger.Logger
	metrics  *metrics.BasketMetrics

	basket    *models.Basket
	items     []*Item
	nextIndex int
}

// ManagerParams collects the dependencies of NewManager.
type ManagerParams struct {
	Repo     Repository
	Carrier  session.Carrier
	Identity identity.Context
	Config   config.BasketConfig
	Logger   *logger.Logger
	Metrics  *metrics.BasketMetrics
}

// NewManager builds a manager and, for browser-style clients with
// auto-detect enabled, resolves the ambient basket id through the carrier
// and loads it. An Unauthorized result from that resolution propagates: a
// remembered id the caller may not use signals identity confusion, not a
// condition to start basketless over. A stale id whose basket is gone is
// forgotten and the manager starts empty.
func NewManager(ctx context.Context, params ManagerParams) (*Manager, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("basket repository required")
	}

	m := &Manager{
		repo:     params.Repo,
		carrier:  params.Carrier,
		identity: params.Identity,
		cfg:      params.Config,
		logg:     params.Logger,
		metrics:  params.Metrics,
	}

	if !m.autoDetectActive() {
		return m, nil
	}

	remembered, err := m.carrier.Current(ctx)
	if err != nil {
		return nil, err
	}
	if remembered == "" {
		return m, nil
	}

	id, err := uuid.Parse(remembered)
	if err != nil {
		// Garbage in the carrier is dropped, not surfaced.
		_ = m.carrier.Forget(ctx)
		return m, nil
	}

	if err := m.Use(ctx, id); err != nil {
		if appErr := apperrors.As(err); appErr != nil && appErr.Code() == apperrors.CodeNotFound {
			_ = m.carrier.Forget(ctx)
			return m, nil
		}
		return nil, err
	}
	return m, nil
}

func (m *Manager) autoDetectActive() bool {
	return m.cfg.AutoDetect && !m.identity.WantsJSON && m.carrier != nil
}

// Current returns the loaded basket, nil when none is current.
func (m *Manager) Current() *models.Basket {
	return m.basket
}

// Use loads the basket by id, authorizes the caller against its owner and
// makes it current. When an authenticated caller touches a basket that is
// still anonymous-owned (and the fingerprint matched), ownership migrates to
// the principal immediately.
func (m *Manager) Use(ctx context.Context, id uuid.UUID) (err error) {
	started := time.Now()
	defer func() { m.metrics.Observe("use", started, err) }()

	loaded, err := m.repo.FindBasket(ctx, id)
	if err != nil {
		return err
	}
	if err = m.authorize(loaded); err != nil {
		return err
	}
	if err = m.claimIfAnonymous(ctx, loaded); err != nil {
		return err
	}

	m.basket = loaded
	m.rebuildProjection()
	if m.logg != nil {
		m.logg.Info(m.logg.WithBasketID(ctx, loaded.ID.String()), "basket resolved")
	}
	return nil
}

// authorize enforces the ownership rule: fingerprint baskets require an
// exact fingerprint match, principal baskets require the exact type+id
// pair. A fingerprint mismatch is rejected even for authenticated callers.
func (m *Manager) authorize(b *models.Basket) error {
	if b.Anonymous() {
		if m.identity.Fingerprint != "" && *b.UserAgent == m.identity.Fingerprint {
			return nil
		}
		return apperrors.New(apperrors.CodeUnauthorized, "basket belongs to another client")
	}
	if m.identity.Authenticated() && b.OwnedBy(m.identity.Principal.Type, m.identity.Principal.ID) {
		return nil
	}
	return apperrors.New(apperrors.CodeUnauthorized, "basket belongs to another user")
}

func (m *Manager) claimIfAnonymous(ctx context.Context, b *models.Basket) error {
	if !m.identity.Authenticated() || !b.Anonymous() || !b.Status.Mutable() {
		return nil
	}
	principal := *m.identity.Principal
	b.UserAgent = nil
	b.UserType = &principal.Type
	b.UserID = &principal.ID
	if err := m.repo.UpdateBasketOwner(ctx, b); err != nil {
		return err
	}
	if m.logg != nil {
		m.logg.Info(m.logg.WithBasketID(ctx, b.ID.String()), "basket ownership transferred")
	}
	return nil
}

// Create opens a new basket and makes it current. Authenticated callers own
// the basket through their principal; the fingerprint argument only applies
// to anonymous baskets and falls back to the request fingerprint when empty.
func (m *Manager) Create(ctx context.Context, currency enums.Currency, fingerprint string) (err error) {
	started := time.Now()
	defer func() { m.metrics.Observe("create", started, err) }()

	if currency == "" {
		currency, err = enums.ParseCurrency(m.cfg.DefaultCurrency)
		if err != nil {
			return apperrors.Wrap(apperrors.CodeValidation, err, "default currency")
		}
	}
	if !currency.IsValid() {
		return apperrors.New(apperrors.CodeValidation, "invalid currency")
	}

	b := &models.Basket{
		Currency: currency,
		Status:   enums.BasketStatusActive,
	}
	if m.identity.Authenticated() {
		principal := *m.identity.Principal
		b.UserType = &principal.Type
		b.UserID = &principal.ID
	} else {
		if fingerprint == "" {
			fingerprint = m.identity.Fingerprint
		}
		if fingerprint == "" {
			return apperrors.New(apperrors.CodeValidation, "anonymous basket requires a client fingerprint")
		}
		b.UserAgent = &fingerprint
	}

	if err = m.repo.CreateBasket(ctx, b); err != nil {
		return err
	}
	if m.autoDetectActive() {
		if err = m.carrier.Remember(ctx, b.ID.String()); err != nil {
			return err
		}
	}

	m.basket = b
	m.items = nil
	m.nextIndex = 0
	if m.logg != nil {
		m.logg.Info(m.logg.WithBasketID(ctx, b.ID.String()), "basket created")
	}
	return nil
}

// Destroy soft-deletes the current basket and its items. Without a current
// basket it is a no-op. The remembered id is dropped from the carrier so a
// stale id is never re-resolved on the next request.
func (m *Manager) Destroy(ctx context.Context) (err error) {
	started := time.Now()
	defer func() { m.metrics.Observe("destroy", started, err) }()

	if m.basket == nil {
		return nil
	}
	if !m.basket.Status.Mutable() {
		return apperrors.New(apperrors.CodeStateConflict, "basket is no longer active")
	}

	if err = m.repo.SoftDeleteBasket(ctx, m.basket); err != nil {
		return err
	}
	if m.autoDetectActive() {
		if err = m.carrier.Forget(ctx); err != nil {
			return err
		}
	}

	if m.logg != nil {
		m.logg.Info(m.logg.WithBasketID(ctx, m.basket.ID.String()), "basket destroyed")
	}
	m.basket = nil
	m.items = nil
	m.nextIndex = 0
	return nil
}

// AssignUser is the explicit claim of the current basket by a principal,
// e.g. a post-registration flow. The fingerprint is cleared in the same
// write.
func (m *Manager) AssignUser(ctx context.Context, principal identity.Principal) (err error) {
	started := time.Now()
	defer func() { m.metrics.Observe("assign_user", started, err) }()

	if err = m.guardMutable(); err != nil {
		return err
	}
	if principal.ID == uuid.Nil {
		return apperrors.New(apperrors.CodeValidation, "principal id is required")
	}
	if principal.Type == "" {
		principal.Type = identity.PrincipalTypeCustomer
	}

	m.basket.UserAgent = nil
	m.basket.UserType = &principal.Type
	m.basket.UserID = &principal.ID
	return m.repo.UpdateBasketOwner(ctx, m.basket)
}

// Add validates each descriptor and delegates it to the merge-aware insert.
// The returned wrappers are positionally valid for this manager instance.
func (m *Manager) Add(ctx context.Context, inputs ...ItemInput) (added []*Item, err error) {
	started := time.Now()
	defer func() { m.metrics.Observe("add", started, err) }()

	if err = m.guardMutable(); err != nil {
		return nil, err
	}
	if len(inputs) == 0 {
		return nil, apperrors.New(apperrors.CodeValidation, "at least one item is required")
	}

	added = make([]*Item, 0, len(inputs))
	for _, input := range inputs {
		item, insertErr := m.insert(ctx, input)
		if insertErr != nil {
			err = insertErr
			return nil, err
		}
		added = append(added, item)
	}
	return added, nil
}

// insert merges into an existing line when the descriptor references the
// same external record with an identical attribute set; otherwise it
// appends a new line at the end of the projection. Adding the same
// product+attributes pair twice must never create two lines.
func (m *Manager) insert(ctx context.Context, input ItemInput) (*Item, error) {
	if input.Name == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "item name is required")
	}
	if input.Price.IsNegative() {
		return nil, apperrors.New(apperrors.CodeValidation, "item price must be non-negative")
	}
	quantity := input.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return nil, apperrors.New(apperrors.CodeValidation, "item quantity must be positive")
	}

	var ref *ModelableRef
	if input.Modelable != nil {
		ref = &ModelableRef{Type: input.Modelable.Type, ID: input.Modelable.ID}
		if ref.Type == "" {
			ref.Type = models.ModelableTypeProduct
		}
		if ref.ID == uuid.Nil {
			return nil, apperrors.New(apperrors.CodeValidation, "modelable id is required")
		}
	}

	var attrs types.Attributes
	if input.Attributes != nil {
		attrs = types.Attributes(input.Attributes)
	}

	if ref != nil {
		for _, existing := range m.items {
			if existing.References(ref.Type, ref.ID) && existing.record.Attributes.Equal(attrs) {
				return existing.SetQuantity(ctx, existing.Quantity()+quantity)
			}
		}
	}

	record := &models.BasketItem{
		BasketID:   m.basket.ID,
		Name:       input.Name,
		Price:      input.Price,
		Quantity:   quantity,
		Attributes: attrs,
	}
	if ref != nil {
		record.ModelableType = &ref.Type
		record.ModelableID = &ref.ID
	}
	if err := m.repo.CreateItem(ctx, record); err != nil {
		return nil, err
	}

	item := &Item{index: m.nextIndex, record: record, manager: m}
	m.nextIndex++
	m.items = append(m.items, item)
	return item, nil
}

// Remove deletes the line at the given positional index. A missing index is
// a benign outcome, not an error. The surviving lines keep their indices;
// the slot is left vacant until the next reload renumbers the projection.
func (m *Manager) Remove(ctx context.Context, index int) (removed bool, err error) {
	started := time.Now()
	defer func() { m.metrics.Observe("remove", started, err) }()

	if err = m.guardMutable(); err != nil {
		return false, err
	}

	position := -1
	for i, item := range m.items {
		if item.index == index {
			position = i
			break
		}
	}
	if position < 0 {
		return false, nil
	}

	if err = m.repo.SoftDeleteItem(ctx, m.items[position].record.ID); err != nil {
		return false, err
	}
	m.items = append(m.items[:position], m.items[position+1:]...)
	return true, nil
}

// Clear deletes every line of the current basket and resets the projection.
func (m *Manager) Clear(ctx context.Context) (err error) {
	started := time.Now()
	defer func() { m.metrics.Observe("clear", started, err) }()

	if err = m.guardMutable(); err != nil {
		return err
	}
	if err = m.repo.DeleteAllItems(ctx, m.basket.ID); err != nil {
		return err
	}
	m.items = nil
	m.nextIndex = 0
	return nil
}

// Find returns the line at the given positional index. An absent index is
// reported through the boolean, not an error.
func (m *Manager) Find(index int) (*Item, bool, error) {
	if err := m.requireBasket(); err != nil {
		return nil, false, err
	}
	for _, item := range m.items {
		if item.index == index {
			return item, true, nil
		}
	}
	return nil, false, nil
}

// All returns the live projection in positional order. Mutating operations
// alter the returned slice's backing state in place.
func (m *Manager) All() ([]*Item, error) {
	if err := m.requireBasket(); err != nil {
		return nil, err
	}
	return m.items, nil
}

// Count returns the number of lines in the projection.
func (m *Manager) Count() (int, error) {
	if err := m.requireBasket(); err != nil {
		return 0, err
	}
	return len(m.items), nil
}

// IsEmpty reports whether the current basket has no lines.
func (m *Manager) IsEmpty() (bool, error) {
	count, err := m.Count()
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

// IsNotEmpty reports whether the current basket has at least one line.
func (m *Manager) IsNotEmpty() (bool, error) {
	empty, err := m.IsEmpty()
	if err != nil {
		return false, err
	}
	return !empty, nil
}

// Total sums the line totals of the projection.
func (m *Manager) Total() (decimal.Decimal, error) {
	if err := m.requireBasket(); err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, item := range m.items {
		total = total.Add(item.Total())
	}
	return total, nil
}

func (m *Manager) requireBasket() error {
	if m.basket == nil {
		return apperrors.New(apperrors.CodeNotFound, "no current basket")
	}
	return nil
}

func (m *Manager) guardMutable() error {
	if err := m.requireBasket(); err != nil {
		return err
	}
	if !m.basket.Status.Mutable() {
		return apperrors.New(apperrors.CodeStateConflict, "basket is no longer active")
	}
	return nil
}

// rebuildProjection assigns fresh dense indices in load order.
func (m *Manager) rebuildProjection() {
	m.items = make([]*Item, 0, len(m.basket.Items))
	for i := range m.basket.Items {
		m.items = append(m.items, &Item{
			index:   i,
			record:  &m.basket.Items[i],
			manager: m,
		})
	}
	m.nextIndex = len(m.items)
}
