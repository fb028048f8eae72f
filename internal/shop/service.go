// Package shop owns the per-owner storefront state: the cart, which screen
// is showing and the search term.
package shop

import (
	"context"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"github.com/matthieukhl/eashop/internal/cart"
	"github.com/matthieukhl/eashop/internal/catalog"
	"github.com/matthieukhl/eashop/internal/events"
	"github.com/matthieukhl/eashop/internal/models"
	"github.com/matthieukhl/eashop/internal/storage"
	"github.com/matthieukhl/eashop/internal/telegram"
	"github.com/matthieukhl/eashop/internal/view"
)

var (
	ErrEmptyCart      = errors.New("cart is empty")
	ErrCheckoutFailed = errors.New("checkout failed")
)

// AlertMessage is shown to the user when opening an invoice fails.
const AlertMessage = "There was an error processing your payment. Please try again."

// Session cache defaults. An evicted owner reloads its cart from storage on
// the next request and starts again on the catalog list.
const (
	DefaultSessionLimit = 10000
	DefaultSessionTTL   = 30 * time.Minute
)

type session struct {
	cart *cart.Cart
	view *view.State
}

type Service struct {
	catalog   *catalog.Catalog
	store     storage.Store
	invoicer  telegram.Invoicer
	publisher events.Publisher
	logger    *zap.Logger
	currency  string

	sessionLimit int
	sessionTTL   time.Duration

	mu       sync.Mutex
	sessions *expirable.LRU[string, *session]
}

type Option func(*Service)

func WithPublisher(p events.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func WithCurrency(currency string) Option {
	return func(s *Service) { s.currency = currency }
}

// WithSessionCache bounds how many owners are held in memory and how long an
// idle owner is kept.
func WithSessionCache(limit int, ttl time.Duration) Option {
	return func(s *Service) {
		s.sessionLimit = limit
		s.sessionTTL = ttl
	}
}

func NewService(c *catalog.Catalog, store storage.Store, invoicer telegram.Invoicer, opts ...Option) *Service {
	s := &Service{
		catalog:   c,
		store:     store,
		invoicer:  invoicer,
		publisher: events.NopPublisher{},
		logger:    zap.NewNop(),
		currency:  "USD",

		sessionLimit: DefaultSessionLimit,
		sessionTTL:   DefaultSessionTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.sessions = expirable.NewLRU[string, *session](s.sessionLimit, nil, s.sessionTTL)
	return s
}

// load returns the owner's session, reading the persisted cart when the owner
// is not cached. With reload set, a cached session also rereads its cart so
// writes made by other processes are not overwritten. Each load renews the
// session's TTL. Callers hold s.mu.
func (s *Service) load(ctx context.Context, owner string, reload bool) (*session, error) {
	sess, ok := s.sessions.Get(owner)
	if !ok || reload {
		c, err := s.readCart(ctx, owner)
		if err != nil {
			return nil, err
		}
		if !ok {
			sess = &session{view: view.New()}
		}
		sess.cart = c
	}
	s.sessions.Add(owner, sess)
	return sess, nil
}

func (s *Service) readCart(ctx context.Context, owner string) (*cart.Cart, error) {
	raw, _, err := s.store.Get(ctx, owner, cart.StorageKey)
	if err != nil {
		return nil, errors.Wrap(err, "load cart")
	}

	c, err := cart.Unmarshal(raw)
	if err != nil {
		s.logger.Warn("discarding unreadable cart", zap.String("owner", owner), zap.Error(err))
		c = cart.New()
	}
	if dropped := c.Sanitize(s.catalog); dropped > 0 {
		s.logger.Warn("dropped unknown products from cart", zap.String("owner", owner), zap.Int("dropped", dropped))
	}
	return c, nil
}

// save persists next and installs it as the session cart. The session keeps
// its previous cart when the write fails.
func (s *Service) save(ctx context.Context, owner string, sess *session, next *cart.Cart) error {
	data, err := next.Marshal()
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, owner, cart.StorageKey, data); err != nil {
		return errors.Wrap(err, "persist cart")
	}
	sess.cart = next
	return nil
}

func (s *Service) Cart(ctx context.Context, owner string) (*CartSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.load(ctx, owner, true)
	if err != nil {
		return nil, err
	}
	return summarize(sess.cart), nil
}

// AddToCart appends one unit of the product and persists the cart.
func (s *Service) AddToCart(ctx context.Context, owner string, productID int64) (*CartSummary, error) {
	p, err := s.catalog.Get(productID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.load(ctx, owner, true)
	if err != nil {
		return nil, err
	}

	next := cart.New(sess.cart.Items()...)
	next.Add(p)
	if err := s.save(ctx, owner, sess, next); err != nil {
		return nil, err
	}

	s.logger.Debug("added to cart", zap.String("owner", owner), zap.Int64("product_id", productID), zap.Int("count", next.Len()))
	return summarize(next), nil
}

// RemoveFromCart deletes one unit of the product. Removing a product that is
// not in the cart changes nothing and writes nothing.
func (s *Service) RemoveFromCart(ctx context.Context, owner string, productID int64) (*CartSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.load(ctx, owner, true)
	if err != nil {
		return nil, err
	}

	next := cart.New(sess.cart.Items()...)
	if !next.Remove(productID) {
		return summarize(sess.cart), nil
	}
	if err := s.save(ctx, owner, sess, next); err != nil {
		return nil, err
	}

	s.logger.Debug("removed from cart", zap.String("owner", owner), zap.Int64("product_id", productID), zap.Int("count", next.Len()))
	return summarize(next), nil
}

// Products returns the catalog filtered by term.
func (s *Service) Products(term string) []models.Product {
	return s.catalog.Search(term)
}

func (s *Service) Product(id int64) (models.Product, error) {
	return s.catalog.Get(id)
}
