package shop

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/matthieukhl/eashop/internal/cart"
	"github.com/matthieukhl/eashop/internal/models"
	"github.com/matthieukhl/eashop/internal/view"
)

// ProductCard is a product as rendered on the list and detail screens.
type ProductCard struct {
	models.Product
	QuantityInCart int `json:"quantity_in_cart"`
}

type CartSummary struct {
	Lines []models.CartLine `json:"lines"`
	Count int               `json:"count"`
	Total decimal.Decimal   `json:"total"`
	Empty bool              `json:"empty"`
}

// Screen is everything the page needs to draw the current view.
type Screen struct {
	View       view.Screen   `json:"view"`
	CanGoBack  bool          `json:"can_go_back"`
	SearchTerm string        `json:"search_term"`
	CartCount  int           `json:"cart_count"`
	Products   []ProductCard `json:"products,omitempty"`
	Product    *ProductCard  `json:"product,omitempty"`
	Cart       *CartSummary  `json:"cart,omitempty"`
}

func summarize(c *cart.Cart) *CartSummary {
	lines := c.Group()
	if lines == nil {
		lines = []models.CartLine{}
	}
	return &CartSummary{
		Lines: lines,
		Count: c.Len(),
		Total: c.Total(),
		Empty: c.Empty(),
	}
}

func (s *Service) render(sess *session) *Screen {
	st := sess.view
	scr := &Screen{
		View:       st.Screen(),
		CanGoBack:  st.CanGoBack(),
		SearchTerm: st.SearchTerm(),
		CartCount:  sess.cart.Len(),
	}

	switch st.Screen() {
	case view.ScreenCart:
		scr.Cart = summarize(sess.cart)
	case view.ScreenDetail:
		p, _ := st.Selected()
		scr.Product = &ProductCard{Product: p, QuantityInCart: sess.cart.Quantity(p.ID)}
	default:
		products := s.catalog.Search(st.SearchTerm())
		scr.Products = make([]ProductCard, 0, len(products))
		for _, p := range products {
			scr.Products = append(scr.Products, ProductCard{Product: p, QuantityInCart: sess.cart.Quantity(p.ID)})
		}
	}
	return scr
}

// navigate applies fn to the owner's view state and renders the result.
func (s *Service) navigate(ctx context.Context, owner string, fn func(*view.State)) (*Screen, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.load(ctx, owner, false)
	if err != nil {
		return nil, err
	}
	fn(sess.view)
	return s.render(sess), nil
}

func (s *Service) Screen(ctx context.Context, owner string) (*Screen, error) {
	return s.navigate(ctx, owner, func(*view.State) {})
}

func (s *Service) ToggleCart(ctx context.Context, owner string) (*Screen, error) {
	return s.navigate(ctx, owner, (*view.State).ToggleCart)
}

func (s *Service) GoHome(ctx context.Context, owner string) (*Screen, error) {
	return s.navigate(ctx, owner, (*view.State).GoHome)
}

func (s *Service) GoBack(ctx context.Context, owner string) (*Screen, error) {
	return s.navigate(ctx, owner, (*view.State).GoBack)
}

func (s *Service) SetSearch(ctx context.Context, owner, term string) (*Screen, error) {
	return s.navigate(ctx, owner, func(st *view.State) { st.SetSearch(term) })
}

// ShowDetails opens the detail screen for a catalog product.
func (s *Service) ShowDetails(ctx context.Context, owner string, productID int64) (*Screen, error) {
	p, err := s.catalog.Get(productID)
	if err != nil {
		return nil, err
	}
	return s.navigate(ctx, owner, func(st *view.State) { st.ShowDetails(p) })
}
