// Package view tracks which screen of the shop is showing.
//
// Exactly one screen is active at a time. The product detail screen is the
// only one that carries a selection.
package view

import "github.com/matthieukhl/eashop/internal/models"

type Screen string

const (
	ScreenList   Screen = "list"
	ScreenDetail Screen = "detail"
	ScreenCart   Screen = "cart"
)

type State struct {
	screen     Screen
	selected   *models.Product
	searchTerm string
}

// New starts on the catalog list with no search term.
func New() *State {
	return &State{screen: ScreenList}
}

func (s *State) Screen() Screen {
	return s.screen
}

// Selected returns the product shown on the detail screen.
func (s *State) Selected() (models.Product, bool) {
	if s.selected == nil {
		return models.Product{}, false
	}
	return *s.selected, true
}

func (s *State) SearchTerm() string {
	return s.searchTerm
}

// CanGoBack reports whether a back action would leave the current screen.
func (s *State) CanGoBack() bool {
	return s.screen != ScreenList
}

// ToggleCart opens the cart, or returns to the list when the cart is open.
func (s *State) ToggleCart() {
	if s.screen == ScreenCart {
		s.screen = ScreenList
	} else {
		s.screen = ScreenCart
	}
	s.selected = nil
}

// ShowDetails opens the detail screen for p, closing the cart.
func (s *State) ShowDetails(p models.Product) {
	s.selected = &p
	s.screen = ScreenDetail
}

func (s *State) GoHome() {
	s.screen = ScreenList
	s.selected = nil
}

// GoBack leaves the detail or cart screen. On the list it does nothing.
func (s *State) GoBack() {
	switch s.screen {
	case ScreenDetail, ScreenCart:
		s.GoHome()
	}
}

// SetSearch stores the filter term without changing screens.
func (s *State) SetSearch(term string) {
	s.searchTerm = term
}
