package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownPage     = errors.New("unknown page")
	ErrUnknownCategory = errors.New("unknown category")
)

// PageID identifies one navigable view. The zero value is PageHome.
type PageID uint8

const (
	PageHome PageID = iota
	PageTornado
	PageHurricane
	PageWildfire
	PageFlood
	PageEarthquake
	PageStatistics
	PageResearch
	PageAbout
	PageContact

	numPages
)

var pageSlugs = [numPages]string{
	PageHome:       "home",
	PageTornado:    "tornado",
	PageHurricane:  "hurricane",
	PageWildfire:   "wildfire",
	PageFlood:      "flood",
	PageEarthquake: "earthquake",
	PageStatistics: "statistics",
	PageResearch:   "research",
	PageAbout:      "about",
	PageContact:    "contact",
}

// Pages returns every PageID in declaration order.
func Pages() []PageID {
	pages := make([]PageID, 0, numPages)
	for p := PageHome; p < numPages; p++ {
		pages = append(pages, p)
	}
	return pages
}

// ParsePageID is the only way to turn user input into a PageID.
func ParsePageID(s string) (PageID, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for p, slug := range pageSlugs {
		if slug == key {
			return PageID(p), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPage, s)
}

func (p PageID) Valid() bool {
	return p < numPages
}

func (p PageID) String() string {
	if !p.Valid() {
		return fmt.Sprintf("PageID(%d)", uint8(p))
	}
	return pageSlugs[p]
}

// Category reports the disaster category shown on p, if p is a category page.
func (p PageID) Category() (Category, bool) {
	switch p {
	case PageTornado:
		return CategoryTornado, true
	case PageHurricane:
		return CategoryHurricane, true
	case PageWildfire:
		return CategoryWildfire, true
	case PageFlood:
		return CategoryFlood, true
	case PageEarthquake:
		return CategoryEarthquake, true
	default:
		return 0, false
	}
}

func (p PageID) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPage, uint8(p))
	}
	return []byte(pageSlugs[p]), nil
}

func (p *PageID) UnmarshalText(text []byte) error {
	parsed, err := ParsePageID(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Category is one of the five disaster kinds covered by the portal.
type Category uint8

const (
	CategoryTornado Category = iota
	CategoryHurricane
	CategoryWildfire
	CategoryFlood
	CategoryEarthquake

	// NumCategories sizes tables indexed by Category.
	NumCategories
)

var categorySlugs = [NumCategories]string{
	CategoryTornado:    "tornado",
	CategoryHurricane:  "hurricane",
	CategoryWildfire:   "wildfire",
	CategoryFlood:      "flood",
	CategoryEarthquake: "earthquake",
}

// Categories returns every Category in declaration order.
func Categories() []Category {
	cats := make([]Category, 0, NumCategories)
	for c := CategoryTornado; c < NumCategories; c++ {
		cats = append(cats, c)
	}
	return cats
}

func ParseCategory(s string) (Category, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for c, slug := range categorySlugs {
		if slug == key {
			return Category(c), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

func (c Category) Valid() bool {
	return c < NumCategories
}

func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Category(%d)", uint8(c))
	}
	return categorySlugs[c]
}

// Page returns the category's own page.
func (c Category) Page() PageID {
	switch c {
	case CategoryTornado:
		return PageTornado
	case CategoryHurricane:
		return PageHurricane
	case CategoryWildfire:
		return PageWildfire
	case CategoryFlood:
		return PageFlood
	case CategoryEarthquake:
		return PageEarthquake
	default:
		panic(fmt.Sprintf("models: no page for %s", c))
	}
}

func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCategory, uint8(c))
	}
	return []byte(categorySlugs[c]), nil
}

func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
