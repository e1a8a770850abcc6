package models

// NavItem is one entry of the navigation menu. Menu order is significant.
type NavItem struct {
	ID    PageID `json:"id"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

type Stat struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// CategoryProfile is the reference sheet for one disaster category.
type CategoryProfile struct {
	Category    Category `json:"category"`
	Label       string   `json:"label"`   // short name used in menus and charts
	Title       string   `json:"title"`   // page heading
	Icon        string   `json:"icon"`
	Color       string   `json:"color"` // chart colour
	Tone        string   `json:"tone,omitempty"`
	Summary     string   `json:"summary"` // caption on the home summary card
	Description string   `json:"description"`
	Stats       []Stat   `json:"stats"`
	Facts       []string `json:"facts"`
}

// TimeSeriesPoint holds event counts for one period keyed by category slug.
type TimeSeriesPoint struct {
	Period  string         `json:"period"`
	Metrics map[string]int `json:"metrics"`
}

type DistributionSlice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

type EconomicImpactEntry struct {
	Category Category `json:"category"`
	Name     string   `json:"name"`
	Damage   float64  `json:"damage"` // billions USD per year
}

type Coordinates struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// Valid reports whether c lies on the WGS-84 globe.
func (c Coordinates) Valid() bool {
	return c.Longitude >= -180 && c.Longitude <= 180 &&
		c.Latitude >= -90 && c.Latitude <= 90
}

// EventMarker is a recent disaster pinned on the world map.
type EventMarker struct {
	Name        string      `json:"name"`
	Coordinates Coordinates `json:"coordinates"`
	Category    Category    `json:"category"`
	Date        string      `json:"date"`
	Magnitude   string      `json:"magnitude"` // free-form, e.g. "7.8" or "EF-4"
	Color       string      `json:"color"`
}

// SummaryCard is a headline number shown on the home and statistics pages.
type SummaryCard struct {
	Icon        string `json:"icon,omitempty"`
	Title       string `json:"title"`
	Value       string `json:"value"`
	Description string `json:"description"`
	Tone        string `json:"tone,omitempty"`
}

type ResearchPaper struct {
	Title   string `json:"title" yaml:"title"`
	Date    string `json:"date" yaml:"date"`
	Author  string `json:"author" yaml:"author"`
	Summary string `json:"summary" yaml:"summary"`
}

type ContactField struct {
	Icon  string `json:"icon" yaml:"icon"`
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

type TextSection struct {
	Heading string   `json:"heading" yaml:"heading"`
	Items   []string `json:"items" yaml:"items"`
}
