// Package catalog holds the static reference tables behind every page:
// category profiles, the yearly event counts, economic impact, map markers
// and the text of the research, about and contact pages.
//
// A Catalog is built once at start-up by Default, Load or Parse, which reject
// any document that would leave a page without content. After that it is
// read-only and safe to share between goroutines.
package catalog

import (
	"fmt"

	"github.com/mr1hm/go-disaster-hub/internal/models"
)

type Catalog struct {
	Brand  string
	Footer string

	Navigation     []models.NavItem
	Profiles       [models.NumCategories]models.CategoryProfile
	TimeSeries     []models.TimeSeriesPoint
	EconomicImpact []models.EconomicImpactEntry
	Markers        []models.EventMarker

	Home       HomeText
	Statistics StatisticsText
	Research   ResearchText
	About      AboutText
	Contact    ContactText
}

type HomeText struct {
	Title       string
	Subtitle    string
	MapTitle    string
	MapSubtitle string
	DamageCard  models.SummaryCard
}

// StatisticsText carries the statistics page copy. AffectedPopulation is a
// presentation constant: no table in the catalog backs it.
type StatisticsText struct {
	Title              string
	AffectedPopulation string
	TotalCard          models.SummaryCard
	PopulationCard     models.SummaryCard
	DamageCard         models.SummaryCard
}

type ResearchText struct {
	Title  string
	Papers []models.ResearchPaper
}

type AboutText struct {
	Title      string
	Paragraphs []string
	Sections   []models.TextSection
}

type ContactText struct {
	Title  string
	Fields []models.ContactField
}

// Profile returns the profile of c. Every valid category has one.
func (c *Catalog) Profile(cat models.Category) models.CategoryProfile {
	if !cat.Valid() {
		panic(fmt.Sprintf("catalog: profile lookup for %s", cat))
	}
	return c.Profiles[cat]
}

// Latest returns the most recent time-series point.
func (c *Catalog) Latest() models.TimeSeriesPoint {
	return c.TimeSeries[len(c.TimeSeries)-1]
}

// TotalDamage sums the economic impact table, in billions USD.
func (c *Catalog) TotalDamage() float64 {
	var total float64
	for _, e := range c.EconomicImpact {
		total += e.Damage
	}
	return total
}

// TotalEvents sums every category count of a time-series point.
func TotalEvents(p models.TimeSeriesPoint) int {
	total := 0
	for _, n := range p.Metrics {
		total += n
	}
	return total
}
