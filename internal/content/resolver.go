// Package content turns a page identifier into the bundle a renderer draws.
package content

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/mr1hm/go-disaster-hub/internal/catalog"
	"github.com/mr1hm/go-disaster-hub/internal/models"
)

// Resolver is a pure function of its catalog: the same page always yields an
// equal bundle, and resolving never mutates the catalog or any navigation state.
type Resolver struct {
	cat *catalog.Catalog
}

func NewResolver(cat *catalog.Catalog) *Resolver {
	return &Resolver{cat: cat}
}

// Resolve panics for a PageID outside the enumeration; such a value can only
// come from a programming error since every boundary parses with models.ParsePageID.
func (r *Resolver) Resolve(page models.PageID) models.Bundle {
	switch page {
	case models.PageHome:
		return r.home()
	case models.PageTornado, models.PageHurricane, models.PageWildfire, models.PageFlood, models.PageEarthquake:
		cat, _ := page.Category()
		return r.category(cat)
	case models.PageStatistics:
		return r.statistics()
	case models.PageResearch:
		return r.research()
	case models.PageAbout:
		return r.about()
	case models.PageContact:
		return r.contact()
	default:
		panic(fmt.Sprintf("content: no bundle for %s", page))
	}
}

func (r *Resolver) home() *models.HomeBundle {
	latest := r.cat.Latest()

	cards := make([]models.SummaryCard, 0, models.NumCategories+1)
	for _, c := range models.Categories() {
		p := r.cat.Profile(c)
		cards = append(cards, models.SummaryCard{
			Icon:        p.Icon,
			Title:       p.Label,
			Value:       humanize.Comma(int64(latest.Metrics[c.String()])),
			Description: p.Summary,
			Tone:        p.Tone,
		})
	}
	damage := r.cat.Home.DamageCard
	damage.Value = formatDamage(r.cat.TotalDamage())
	cards = append(cards, damage)

	return &models.HomeBundle{
		Title:              r.cat.Home.Title,
		Subtitle:           r.cat.Home.Subtitle,
		Cards:              cards,
		TimeSeries:         r.timeSeries(),
		DistributionPeriod: latest.Period,
		Distribution:       r.distribution(latest),
		EconomicImpact:     slices.Clone(r.cat.EconomicImpact),
		MapTitle:           r.cat.Home.MapTitle,
		MapSubtitle:        r.cat.Home.MapSubtitle,
		Markers:            slices.Clone(r.cat.Markers),
	}
}

func (r *Resolver) category(c models.Category) *models.CategoryBundle {
	p := r.cat.Profile(c)
	p.Stats = slices.Clone(p.Stats)
	p.Facts = slices.Clone(p.Facts)
	return &models.CategoryBundle{CategoryProfile: p}
}

func (r *Resolver) statistics() *models.StatisticsBundle {
	latest := r.cat.Latest()
	text := r.cat.Statistics

	summary := models.StatisticsSummary{
		Period:             latest.Period,
		TotalEvents:        catalog.TotalEvents(latest),
		AffectedPopulation: text.AffectedPopulation,
		EconomicDamage:     r.cat.TotalDamage(),
	}

	total := text.TotalCard
	total.Value = humanize.Comma(int64(summary.TotalEvents))
	total.Description = strings.ReplaceAll(total.Description, "{period}", latest.Period)
	population := text.PopulationCard
	population.Value = summary.AffectedPopulation
	damage := text.DamageCard
	damage.Value = formatDamage(summary.EconomicDamage)

	return &models.StatisticsBundle{
		Title:      text.Title,
		TimeSeries: r.timeSeries(),
		Summary:    summary,
		Cards:      []models.SummaryCard{total, population, damage},
	}
}

func (r *Resolver) research() *models.ResearchBundle {
	return &models.ResearchBundle{
		Title:  r.cat.Research.Title,
		Papers: slices.Clone(r.cat.Research.Papers),
	}
}

func (r *Resolver) about() *models.StaticTextBundle {
	sections := make([]models.TextSection, len(r.cat.About.Sections))
	for i, s := range r.cat.About.Sections {
		sections[i] = models.TextSection{Heading: s.Heading, Items: slices.Clone(s.Items)}
	}
	return &models.StaticTextBundle{
		PageID:     models.PageAbout,
		Title:      r.cat.About.Title,
		Paragraphs: slices.Clone(r.cat.About.Paragraphs),
		Sections:   sections,
	}
}

func (r *Resolver) contact() *models.StaticTextBundle {
	return &models.StaticTextBundle{
		PageID:   models.PageContact,
		Title:    r.cat.Contact.Title,
		Contacts: slices.Clone(r.cat.Contact.Fields),
	}
}

func (r *Resolver) timeSeries() []models.TimeSeriesPoint {
	out := make([]models.TimeSeriesPoint, len(r.cat.TimeSeries))
	for i, p := range r.cat.TimeSeries {
		metrics := make(map[string]int, len(p.Metrics))
		for k, v := range p.Metrics {
			metrics[k] = v
		}
		out[i] = models.TimeSeriesPoint{Period: p.Period, Metrics: metrics}
	}
	return out
}

// distribution splits one period's counts into chart slices in category order.
func (r *Resolver) distribution(p models.TimeSeriesPoint) []models.DistributionSlice {
	out := make([]models.DistributionSlice, 0, models.NumCategories)
	for _, c := range models.Categories() {
		profile := r.cat.Profile(c)
		out = append(out, models.DistributionSlice{
			Name:  profile.Label,
			Value: p.Metrics[c.String()],
			Color: profile.Color,
		})
	}
	return out
}

func formatDamage(billions float64) string {
	return "$" + humanize.Ftoa(roundTenth(billions)) + "B"
}

func roundTenth(v float64) float64 {
	return float64(int64(v*10+0.5)) / 10
}
