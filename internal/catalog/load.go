package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mr1hm/go-disaster-hub/internal/models"
)

var ErrInvalidCatalog = errors.New("invalid catalog")

//go:embed data/catalog.yaml
var defaultDocument []byte

// Default returns the catalog embedded in the binary.
func Default() (*Catalog, error) {
	return Parse(defaultDocument)
}

// Load reads a catalog document from path. An empty path means Default.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading catalog: %w", err)
	}
	return Parse(data)
}

type document struct {
	Brand          string                `yaml:"brand"`
	Footer         string                `yaml:"footer"`
	Navigation     []navEntry            `yaml:"navigation"`
	Categories     map[string]profileDoc `yaml:"categories"`
	TimeSeries     []timeSeriesDoc       `yaml:"time_series"`
	EconomicImpact []impactDoc           `yaml:"economic_impact"`
	Markers        []markerDoc           `yaml:"markers"`
	Home           homeDoc               `yaml:"home"`
	Statistics     statisticsDoc         `yaml:"statistics"`
	Research       researchDoc           `yaml:"research"`
	About          aboutDoc              `yaml:"about"`
	Contact        contactDoc            `yaml:"contact"`
}

type navEntry struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
	Icon  string `yaml:"icon"`
}

type profileDoc struct {
	Label       string        `yaml:"label"`
	Title       string        `yaml:"title"`
	Icon        string        `yaml:"icon"`
	Color       string        `yaml:"color"`
	Tone        string        `yaml:"tone"`
	Summary     string        `yaml:"summary"`
	Description string        `yaml:"description"`
	Stats       []models.Stat `yaml:"stats"`
	Facts       []string      `yaml:"facts"`
}

type timeSeriesDoc struct {
	Period  string         `yaml:"period"`
	Metrics map[string]int `yaml:"metrics"`
}

type impactDoc struct {
	Category string  `yaml:"category"`
	Damage   float64 `yaml:"damage"`
}

type markerDoc struct {
	Name        string    `yaml:"name"`
	Coordinates []float64 `yaml:"coordinates"` // [lon, lat]
	Category    string    `yaml:"category"`
	Date        string    `yaml:"date"`
	Magnitude   string    `yaml:"magnitude"`
	Color       string    `yaml:"color"`
}

type cardDoc struct {
	Icon        string `yaml:"icon"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Tone        string `yaml:"tone"`
}

func (c cardDoc) card() models.SummaryCard {
	return models.SummaryCard{Icon: c.Icon, Title: c.Title, Description: c.Description, Tone: c.Tone}
}

type homeDoc struct {
	Title       string  `yaml:"title"`
	Subtitle    string  `yaml:"subtitle"`
	MapTitle    string  `yaml:"map_title"`
	MapSubtitle string  `yaml:"map_subtitle"`
	DamageCard  cardDoc `yaml:"damage_card"`
}

type statisticsDoc struct {
	Title              string  `yaml:"title"`
	AffectedPopulation string  `yaml:"affected_population"`
	TotalCard          cardDoc `yaml:"total_card"`
	PopulationCard     cardDoc `yaml:"population_card"`
	DamageCard         cardDoc `yaml:"damage_card"`
}

type researchDoc struct {
	Title  string                 `yaml:"title"`
	Papers []models.ResearchPaper `yaml:"papers"`
}

type aboutDoc struct {
	Title      string               `yaml:"title"`
	Paragraphs []string             `yaml:"paragraphs"`
	Sections   []models.TextSection `yaml:"sections"`
}

type contactDoc struct {
	Title  string                `yaml:"title"`
	Fields []models.ContactField `yaml:"fields"`
}

// Parse decodes and validates a catalog document. All defects are reported
// together, joined under ErrInvalidCatalog.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("error decoding catalog: %w", err)
	}

	b := &builder{cat: &Catalog{
		Brand:  doc.Brand,
		Footer: doc.Footer,
		Home: HomeText{
			Title:       doc.Home.Title,
			Subtitle:    doc.Home.Subtitle,
			MapTitle:    doc.Home.MapTitle,
			MapSubtitle: doc.Home.MapSubtitle,
			DamageCard:  doc.Home.DamageCard.card(),
		},
		Statistics: StatisticsText{
			Title:              doc.Statistics.Title,
			AffectedPopulation: doc.Statistics.AffectedPopulation,
			TotalCard:          doc.Statistics.TotalCard.card(),
			PopulationCard:     doc.Statistics.PopulationCard.card(),
			DamageCard:         doc.Statistics.DamageCard.card(),
		},
		Research: ResearchText{Title: doc.Research.Title, Papers: doc.Research.Papers},
		About:    AboutText{Title: doc.About.Title, Paragraphs: doc.About.Paragraphs, Sections: doc.About.Sections},
		Contact:  ContactText{Title: doc.Contact.Title, Fields: doc.Contact.Fields},
	}}

	b.navigation(doc.Navigation)
	b.profiles(doc.Categories)
	b.timeSeries(doc.TimeSeries)
	b.economicImpact(doc.EconomicImpact)
	b.markers(doc.Markers)

	if len(b.errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, errors.Join(b.errs...))
	}
	return b.cat, nil
}

type builder struct {
	cat  *Catalog
	errs []error
}

func (b *builder) fail(format string, args ...any) {
	b.errs = append(b.errs, fmt.Errorf(format, args...))
}

func (b *builder) navigation(entries []navEntry) {
	seen := make(map[models.PageID]bool, len(entries))
	for i, e := range entries {
		id, err := models.ParsePageID(e.ID)
		if err != nil {
			b.fail("navigation[%d]: %w", i, err)
			continue
		}
		if seen[id] {
			b.fail("navigation[%d]: duplicate page %s", i, id)
			continue
		}
		seen[id] = true
		if strings.TrimSpace(e.Label) == "" {
			b.fail("navigation[%d]: page %s has no label", i, id)
		}
		b.cat.Navigation = append(b.cat.Navigation, models.NavItem{ID: id, Label: e.Label, Icon: e.Icon})
	}
	for _, p := range models.Pages() {
		if !seen[p] {
			b.fail("navigation: page %s is missing", p)
		}
	}
}

func (b *builder) profiles(docs map[string]profileDoc) {
	var have [models.NumCategories]bool
	for key, d := range docs {
		cat, err := models.ParseCategory(key)
		if err != nil {
			b.fail("categories: %w", err)
			continue
		}
		// ParseCategory normalises case, so two keys can name one category.
		if have[cat] {
			b.fail("categories: duplicate profile for %s", cat)
			continue
		}
		have[cat] = true

		if d.Title == "" {
			b.fail("categories.%s: title is required", cat)
		}
		if len(d.Stats) == 0 {
			b.fail("categories.%s: at least one stat is required", cat)
		}
		if len(d.Facts) == 0 {
			b.fail("categories.%s: at least one fact is required", cat)
		}
		label := d.Label
		if label == "" {
			label = d.Title
		}
		b.cat.Profiles[cat] = models.CategoryProfile{
			Category:    cat,
			Label:       label,
			Title:       d.Title,
			Icon:        d.Icon,
			Color:       d.Color,
			Tone:        d.Tone,
			Summary:     d.Summary,
			Description: d.Description,
			Stats:       d.Stats,
			Facts:       d.Facts,
		}
	}
	for _, cat := range models.Categories() {
		if !have[cat] {
			b.fail("categories: missing profile for %s", cat)
		}
	}
}

func (b *builder) timeSeries(docs []timeSeriesDoc) {
	if len(docs) == 0 {
		b.fail("time_series: at least one period is required")
		return
	}

	want := make([]string, 0, models.NumCategories)
	for _, cat := range models.Categories() {
		want = append(want, cat.String())
	}
	slices.Sort(want)

	periods := make(map[string]bool, len(docs))
	for i, d := range docs {
		if d.Period == "" {
			b.fail("time_series[%d]: period is required", i)
		} else if periods[d.Period] {
			b.fail("time_series[%d]: duplicate period %s", i, d.Period)
		}
		periods[d.Period] = true

		keys := make([]string, 0, len(d.Metrics))
		for k, v := range d.Metrics {
			keys = append(keys, k)
			if v < 0 {
				b.fail("time_series[%d]: negative count %d for %s", i, v, k)
			}
		}
		slices.Sort(keys)
		if !slices.Equal(keys, want) {
			b.fail("time_series[%d]: metric keys %v, want %v", i, keys, want)
		}

		b.cat.TimeSeries = append(b.cat.TimeSeries, models.TimeSeriesPoint{Period: d.Period, Metrics: d.Metrics})
	}
}

func (b *builder) economicImpact(docs []impactDoc) {
	for i, d := range docs {
		cat, err := models.ParseCategory(d.Category)
		if err != nil {
			b.fail("economic_impact[%d]: %w", i, err)
			continue
		}
		if d.Damage < 0 {
			b.fail("economic_impact[%d]: negative damage %v", i, d.Damage)
		}
		b.cat.EconomicImpact = append(b.cat.EconomicImpact, models.EconomicImpactEntry{
			Category: cat,
			Name:     b.cat.Profiles[cat].Label,
			Damage:   d.Damage,
		})
	}
}

func (b *builder) markers(docs []markerDoc) {
	for i, d := range docs {
		cat, err := models.ParseCategory(d.Category)
		if err != nil {
			b.fail("markers[%d]: %w", i, err)
			continue
		}
		if len(d.Coordinates) != 2 {
			b.fail("markers[%d] %q: coordinates must be [lon, lat]", i, d.Name)
			continue
		}
		coords := models.Coordinates{Longitude: d.Coordinates[0], Latitude: d.Coordinates[1]}
		if !coords.Valid() {
			b.fail("markers[%d] %q: coordinates (%v, %v) out of range", i, d.Name, coords.Longitude, coords.Latitude)
			continue
		}
		color := d.Color
		if color == "" {
			color = b.cat.Profiles[cat].Color
		}
		b.cat.Markers = append(b.cat.Markers, models.EventMarker{
			Name:        d.Name,
			Coordinates: coords,
			Category:    cat,
			Date:        d.Date,
			Magnitude:   d.Magnitude,
			Color:       color,
		})
	}
}
