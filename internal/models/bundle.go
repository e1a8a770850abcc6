package models

// BundleKind tags the variant of a resolved Bundle.
type BundleKind string

const (
	KindHome       BundleKind = "home"
	KindCategory   BundleKind = "category"
	KindStatistics BundleKind = "statistics"
	KindResearch   BundleKind = "research"
	KindStaticText BundleKind = "static_text"
)

// Bundle is the render-ready content for one page. Renderers switch on Kind
// and must never reach past a Bundle into the reference tables.
type Bundle interface {
	Kind() BundleKind
	Page() PageID
}

// Envelope is the wire form of a Bundle.
type Envelope struct {
	Kind    BundleKind `json:"kind"`
	Page    PageID     `json:"page"`
	Content Bundle     `json:"content"`
}

func Wrap(b Bundle) Envelope {
	return Envelope{Kind: b.Kind(), Page: b.Page(), Content: b}
}

// HomeBundle aggregates everything on the landing page. Markers are never filtered.
type HomeBundle struct {
	Title              string                `json:"title"`
	Subtitle           string                `json:"subtitle"`
	Cards              []SummaryCard         `json:"cards"`
	TimeSeries         []TimeSeriesPoint     `json:"time_series"`
	DistributionPeriod string                `json:"distribution_period"`
	Distribution       []DistributionSlice   `json:"distribution"`
	EconomicImpact     []EconomicImpactEntry `json:"economic_impact"`
	MapTitle           string                `json:"map_title"`
	MapSubtitle        string                `json:"map_subtitle"`
	Markers            []EventMarker         `json:"markers"`
}

func (HomeBundle) Kind() BundleKind { return KindHome }
func (HomeBundle) Page() PageID     { return PageHome }

type CategoryBundle struct {
	CategoryProfile
}

func (CategoryBundle) Kind() BundleKind { return KindCategory }
func (b CategoryBundle) Page() PageID   { return b.Category.Page() }

// StatisticsSummary holds the rolled-up scalars of the statistics page.
// TotalEvents and EconomicDamage are derived from the tables; AffectedPopulation
// has no backing table and is a presentation constant.
type StatisticsSummary struct {
	Period             string  `json:"period"`
	TotalEvents        int     `json:"total_events"`
	AffectedPopulation string  `json:"affected_population"`
	EconomicDamage     float64 `json:"economic_damage"`
}

type StatisticsBundle struct {
	Title      string            `json:"title"`
	TimeSeries []TimeSeriesPoint `json:"time_series"`
	Summary    StatisticsSummary `json:"summary"`
	Cards      []SummaryCard     `json:"cards"`
}

func (StatisticsBundle) Kind() BundleKind { return KindStatistics }
func (StatisticsBundle) Page() PageID     { return PageStatistics }

type ResearchBundle struct {
	Title  string          `json:"title"`
	Papers []ResearchPaper `json:"papers"`
}

func (ResearchBundle) Kind() BundleKind { return KindResearch }
func (ResearchBundle) Page() PageID     { return PageResearch }

// StaticTextBundle serves the about and contact pages.
type StaticTextBundle struct {
	PageID     PageID         `json:"-"`
	Title      string         `json:"title"`
	Paragraphs []string       `json:"paragraphs,omitempty"`
	Sections   []TextSection  `json:"sections,omitempty"`
	Contacts   []ContactField `json:"contacts,omitempty"`
}

func (StaticTextBundle) Kind() BundleKind { return KindStaticText }
func (b StaticTextBundle) Page() PageID   { return b.PageID }
