package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/mr1hm/go-disaster-hub/internal/models"
)

const chartHeight = 8

// renderBundle draws the body of a page. It sees only the bundle.
func renderBundle(b models.Bundle, width int) string {
	switch b := b.(type) {
	case *models.HomeBundle:
		return renderHome(b, width)
	case *models.CategoryBundle:
		return renderCategory(b, width)
	case *models.StatisticsBundle:
		return renderStatistics(b, width)
	case *models.ResearchBundle:
		return renderResearch(b, width)
	case *models.StaticTextBundle:
		return renderStaticText(b, width)
	default:
		return subtitleStyle.Render(fmt.Sprintf("nothing to show for %s", b.Page()))
	}
}

func renderHome(b *models.HomeBundle, width int) string {
	distribution := make([]bar, len(b.Distribution))
	for i, s := range b.Distribution {
		distribution[i] = bar{label: s.Name, value: float64(s.Value), color: s.Color}
	}
	impact := make([]bar, len(b.EconomicImpact))
	for i, e := range b.EconomicImpact {
		impact[i] = bar{label: e.Name, value: e.Damage}
	}

	markers := make([]string, len(b.Markers))
	for i, m := range b.Markers {
		markers[i] = fmt.Sprintf("%s  %s  %s  (%.1f, %.1f)",
			colored(m.Color).Render("●"), m.Name, subtitleStyle.Render(m.Date+", "+m.Magnitude),
			m.Coordinates.Latitude, m.Coordinates.Longitude)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(b.Title),
		subtitleStyle.Render(b.Subtitle),
		"",
		renderCards(b.Cards, width),
		headingStyle.Render("Trend by category"),
		renderSeries(b.TimeSeries, width),
		"",
		headingStyle.Render("Events in "+b.DistributionPeriod),
		renderBars(distribution, width, humanizeCount),
		"",
		headingStyle.Render("Economic impact"),
		renderBars(impact, width, billions),
		"",
		headingStyle.Render(b.MapTitle),
		subtitleStyle.Render(b.MapSubtitle),
		strings.Join(markers, "\n"),
	)
}

func renderCategory(b *models.CategoryBundle, width int) string {
	stats := make([]string, len(b.Stats))
	for i, s := range b.Stats {
		stats[i] = fmt.Sprintf("%s: %s", subtitleStyle.Render(s.Label), cardValueStyle.Render(s.Value))
	}
	facts := make([]string, len(b.Facts))
	for i, f := range b.Facts {
		facts[i] = "• " + f
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Foreground(lipgloss.Color(b.Color)).Render(b.Icon+"  "+b.Title),
		lipgloss.NewStyle().Width(width).Render(b.Description),
		"",
		headingStyle.Render("Characteristics"),
		strings.Join(stats, "\n"),
		"",
		headingStyle.Render("Facts"),
		lipgloss.NewStyle().Width(width).Render(strings.Join(facts, "\n")),
	)
}

func renderStatistics(b *models.StatisticsBundle, width int) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(b.Title),
		renderCards(b.Cards, width),
		headingStyle.Render("Events per year by category"),
		renderSeries(b.TimeSeries, width),
	)
}

func renderResearch(b *models.ResearchBundle, width int) string {
	papers := make([]string, 0, len(b.Papers))
	for _, p := range b.Papers {
		papers = append(papers, lipgloss.JoinVertical(lipgloss.Left,
			headingStyle.Render(p.Title),
			subtitleStyle.Render(p.Date+" · "+p.Author),
			lipgloss.NewStyle().Width(width).Render(p.Summary),
			"",
		))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(b.Title),
		strings.Join(papers, "\n"),
	)
}

func renderStaticText(b *models.StaticTextBundle, width int) string {
	parts := []string{titleStyle.Render(b.Title)}
	for _, p := range b.Paragraphs {
		parts = append(parts, lipgloss.NewStyle().Width(width).Render(p), "")
	}
	for _, s := range b.Sections {
		parts = append(parts, headingStyle.Render(s.Heading))
		for _, item := range s.Items {
			parts = append(parts, "• "+item)
		}
	}
	for _, c := range b.Contacts {
		parts = append(parts, fmt.Sprintf("%s  %s", subtitleStyle.Render(c.Label), c.Value))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderCards(cards []models.SummaryCard, width int) string {
	if len(cards) == 0 {
		return ""
	}
	cardWidth := max(18, width/min(len(cards), 3)-2)

	rendered := make([]string, len(cards))
	for i, c := range cards {
		rendered[i] = cardStyle.Width(cardWidth).Render(lipgloss.JoinVertical(lipgloss.Left,
			subtitleStyle.Render(c.Title),
			cardValueStyle.Foreground(toneColor(c.Tone)).Render(c.Value),
			subtitleStyle.Render(c.Description),
		))
	}
	return wrapItems(rendered, width)
}

// trendSeries are the categories compared across periods. Wildfire counts run
// two orders of magnitude higher and are left out.
var trendSeries = []struct {
	category models.Category
	color    string
}{
	{models.CategoryTornado, "#0EA5E9"},
	{models.CategoryHurricane, "#1EAEDB"},
	{models.CategoryFlood, "#8A898C"},
	{models.CategoryEarthquake, "#403E43"},
}

// renderSeries draws one group of bars per period, one bar per trend series,
// followed by a table of exact counts.
func renderSeries(points []models.TimeSeriesPoint, width int) string {
	if len(points) == 0 {
		return ""
	}

	group := len(trendSeries) + 1
	barWidth := max(1, min(3, width/(len(points)*group)-1))
	bc := barchart.New(len(points)*group*(barWidth+1), chartHeight,
		barchart.WithBarGap(1),
		barchart.WithBarWidth(barWidth),
		barchart.WithNoAxis(),
	)

	header := []string{fmt.Sprintf("%-8s", "")}
	for _, s := range trendSeries {
		header = append(header, colored(s.color).Render("■")+fmt.Sprintf(" %-11s", s.category))
	}
	rows := []string{strings.Join(header, "")}

	for _, p := range points {
		row := []string{fmt.Sprintf("%-8s", p.Period)}
		for i, s := range trendSeries {
			label := ""
			if i == 0 {
				label = p.Period
			}
			v := p.Metrics[s.category.String()]
			style := colored(s.color)
			bc.Push(barchart.BarData{
				Label: label,
				Values: []barchart.BarValue{
					{Name: s.category.String(), Value: float64(v), Style: style.Background(style.GetForeground())},
				},
			})
			row = append(row, fmt.Sprintf("  %-11s", humanize.Comma(int64(v))))
		}
		// Spacer between periods.
		bc.Push(barchart.BarData{Values: []barchart.BarValue{{Name: "gap", Value: 0}}})
		rows = append(rows, strings.Join(row, ""))
	}
	bc.Draw()

	return lipgloss.JoinVertical(lipgloss.Left, bc.View(), strings.Join(rows, "\n"))
}

type bar struct {
	label string
	value float64
	color string
}

// renderBars draws one bar per entry followed by a legend of exact values.
func renderBars(bars []bar, width int, format func(float64) string) string {
	if len(bars) == 0 {
		return ""
	}

	barWidth := max(1, min(6, (width-len(bars))/len(bars)))
	bc := barchart.New(len(bars)*(barWidth+1), chartHeight,
		barchart.WithBarGap(1),
		barchart.WithBarWidth(barWidth),
		barchart.WithNoAxis(),
	)

	legend := make([]string, len(bars))
	for i, b := range bars {
		style := colored(b.color)
		if b.color == "" {
			style = colored(string(ColorAccent))
		}
		bc.Push(barchart.BarData{
			Label: b.label,
			Values: []barchart.BarValue{
				{Name: b.label, Value: b.value, Style: style.Background(style.GetForeground())},
			},
		})
		legend[i] = fmt.Sprintf("%s %s %s", style.Render("■"), b.label, subtitleStyle.Render(format(b.value)))
	}
	bc.Draw()

	return lipgloss.JoinVertical(lipgloss.Left, bc.View(), strings.Join(legend, "   "))
}

func colored(hex string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
}

func humanizeCount(v float64) string {
	return humanize.Comma(int64(v))
}

func billions(v float64) string {
	return "$" + humanize.Ftoa(v) + "B"
}
