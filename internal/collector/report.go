package collector

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/sa03134/soomgo-competitor-tracker/internal/models"
	"github.com/sa03134/soomgo-competitor-tracker/internal/structures"
)

func NewTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

// RenderReport prints one row per entity of the pass.
func RenderReport(w io.Writer, report *models.PassReport, entities []structures.EntityConfig) {
	names := make(map[string]string, len(entities))
	for _, e := range entities {
		names[e.ID] = e.DisplayName
	}

	t := NewTable(w)
	t.AppendHeader(table.Row{"Entity", "Name", "Outcome", "Hirings", "Reviews", "Rating", "Strategies", "Error"})
	for _, e := range report.Entities {
		row := table.Row{e.EntityID, names[e.EntityID], string(e.Outcome), "-", "-", "-", "", ""}
		if r := e.Result; r != nil {
			row[3] = metricText(r, models.MetricHirings, r.Hirings)
			row[4] = metricText(r, models.MetricReviews, r.Reviews)
			row[5] = r.RatingText()
			row[6] = strategies(r)
		}
		if e.Err != nil {
			row[7] = e.Err.Error()
		}
		t.AppendRow(row)
	}
	t.AppendFooter(table.Row{"", "", report.Duration().Round(time.Millisecond).String(), "", "", "",
		strconv.Itoa(report.Count(models.OutcomeStored)) + "/" + strconv.Itoa(len(report.Entities)) + " stored", ""})
	t.Render()
}

// RenderEntities prints the configured entity list.
func RenderEntities(w io.Writer, entities []structures.EntityConfig, storage func(id string) string) {
	t := NewTable(w)
	t.AppendHeader(table.Row{"#", "ID", "Name", "Profile URL", "History file"})
	for i, e := range entities {
		t.AppendRow(table.Row{i + 1, e.ID, e.DisplayName, e.ProfileURL, storage(e.ID)})
	}
	t.Render()
}

func metricText(r *models.ExtractionResult, m models.Metric, v int) string {
	if r.Strategy(m) == "" {
		return "-"
	}
	return strconv.Itoa(v)
}

func strategies(r *models.ExtractionResult) string {
	parts := make([]string, 0, 3)
	for _, m := range []models.Metric{models.MetricHirings, models.MetricReviews, models.MetricRating} {
		if s := r.Strategy(m); s != "" {
			parts = append(parts, string(m)+"="+s)
		}
	}
	return strings.Join(parts, " ")
}
