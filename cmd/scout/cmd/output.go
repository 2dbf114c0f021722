package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	domain "github.com/resellkit/listing-scout/pkg/types"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printOpportunityTable(results []domain.OpportunityResult) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ASIN\tTITLE\tPRICE\tCOST\tMARGIN\tSCORE\tBAND\tACTION\n")
	for i := range results {
		r := &results[i]
		margin := "-"
		if r.Profit != nil {
			margin = fmt.Sprintf("%.1f%%", r.Profit.NetMarginPct)
		}
		tw.writef("%s\t%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			r.ASIN,
			truncate(r.Title, 40),
			formatMoney(r.Price),
			formatMoney(r.Cost),
			margin,
			r.Score.Value,
			r.Score.Band,
			r.Action,
		)
	}
	return tw.finish()
}

func printOpportunityDetail(r *domain.OpportunityResult) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ASIN:\t%s\n", r.ASIN)
	tw.writef("Title:\t%s\n", r.Title)
	tw.writef("Price:\t%s\n", formatMoney(r.Price))
	tw.writef("Cost:\t%s\n", formatMoney(r.Cost))
	tw.writef("BOM:\t%s (%s)\n", r.Bom.SKU, r.Bom.Source)
	if r.Profit != nil {
		tw.writef("Net Profit:\t%s\n", formatMoney(domain.NewMoney(r.Profit.NetProfit)))
		tw.writef("Net Margin:\t%.1f%%\n", r.Profit.NetMarginPct)
		tw.writef("ROI:\t%.1f%%\n", r.Profit.ROIPct)
	}
	if r.TargetPrice != nil && r.TargetPrice.Achievable {
		tw.writef("Target Price:\t%s (%.1f%% margin)\n",
			formatMoney(r.TargetPrice.Price), r.TargetPrice.AchievedMarginPct)
	}
	if r.Feasibility != nil {
		tw.writef("Buildable:\t%d units\n", r.Feasibility.BuildableUnits)
		if r.Feasibility.BottleneckSKU != "" {
			tw.writef("Bottleneck:\t%s\n", r.Feasibility.BottleneckSKU)
		}
	}
	if r.Demand.UnitsPerDay != nil {
		tw.writef("Demand:\t%.2f/day (%s)\n", *r.Demand.UnitsPerDay, r.Demand.Source)
	}
	tw.writef("Score:\t%d/100 (%s)\n", r.Score.Value, r.Score.Band)
	tw.writef("Action:\t%s\n", r.Action)
	for _, reason := range r.Score.Reasons {
		tw.writef("  %s:\t%+.1f\t%s\n", reason.Code, reason.Weight, reason.Detail)
	}
	return tw.finish()
}

func printComponentTable(components []domain.Component) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID\tSKU\tBRAND\tCOST\tDESCRIPTION\n")
	for i := range components {
		c := &components[i]
		tw.writef("%s\t%s\t%s\t%s\t%s\n",
			c.ID,
			c.SKU,
			c.Brand,
			formatMoney(c.UnitCost),
			truncate(c.Description, 40),
		)
	}
	return tw.finish()
}

func printBomTable(boms []domain.BillOfMaterials) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID\tSKU\tLINES\tCOST\tACTIVE\n")
	for i := range boms {
		b := &boms[i]
		tw.writef("%s\t%s\t%d\t%s\t%v\n",
			b.ID,
			b.SKU,
			len(b.Lines),
			formatMoney(b.CostOfGoods()),
			b.Active,
		)
	}
	return tw.finish()
}

func printBomDetail(b *domain.BillOfMaterials) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID:\t%s\n", b.ID)
	tw.writef("SKU:\t%s\n", b.SKU)
	tw.writef("Description:\t%s\n", b.Description)
	tw.writef("Active:\t%v\n", b.Active)
	tw.writef("Cost of Goods:\t%s\n", formatMoney(b.CostOfGoods()))
	tw.writef("Lines:\n")
	for _, line := range b.Lines {
		tw.writef("  %s\tx%d\t%s\n", line.ComponentSKU, line.Quantity, formatMoney(line.UnitCost))
	}
	return tw.finish()
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatMoney renders minor units as pounds, or "-" when unknown.
func formatMoney(m domain.Money) string {
	if !m.Known {
		return "-"
	}
	return fmt.Sprintf("\u00a3%.2f", float64(m.Amount)/100)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
