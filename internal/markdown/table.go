package markdown

import (
	"strings"

	"github.com/DeprecatedLuke/oh-my-singularity-sub003/internal/textwidth"
)

// maxColumnMinWidth caps the minimum width a single long word can claim
// for its column.
const maxColumnMinWidth = 30

// renderTable renders a markdown table as bordered, width-fitted lines.
// Returns nil when no layout fits (available cell space narrower than
// one column each); the caller falls back to plain wrapped source.
func renderTable(headers []string, rows [][]string, width int) []string {
	cols := len(headers)
	if cols == 0 {
		return nil
	}

	// Border overhead: "| " + " | "*(cols-1) + " |" = 3*cols + 1.
	available := width - (3*cols + 1)
	if available < cols {
		return nil
	}

	natural := make([]int, cols)
	minimum := make([]int, cols)
	measure := func(i int, cell string) {
		plain := stripInline(cell)
		if w := textwidth.LongestLine(plain); w > natural[i] {
			natural[i] = w
		}
		if w := textwidth.LongestWord(plain); w > minimum[i] {
			minimum[i] = w
		}
	}
	for i, h := range headers {
		measure(i, h)
	}
	for _, row := range rows {
		for i := 0; i < cols && i < len(row); i++ {
			measure(i, row[i])
		}
	}
	for i := range minimum {
		if minimum[i] < 1 {
			minimum[i] = 1
		}
		if minimum[i] > maxColumnMinWidth {
			minimum[i] = maxColumnMinWidth
		}
		if natural[i] < minimum[i] {
			natural[i] = minimum[i]
		}
	}

	widths := layoutColumns(natural, minimum, available)

	top := tableBorder("┌", "┬", "┐", widths)
	mid := tableBorder("├", "┼", "┤", widths)
	bot := tableBorder("└", "┴", "┘", widths)

	out := make([]string, 0, len(rows)+4)
	out = append(out, tableBorderStyle.Render(top))
	out = append(out, renderTableRow(headers, widths, true)...)
	out = append(out, tableBorderStyle.Render(mid))
	for _, row := range rows {
		padded := make([]string, cols)
		copy(padded, row)
		out = append(out, renderTableRow(padded, widths, false)...)
	}
	out = append(out, tableBorderStyle.Render(bot))
	return out
}

// layoutColumns fits columns into the available cell budget.
// Three regimes: everything fits at natural width; minimums fit but
// naturals do not (grow from minimums proportional to growth
// potential); even minimums overflow (shrink toward 1, redistributing
// slack proportional to min-1 weights).
func layoutColumns(natural, minimum []int, available int) []int {
	cols := len(natural)
	widths := make([]int, cols)

	sumNat, sumMin := 0, 0
	for i := 0; i < cols; i++ {
		sumNat += natural[i]
		sumMin += minimum[i]
	}

	if sumNat <= available {
		for i := range widths {
			widths[i] = natural[i]
			if widths[i] < minimum[i] {
				widths[i] = minimum[i]
			}
		}
		return widths
	}

	if sumMin > available {
		// Shrink: one column cell each, slack split by (min-1) weight.
		for i := range widths {
			widths[i] = 1
		}
		slack := available - cols
		totalWeight := 0
		for i := 0; i < cols; i++ {
			totalWeight += minimum[i] - 1
		}
		used := 0
		if totalWeight > 0 {
			for i := 0; i < cols; i++ {
				add := slack * (minimum[i] - 1) / totalWeight
				widths[i] += add
				used += add
			}
		}
		// Leftover unit columns round-robin, never past the minimum.
		for left := slack - used; left > 0; {
			progressed := false
			for i := 0; i < cols && left > 0; i++ {
				if widths[i] < minimum[i] {
					widths[i]++
					left--
					progressed = true
				}
			}
			if !progressed {
				break
			}
		}
		return widths
	}

	// Grow: start at minimums, split the gap by growth potential.
	copy(widths, minimum)
	gap := available - sumMin
	totalGrowth := 0
	for i := 0; i < cols; i++ {
		totalGrowth += natural[i] - minimum[i]
	}
	used := 0
	if totalGrowth > 0 {
		for i := 0; i < cols; i++ {
			add := gap * (natural[i] - minimum[i]) / totalGrowth
			widths[i] += add
			used += add
		}
	}
	for left := gap - used; left > 0; {
		progressed := false
		for i := 0; i < cols && left > 0; i++ {
			if widths[i] < natural[i] {
				widths[i]++
				left--
				progressed = true
			}
		}
		if !progressed {
			break
		}
	}
	return widths
}

func tableBorder(left, mid, right string, widths []int) string {
	var b strings.Builder
	b.WriteString(left)
	for i, w := range widths {
		b.WriteString(strings.Repeat("─", w+2))
		if i < len(widths)-1 {
			b.WriteString(mid)
		}
	}
	b.WriteString(right)
	return b.String()
}

// renderTableRow renders one logical row, which spans several terminal
// lines when any cell wraps. Shorter cells are padded with blank lines
// to the tallest cell's height.
func renderTableRow(cells []string, widths []int, isHeader bool) []string {
	cols := len(widths)
	wrapped := make([][]string, cols)
	height := 1
	for i := 0; i < cols; i++ {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		if isHeader {
			cell = stripBold(cell)
		} else {
			// Strip markers before wrapping so measured widths match
			// the rendered text exactly.
			cell = stripInline(cell)
		}
		wrapped[i] = textwidth.Wrap(cell, widths[i])
		if len(wrapped[i]) > height {
			height = len(wrapped[i])
		}
	}

	out := make([]string, 0, height)
	for ln := 0; ln < height; ln++ {
		var b strings.Builder
		b.WriteString(tableBorderStyle.Render("│"))
		for i := 0; i < cols; i++ {
			text := ""
			if ln < len(wrapped[i]) {
				text = wrapped[i][ln]
			}
			var styled string
			if isHeader {
				styled = tableHeaderStyle.Render(text)
			} else {
				styled = applyInline(text)
			}
			pad := widths[i] - textwidth.Visible(styled)
			if pad < 0 {
				styled = textwidth.ClipReset(styled, widths[i])
				pad = widths[i] - textwidth.Visible(styled)
			}
			b.WriteString(" " + styled + strings.Repeat(" ", max(pad, 0)) + " ")
			if i < cols-1 {
				b.WriteString(tableBorderStyle.Render("│"))
			}
		}
		b.WriteString(tableBorderStyle.Render("│"))
		out = append(out, b.String())
	}
	return out
}

// parseTableRow splits a pipe-delimited row into trimmed cells.
func parseTableRow(line string) []string {
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "|")
	line = strings.TrimSuffix(line, "|")
	parts := strings.Split(line, "|")
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}
	return cells
}
