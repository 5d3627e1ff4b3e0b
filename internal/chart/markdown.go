package chart

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"gfp-rankings/internal/ranking"
)

// WriteMarkdown writes the positions as a country x year table.
func WriteMarkdown(w io.Writer, series ranking.PositionSeries, years []string, source string) error {
	md := markdown.NewMarkdown(w)
	md.H1(DefaultTitle)
	md.PlainText("")
	if source != "" {
		md.PlainTextf("Source: %s", source)
		md.PlainText("")
	}

	if len(series) == 0 {
		md.PlainText("No countries selected.")
		return md.Build()
	}

	header := append([]string{"Country"}, years...)
	rows := make([][]string, 0, len(series))
	for _, s := range series {
		row := make([]string, 0, len(s.Positions)+1)
		row = append(row, s.Country)
		for _, p := range s.Positions {
			row = append(row, strconv.Itoa(p))
		}
		rows = append(rows, row)
	}
	md.Table(markdown.TableSet{Header: header, Rows: rows})
	return md.Build()
}
