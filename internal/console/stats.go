package console

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"

	"github.com/yogastudio/yoga/internal/prom"
)

func (c *Console) stats(context.Context, []string) error {
	if c.opts.Gatherer == nil {
		return errors.New("metrics are not collected")
	}
	families, err := c.opts.Gatherer.Gather()
	if err != nil {
		return errors.Wrap(err, "gathering metrics")
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Metric", "Labels", "Value"})
	table.SetAutoWrapText(false)
	rows := 0
	prefix := prom.Namespace + "_"
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), prefix) {
			continue
		}
		for _, m := range mf.GetMetric() {
			var value string
			switch {
			case m.GetCounter() != nil:
				value = strconv.FormatFloat(m.GetCounter().GetValue(), 'f', -1, 64)
			case m.GetHistogram() != nil:
				h := m.GetHistogram()
				value = fmt.Sprintf("%d calls, %.3fs", h.GetSampleCount(), h.GetSampleSum())
			default:
				continue
			}
			labels := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			table.Append([]string{
				strings.TrimPrefix(mf.GetName(), prefix), strings.Join(labels, ","), value,
			})
			rows++
		}
	}
	if rows == 0 {
		c.printf("No metrics yet.\n")
		return nil
	}
	table.Render()
	c.printf("%s", buf.String())
	return nil
}
