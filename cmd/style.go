package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/pterm/pterm"

	"github.com/luca-patrignani/hcoin/ledger"
)

func printBlocks(out io.Writer, blocks []ledger.Block) {
	for i, b := range blocks {
		pterm.Fprintln(out, blockBox(i, b))
	}
}

func blockBox(index int, b ledger.Block) string {
	pbox := pterm.DefaultBox.WithLeftPadding(4).WithRightPadding(4).WithTopPadding(1).WithBottomPadding(1)
	title := pterm.LightYellow(fmt.Sprintf("|BLOCK %d|", index))
	if index == 0 {
		title = pterm.LightGreen("|GENESIS|")
	}
	return pbox.WithTitle(title).WithTitleTopCenter().Sprintf(
		"Payload:       %s\nPrevious hash: %s\nTimestamp:     %d\nNonce:         %d\nHash:          %s",
		b.Payload, b.PreviousHash, b.Timestamp, b.Nonce, pterm.LightCyan(b.Hash),
	)
}

// printMetrics renders the counters gathered while mining.
func printMetrics(out io.Writer, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return err
	}

	data := [][]string{{"Metric", "Value"}}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var value string
			switch {
			case m.GetCounter() != nil:
				value = strconv.FormatFloat(m.GetCounter().GetValue(), 'f', -1, 64)
			case m.GetGauge() != nil:
				value = strconv.FormatFloat(m.GetGauge().GetValue(), 'f', -1, 64)
			case m.GetHistogram() != nil:
				h := m.GetHistogram()
				value = fmt.Sprintf("%d searches, %.3fs", h.GetSampleCount(), h.GetSampleSum())
			default:
				continue
			}
			data = append(data, []string{mf.GetName(), value})
		}
	}

	return pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).WithWriter(out).Render()
}
