package inventory

import "github.com/prometheus/client_golang/prometheus"

// RegisterStoreMetrics exposes the current collection sizes as gauges read at scrape time.
func RegisterStoreMetrics(reg prometheus.Registerer, s *MemStore) {
	gauge := func(name, help string, pick func(products, suppliers, links int) int) prometheus.GaugeFunc {
		return prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{Namespace: "inventory", Name: name, Help: help},
			func() float64 { return float64(pick(s.Counts())) },
		)
	}

	reg.MustRegister(
		gauge("products", "Products currently stored", func(p, _, _ int) int { return p }),
		gauge("suppliers", "Suppliers currently stored", func(_, sp, _ int) int { return sp }),
		gauge("associations", "Product/supplier associations currently stored", func(_, _, a int) int { return a }),
	)
}
