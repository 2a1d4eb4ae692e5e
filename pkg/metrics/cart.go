package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	cartOpAdd    = "add"
	cartOpMerge  = "merge"
	cartOpRemove = "remove"
	cartOpClear  = "clear"
)

// CartMetrics counts cart mutations. It satisfies cart.Observer.
type CartMetrics struct {
	mutations *prometheus.CounterVec
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Cart mutations by operation.",
	}, []string{"op"})
	reg.MustRegister(mutations)
	return &CartMetrics{mutations: mutations}
}

func (c *CartMetrics) ItemAdded(merged bool) {
	if merged {
		c.inc(cartOpMerge)
		return
	}
	c.inc(cartOpAdd)
}

func (c *CartMetrics) ItemRemoved() {
	c.inc(cartOpRemove)
}

func (c *CartMetrics) Cleared() {
	c.inc(cartOpClear)
}

func (c *CartMetrics) inc(op string) {
	if c == nil || c.mutations == nil {
		return
	}
	c.mutations.WithLabelValues(op).Inc()
}
