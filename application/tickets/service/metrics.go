package service

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ticketsIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boleteria_tickets_issued_total",
			Help: "Tickets issued, by class bucket (general, preferencial, vip, other)",
		},
		[]string{"class"},
	)

	ticketsRedeemed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "boleteria_tickets_redeemed_total",
			Help: "Tickets moved from Sold to Used",
		},
	)

	ticketDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boleteria_ticket_deliveries_total",
			Help: "Ticket emails by outcome",
		},
		[]string{"status"},
	)
)

// classLabel folds the free-form ticket class into a fixed label set so
// client input cannot grow the number of series.
func classLabel(class string) string {
	switch c := strings.ToLower(strings.TrimSpace(class)); c {
	case "general", "preferencial", "vip":
		return c
	}
	return "other"
}
