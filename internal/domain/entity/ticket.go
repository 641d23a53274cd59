package entity

import (
	"fmt"
	"strings"
	"time"
)

// Ticket is the output of reissuing one booking. Immutable once attached
// to a completed run.
type Ticket struct {
	OldPNR              string    `json:"oldPnr" bson:"oldPnr"`
	NewPNR              string    `json:"newPnr" bson:"newPnr"`
	PassengerName       string    `json:"passengerName" bson:"passengerName"`
	TicketNumber        string    `json:"ticketNumber" bson:"ticketNumber"`
	CouponSequence      []int     `json:"couponSequence" bson:"couponSequence"`
	NewFlightDescriptor string    `json:"newFlightDescriptor" bson:"newFlightDescriptor"`
	Degraded            bool      `json:"degraded,omitempty" bson:"degraded,omitempty"`
	IssuedAt            time.Time `json:"issuedAt" bson:"issuedAt"`
}

// CouponString renders the coupon sequence for display, e.g. "1, 2, 3"
func (t *Ticket) CouponString() string {
	parts := make([]string, len(t.CouponSequence))
	for i, c := range t.CouponSequence {
		parts[i] = fmt.Sprintf("%d", c)
	}
	return strings.Join(parts, ", ")
}

// CouponRange returns the 1-based coupon sequence [1..n]
func CouponRange(n int) []int {
	if n < 1 {
		n = 1
	}
	coupons := make([]int, n)
	for i := range coupons {
		coupons[i] = i + 1
	}
	return coupons
}
