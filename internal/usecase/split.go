package usecase

import (
	"fmt"
	"strings"

	"reissue-service/internal/domain/entity"
)

// DecideReissuance is the split decision policy. Given a booking and the
// impacted flight number it returns the flight descriptor the new ticket
// carries and its 1-based coupon sequence.
//
// Point-to-point bookings and connecting bookings always move as one unit.
// Roundtrips split when exactly one leg is impacted, so passengers never
// reissue an unaffected leg; when the impact is ambiguous (both legs or
// neither) the whole roundtrip moves, which keeps the PNR consistent.
func DecideReissuance(b *entity.Booking, impactedFlightNumber string) (string, []int) {
	it := &b.Itinerary

	switch it.Kind {
	case entity.Connecting:
		flights := it.FlightStrings()
		return strings.Join(flights, " / "), entity.CouponRange(len(flights))

	case entity.Roundtrip:
		outbound := it.Outbound.Flight
		inbound := it.Inbound.Flight

		switch it.LegImpact(impactedFlightNumber) {
		case entity.ImpactOutboundOnly:
			return outbound, entity.CouponRange(entity.CountLegs(outbound))
		case entity.ImpactInboundOnly:
			return inbound, entity.CouponRange(entity.CountLegs(inbound))
		default:
			descriptor := fmt.Sprintf("%s - %s", outbound, inbound)
			total := entity.CountLegs(outbound) + entity.CountLegs(inbound)
			return descriptor, entity.CouponRange(total)
		}

	default:
		return it.Flight.Flight, entity.CouponRange(1)
	}
}
