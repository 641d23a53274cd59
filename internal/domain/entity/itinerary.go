package entity

import (
	"strings"
	"time"
)

// ItineraryKind tags the shape of a booking's itinerary
type ItineraryKind string

const (
	PointToPoint ItineraryKind = "POINT_TO_POINT"
	Connecting   ItineraryKind = "CONNECTING"
	Roundtrip    ItineraryKind = "ROUNDTRIP"
)

// LegImpact describes which legs of a roundtrip a flight number touches
type LegImpact int

const (
	ImpactNeither LegImpact = iota
	ImpactOutboundOnly
	ImpactInboundOnly
	ImpactBoth
)

// FlightLeg is one directional leg. Flight may be a "/"-joined compound
// string ("576/101") when the leg itself chains multiple flights.
type FlightLeg struct {
	Flight string    `json:"flight" bson:"flight"`
	Origin string    `json:"origin" bson:"origin"`
	Dest   string    `json:"dest" bson:"dest"`
	Date   time.Time `json:"date" bson:"date"`
	Time   string    `json:"time" bson:"time"`
	Status string    `json:"status" bson:"status"`
}

// FlightSegment is one flight hop within a connecting itinerary
type FlightSegment struct {
	Flight string    `json:"flight" bson:"flight"`
	Origin string    `json:"origin" bson:"origin"`
	Dest   string    `json:"dest" bson:"dest"`
	Date   time.Time `json:"date" bson:"date"`
	Time   string    `json:"time" bson:"time"`
	Status string    `json:"status" bson:"status"`
}

// Itinerary is a tagged variant over the three journey shapes. Exactly one
// of Flight, Segments, or Outbound+Inbound is populated, matching Kind.
type Itinerary struct {
	Kind     ItineraryKind   `json:"kind" bson:"kind"`
	Flight   *FlightLeg      `json:"flight,omitempty" bson:"flight,omitempty"`
	Segments []FlightSegment `json:"segments,omitempty" bson:"segments,omitempty"`
	Outbound *FlightLeg      `json:"outbound,omitempty" bson:"outbound,omitempty"`
	Inbound  *FlightLeg      `json:"inbound,omitempty" bson:"inbound,omitempty"`
}

// NewPointToPoint builds a single-flight itinerary
func NewPointToPoint(leg FlightLeg) Itinerary {
	return Itinerary{Kind: PointToPoint, Flight: &leg}
}

// NewConnecting builds a one-way multi-segment itinerary
func NewConnecting(segments ...FlightSegment) Itinerary {
	return Itinerary{Kind: Connecting, Segments: segments}
}

// NewRoundtrip builds an outbound+inbound itinerary
func NewRoundtrip(outbound, inbound FlightLeg) Itinerary {
	return Itinerary{Kind: Roundtrip, Outbound: &outbound, Inbound: &inbound}
}

// FlightStrings returns every flight descriptor carried by the itinerary,
// one entry per point-to-point flight, segment, or roundtrip leg.
func (it *Itinerary) FlightStrings() []string {
	switch it.Kind {
	case PointToPoint:
		if it.Flight != nil {
			return []string{it.Flight.Flight}
		}
	case Connecting:
		flights := make([]string, 0, len(it.Segments))
		for _, s := range it.Segments {
			flights = append(flights, s.Flight)
		}
		return flights
	case Roundtrip:
		var flights []string
		if it.Outbound != nil {
			flights = append(flights, it.Outbound.Flight)
		}
		if it.Inbound != nil {
			flights = append(flights, it.Inbound.Flight)
		}
		return flights
	}
	return nil
}

// Origin returns the journey's departure airport: the single flight's
// origin, the first connecting segment's origin, or the outbound origin.
func (it *Itinerary) Origin() string {
	switch it.Kind {
	case PointToPoint:
		if it.Flight != nil {
			return it.Flight.Origin
		}
	case Connecting:
		if len(it.Segments) > 0 {
			return it.Segments[0].Origin
		}
	case Roundtrip:
		if it.Outbound != nil {
			return it.Outbound.Origin
		}
	}
	return ""
}

// Dest returns the journey's arrival airport, symmetric to Origin
func (it *Itinerary) Dest() string {
	switch it.Kind {
	case PointToPoint:
		if it.Flight != nil {
			return it.Flight.Dest
		}
	case Connecting:
		if len(it.Segments) > 0 {
			return it.Segments[len(it.Segments)-1].Dest
		}
	case Roundtrip:
		if it.Outbound != nil {
			return it.Outbound.Dest
		}
	}
	return ""
}

// LegImpact reports which roundtrip legs the flight number touches. A leg is
// impacted when either string contains the other, so "101" hits the compound
// leg "576/101" and a compound search string hits its member legs.
func (it *Itinerary) LegImpact(flightNumber string) LegImpact {
	if it.Kind != Roundtrip {
		return ImpactNeither
	}

	outbound := it.Outbound != nil && legImpacted(it.Outbound.Flight, flightNumber)
	inbound := it.Inbound != nil && legImpacted(it.Inbound.Flight, flightNumber)

	switch {
	case outbound && inbound:
		return ImpactBoth
	case outbound:
		return ImpactOutboundOnly
	case inbound:
		return ImpactInboundOnly
	default:
		return ImpactNeither
	}
}

func legImpacted(legFlight, flightNumber string) bool {
	if legFlight == "" || flightNumber == "" {
		return false
	}
	leg := strings.ToLower(legFlight)
	search := strings.ToLower(flightNumber)
	return strings.Contains(leg, search) || strings.Contains(search, leg)
}

// CountLegs returns the number of "/"-separated flight tokens in a compound
// flight descriptor ("576/101" counts 2).
func CountLegs(flightDescriptor string) int {
	if flightDescriptor == "" {
		return 0
	}
	return len(strings.Split(flightDescriptor, "/"))
}
