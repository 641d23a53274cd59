package repository

import (
	"time"

	"reissue-service/internal/domain/entity"
)

// SeedBookings returns the development booking fleet for one disruption
// event on flight 101, used when no Postgres DSN is configured. Dates are
// relative to now so searches over "today" keep returning data.
func SeedBookings() []entity.Booking {
	today := relDate(0)
	yesterday := relDate(-1)
	tomorrow := relDate(1)
	nextWeek := relDate(7)

	ptpLeg := func(date time.Time) entity.Itinerary {
		return entity.NewPointToPoint(entity.FlightLeg{
			Flight: "101", Origin: "DXB", Dest: "MCT", Date: date, Time: "08:00", Status: entity.StatusActive,
		})
	}

	bookings := []entity.Booking{
		{ID: "p1", PNR: "A1B2C3", PassengerName: "Sarah Connor", CabinClass: entity.CabinEconomy, FareBasis: "Y26OW", Seat: "12A", Status: entity.StatusActive, TravelDate: today, Itinerary: ptpLeg(today)},
		{ID: "p2", PNR: "A1B2C3", PassengerName: "John Connor", CabinClass: entity.CabinEconomy, FareBasis: "Y26OW", Seat: "12B", Status: entity.StatusCheckedIn, TravelDate: today, Itinerary: ptpLeg(today)},
		{ID: "p3", PNR: "D4E5F6", PassengerName: "Ellen Ripley", CabinClass: entity.CabinBusiness, FareBasis: "Jflex", Seat: "14C", Status: entity.StatusBoarded, TravelDate: today, Itinerary: ptpLeg(today)},
		{ID: "p4", PNR: "G7H8I9", PassengerName: "Luke Skywalker", CabinClass: entity.CabinEconomy, FareBasis: "YPRO", Seat: "15A", Status: entity.StatusActive, TravelDate: today, Itinerary: ptpLeg(today)},
		{ID: "p5", PNR: "G7H8I9", PassengerName: "Leia Organa", CabinClass: entity.CabinEconomy, FareBasis: "YPRO", Seat: "15B", Status: entity.StatusActive, TravelDate: today, Itinerary: ptpLeg(today)},
		{ID: "p6", PNR: "J1K2L3", PassengerName: "Han Solo", CabinClass: entity.CabinBusiness, FareBasis: "JFREEDOM", Seat: "02F", Status: entity.StatusCheckedIn, TravelDate: today, Itinerary: ptpLeg(today)},
		{ID: "p7", PNR: "NOV14A", PassengerName: "Tony Stark", CabinClass: entity.CabinBusiness, FareBasis: "JFULL", Seat: "1A", Status: entity.StatusActive, TravelDate: yesterday, Itinerary: ptpLeg(yesterday)},
		{ID: "p9", PNR: "NOV16A", PassengerName: "Peter Parker", CabinClass: entity.CabinEconomy, FareBasis: "YSAVER", Seat: "22F", Status: entity.StatusActive, TravelDate: tomorrow, Itinerary: ptpLeg(tomorrow)},
		{ID: "p10", PNR: "M5N6O7", PassengerName: "Walter White", CabinClass: entity.CabinEconomy, FareBasis: "YSAVER", Seat: "18C", Status: entity.StatusActive, TravelDate: today, Itinerary: ptpLeg(today)},
		{ID: "p11", PNR: "M5N6O7", PassengerName: "Jesse Pinkman", CabinClass: entity.CabinEconomy, FareBasis: "YSAVER", Seat: "18D", Status: entity.StatusActive, TravelDate: today, Itinerary: ptpLeg(today)},

		{ID: "c1", PNR: "CONN01", PassengerName: "Rajesh Koothrappali", CabinClass: entity.CabinEconomy, FareBasis: "QSAVER", Status: entity.StatusActive, TravelDate: today, Itinerary: entity.NewConnecting(
			entity.FlightSegment{Flight: "501", Origin: "BOM", Dest: "DXB", Date: today, Time: "04:00", Status: "FLOWN"},
			entity.FlightSegment{Flight: "101", Origin: "DXB", Dest: "MCT", Date: today, Time: "08:00", Status: entity.StatusActive},
		)},
		{ID: "c3", PNR: "CONN03", PassengerName: "Natasha Romanoff", CabinClass: entity.CabinEconomy, FareBasis: "YFLEX", Status: entity.StatusActive, TravelDate: today, Itinerary: entity.NewConnecting(
			entity.FlightSegment{Flight: "303", Origin: "IST", Dest: "DXB", Date: today, Time: "01:00", Status: "FLOWN"},
			entity.FlightSegment{Flight: "101", Origin: "DXB", Dest: "MCT", Date: today, Time: "08:00", Status: entity.StatusActive},
		)},
		{ID: "c5", PNR: "CONN16", PassengerName: "Clark Kent", CabinClass: entity.CabinEconomy, FareBasis: "YFLEX", Status: entity.StatusActive, TravelDate: tomorrow, Itinerary: entity.NewConnecting(
			entity.FlightSegment{Flight: "055", Origin: "KWI", Dest: "DXB", Date: tomorrow, Time: "05:00", Status: "FLOWN"},
			entity.FlightSegment{Flight: "101", Origin: "DXB", Dest: "MCT", Date: tomorrow, Time: "08:00", Status: entity.StatusActive},
		)},

		{ID: "r1", PNR: "RT9911", PassengerName: "James Bond", CabinClass: entity.CabinBusiness, FareBasis: "J12RT", Status: entity.StatusBoarded, TravelDate: today, Itinerary: entity.NewRoundtrip(
			entity.FlightLeg{Flight: "101", Origin: "DXB", Dest: "MCT", Date: today, Time: "08:00", Status: entity.StatusBoarded},
			entity.FlightLeg{Flight: "102", Origin: "MCT", Dest: "DXB", Date: nextWeek, Time: "14:00", Status: entity.StatusConfirmed},
		)},
		{ID: "r2", PNR: "RT8822", PassengerName: "Jason Bourne", CabinClass: entity.CabinEconomy, FareBasis: "YFLEX", Status: entity.StatusActive, TravelDate: today, Itinerary: entity.NewRoundtrip(
			entity.FlightLeg{Flight: "101", Origin: "DXB", Dest: "MCT", Date: today, Time: "08:00", Status: entity.StatusActive},
			entity.FlightLeg{Flight: "108", Origin: "MCT", Dest: "DXB", Date: relDate(5), Time: "10:30", Status: entity.StatusConfirmed},
		)},
		{ID: "r6", PNR: "RET001", PassengerName: "Indiana Jones", CabinClass: entity.CabinEconomy, FareBasis: "YSAVER", Status: entity.StatusActive, TravelDate: today, Itinerary: entity.NewRoundtrip(
			entity.FlightLeg{Flight: "102", Origin: "MCT", Dest: "DXB", Date: relDate(-5), Time: "10:00", Status: "FLOWN"},
			entity.FlightLeg{Flight: "101", Origin: "DXB", Dest: "MCT", Date: today, Time: "08:00", Status: entity.StatusActive},
		)},
		{ID: "r8", PNR: "CONRT01", PassengerName: "Bilbo Baggins", CabinClass: entity.CabinEconomy, FareBasis: "YFLEX", Status: entity.StatusActive, TravelDate: today, Itinerary: entity.NewRoundtrip(
			entity.FlightLeg{Flight: "576/101", Origin: "KTM", Dest: "MCT", Date: today, Time: "00:30", Status: entity.StatusActive},
			entity.FlightLeg{Flight: "102/575", Origin: "MCT", Dest: "KTM", Date: relDate(6), Time: "14:00", Status: entity.StatusConfirmed},
		)},
		{ID: "r9", PNR: "CONRT02", PassengerName: "Frodo Baggins", CabinClass: entity.CabinEconomy, FareBasis: "YFLEX", Status: entity.StatusActive, TravelDate: today, Itinerary: entity.NewRoundtrip(
			entity.FlightLeg{Flight: "102/575", Origin: "MCT", Dest: "BOM", Date: relDate(-4), Time: "10:00", Status: "FLOWN"},
			entity.FlightLeg{Flight: "501/101", Origin: "BOM", Dest: "MCT", Date: today, Time: "04:00", Status: entity.StatusActive},
		)},

		// Multi-passenger PNR retrieved through the PNR search path
		{ID: "px1", PNR: "H772KL", PassengerName: "Bruce Wayne", CabinClass: entity.CabinBusiness, FareBasis: "JNOW", Status: entity.StatusActive, TravelDate: nextWeek, Itinerary: entity.NewConnecting(
			entity.FlightSegment{Flight: "201", Origin: "DXB", Dest: "BOM", Date: nextWeek, Time: "08:30", Status: entity.StatusConfirmed},
			entity.FlightSegment{Flight: "404", Origin: "BOM", Dest: "DEL", Date: nextWeek, Time: "16:45", Status: entity.StatusImpacted},
		)},
		{ID: "px2", PNR: "H772KL", PassengerName: "Damian Wayne", CabinClass: entity.CabinBusiness, FareBasis: "JNOW", Status: entity.StatusActive, TravelDate: nextWeek, Itinerary: entity.NewConnecting(
			entity.FlightSegment{Flight: "201", Origin: "DXB", Dest: "BOM", Date: nextWeek, Time: "08:30", Status: entity.StatusConfirmed},
			entity.FlightSegment{Flight: "404", Origin: "BOM", Dest: "DEL", Date: nextWeek, Time: "16:45", Status: entity.StatusImpacted},
		)},
	}

	return bookings
}

func relDate(offsetDays int) time.Time {
	now := time.Now().UTC()
	base := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, offsetDays)
}
