package utils

import (
	"log"
	"time"
)

// NowInEventZone converts a UTC instant into the event's named timezone.
// Unrecognized zone ids degrade to UTC with a logged warning, never an error.
func NowInEventZone(nowUtc time.Time, timeZoneId string, eventId uint) time.Time {
	if timeZoneId == "" {
		timeZoneId = "UTC"
	}
	loc, err := time.LoadLocation(timeZoneId)
	if err != nil {
		log.Printf("Invalid timezone %q for event %d, using UTC\n", timeZoneId, eventId)
		loc = time.UTC
	}
	return nowUtc.In(loc)
}

// EventStarted reports whether the event's start time has passed. The stored
// start is the event-local wall clock, so now is rebuilt in the same frame
// before comparing full instants.
func EventStarted(nowUtc time.Time, eventDateTime time.Time, timeZoneId string, eventId uint) bool {
	local := NowInEventZone(nowUtc, timeZoneId, eventId)
	wall := time.Date(local.Year(), local.Month(), local.Day(),
		local.Hour(), local.Minute(), local.Second(), 0, time.UTC)
	return eventDateTime.Before(wall)
}

// BeforeEventDate compares calendar dates only. Scans and ratings are gated
// on the event's day in its own zone, not on the exact start time, so early
// arrivals on the day are admitted.
func BeforeEventDate(localNow time.Time, eventDateTime time.Time) bool {
	ny, nm, nd := localNow.Date()
	ey, em, ed := eventDateTime.Date()
	nowDate := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	eventDate := time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC)
	return nowDate.Before(eventDate)
}
