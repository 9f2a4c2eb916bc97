package analytics

import "time"

// HoursSinceSent measures how long a document sat between going out and the
// event in question. A zero sentAt (a producer that never stamped it) yields
// nil so the column stays NULL instead of recording a bogus duration; clock
// skew that puts the event before the send clamps to zero.
func HoursSinceSent(sentAt, occurred time.Time) *float64 {
	if sentAt.IsZero() || occurred.IsZero() {
		return nil
	}
	hours := occurred.UTC().Sub(sentAt.UTC()).Hours()
	if hours < 0 {
		hours = 0
	}
	return &hours
}
