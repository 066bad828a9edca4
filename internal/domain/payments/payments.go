// Package payments defines the payment state of a job card
package payments

import "strings"

// Status is the payment state of a job card, independent of its work status
type Status string

// Payment statuses
const (
	StatusUnpaid        Status = "unpaid"
	StatusPartiallyPaid Status = "partially-paid"
	StatusPaid          Status = "paid"
)

// Statuses lists every payment status
var Statuses = []Status{StatusUnpaid, StatusPartiallyPaid, StatusPaid}

// Valid reports whether s is a known payment status
func (s Status) Valid() bool {
	switch s {
	case StatusUnpaid, StatusPartiallyPaid, StatusPaid:
		return true
	}
	return false
}

// Outstanding reports whether money is still owed
func (s Status) Outstanding() bool {
	return s == StatusUnpaid || s == StatusPartiallyPaid
}

// Label returns the title-cased label, e.g. "Partially Paid"
func (s Status) Label() string {
	words := strings.Split(string(s), "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
