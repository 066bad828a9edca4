package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// IDFormat describes the display label of an entity collection, e.g. CUST-0001
type IDFormat struct {
	Prefix string
	Width  int
}

// Display label formats per collection
var (
	CustomerIDs  = IDFormat{Prefix: "CUST", Width: 4}
	VehicleIDs   = IDFormat{Prefix: "VEH", Width: 4}
	JobCardIDs   = IDFormat{Prefix: "JC", Width: 5}
	InventoryIDs = IDFormat{Prefix: "INV", Width: 4}
	ServiceIDs   = IDFormat{Prefix: "SVC", Width: 4}
	MechanicIDs  = IDFormat{Prefix: "MEC", Width: 4}
)

// Format renders the label for sequence number n
func (f IDFormat) Format(n int) string {
	return fmt.Sprintf("%s-%0*d", f.Prefix, f.Width, n)
}

// Parse extracts the sequence number from a label of this format
func (f IDFormat) Parse(id string) (int, bool) {
	rest, ok := strings.CutPrefix(id, f.Prefix+"-")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// Next returns the label following the highest sequence number among existing.
// Labels that do not match the format are ignored, so legacy random ids never
// collide with newly issued ones as long as they are present in existing.
func (f IDFormat) Next(existing []string) string {
	taken := make(map[string]struct{}, len(existing))
	highest := 0
	for _, id := range existing {
		taken[id] = struct{}{}
		if n, ok := f.Parse(id); ok && n > highest {
			highest = n
		}
	}
	for n := highest + 1; ; n++ {
		id := f.Format(n)
		if _, dup := taken[id]; !dup {
			return id
		}
	}
}

// NewUID returns a new opaque stable identifier
func NewUID() string {
	return uuid.NewString()
}
