package timezone

import (
	"sync"
	"time"

	// Clinic zones must resolve in minimal containers without zoneinfo.
	_ "time/tzdata"
)

var (
	mu              sync.RWMutex
	defaultTimezone = "UTC"
)

// SetDefault changes the zone used for clinics without a valid timezone.
// Invalid names are ignored.
func SetDefault(tz string) {
	if !IsValid(tz) {
		return
	}
	mu.Lock()
	defaultTimezone = tz
	mu.Unlock()
}

func Default() string {
	mu.RLock()
	defer mu.RUnlock()
	return defaultTimezone
}

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, err := time.LoadLocation(Default())
	if err != nil {
		return time.UTC
	}
	return loc
}

// In converts t to the clinic-local zone tz.
func In(t time.Time, tz string) time.Time {
	return t.In(Location(tz))
}

func NowIn(tz string) time.Time {
	return In(time.Now(), tz)
}
