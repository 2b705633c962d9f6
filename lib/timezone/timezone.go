package timezone

import (
	"time"
	_ "time/tzdata"
)

// all scraped sites publish dates in german local time
var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Europe/Berlin")
	if err != nil {
		panic(err)
	}
}

// Now returns the current time in Location, independent of where the
// scraper runs.
func Now() time.Time {
	return time.Now().In(Location)
}

// Timestamp formats t the way output file names are suffixed.
func Timestamp(t time.Time) string {
	return t.In(Location).Format("20060102_150405")
}
