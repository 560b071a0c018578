package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("America/New_York")
	if err != nil {
		panic(err)
	}
}

// force the chart timezone because the weekly charts roll over on US
// eastern time, servers that end up in other regions would otherwise
// compute the wrong week from <time.Time>.Year()/Month()/Day()
func Now() time.Time {
	return time.Now().In(Location)
}
