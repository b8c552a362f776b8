package sync

import (
	"math"
	"time"

	"github.com/AdamSweetapple/garmin-to-notion/internal/myfitnesspal"
	"github.com/AdamSweetapple/garmin-to-notion/internal/notion"
)

const dateLayout = "2006-01-02"

// Snapshot is one day's computed nutrition totals from the provider.
type Snapshot struct {
	Date        string
	CaloriesIn  int
	CaloriesOut int
	NetCalories int
	ProteinG    int
	CarbsG      int
	FatsG       int
	WaterML     int
}

// NewSnapshot rounds the raw provider totals into a snapshot. Net calories
// are the difference of the already-rounded in/out values, a deliberately
// simpler number than the provider's goal-adjusted calculation.
func NewSnapshot(date string, totals myfitnesspal.DayTotals, waterML float64) Snapshot {
	in := roundInt(totals.Calories)
	out := roundInt(totals.ExerciseBurn)
	return Snapshot{
		Date:        date,
		CaloriesIn:  in,
		CaloriesOut: out,
		NetCalories: in - out,
		ProteinG:    roundInt(totals.Protein),
		CarbsG:      roundInt(totals.Carbs),
		FatsG:       roundInt(totals.Fat),
		WaterML:     roundInt(waterML),
	}
}

// Entry converts the snapshot into the store's write payload.
func (s Snapshot) Entry() notion.Entry {
	return notion.Entry{
		Date:        s.Date,
		CaloriesIn:  s.CaloriesIn,
		CaloriesOut: s.CaloriesOut,
		NetCalories: s.NetCalories,
		ProteinG:    s.ProteinG,
		CarbsG:      s.CarbsG,
		FatsG:       s.FatsG,
		WaterML:     s.WaterML,
	}
}

func roundInt(v float64) int {
	return int(math.Round(v))
}

// DatesBack returns the calendar dates from days-1 days ago through today
// in the given location, oldest first.
func DatesBack(now time.Time, loc *time.Location, days int) []string {
	local := now.In(loc)
	dates := make([]string, 0, days)
	for i := days - 1; i >= 0; i-- {
		dates = append(dates, local.AddDate(0, 0, -i).Format(dateLayout))
	}
	return dates
}
