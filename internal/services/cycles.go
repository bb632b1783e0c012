package services

import (
	"math"
	"sort"
	"time"

	"github.com/terraincognita07/cradle/internal/models"
)

const (
	lutealPhaseDays        = 14
	newCycleGapDays        = 5
	regularityWindowCycles = 6
)

const (
	PhaseMenstrual  = "menstrual"
	PhaseFollicular = "follicular"
	PhaseFertile    = "fertile"
	PhaseOvulation  = "ovulation"
	PhaseLuteal     = "luteal"
	PhaseUnknown    = "unknown"
)

const (
	RegularityRegular           = "regular"
	RegularitySomewhatIrregular = "somewhat_irregular"
	RegularityIrregular         = "irregular"
	RegularityUnknown           = "unknown"
)

type CyclePrediction struct {
	LastPeriodStart     time.Time
	CurrentCycleStart   time.Time
	NextPeriodStart     time.Time
	OvulationDate       time.Time
	FertileWindowStart  time.Time
	FertileWindowEnd    time.Time
	OvulationCalculable bool
	DaysUntilNextPeriod int
	CurrentCycleDay     int
	CurrentPhase        string
	CycleLength         int
	PeriodLength        int
}

type CycleRegularity struct {
	Status            string  `json:"status"`
	CycleLengths      []int   `json:"cycle_lengths"`
	MeanLength        float64 `json:"mean_length"`
	StandardDeviation float64 `json:"standard_deviation"`
}

type DayMarking struct {
	Date    time.Time
	Marking string
	Source  string
}

// PredictCycle projects the cycle anchored at lastPeriodStart. All dates are
// expected at midnight in the same location as today.
func PredictCycle(lastPeriodStart time.Time, cycleLength int, periodLength int, today time.Time) CyclePrediction {
	cycleLength, periodLength = ResolveCycleAndPeriodDefaults(cycleLength, periodLength)
	prediction := CyclePrediction{
		LastPeriodStart: lastPeriodStart,
		CycleLength:     cycleLength,
		PeriodLength:    periodLength,
		CurrentPhase:    PhaseUnknown,
	}
	if lastPeriodStart.IsZero() {
		return prediction
	}

	next := lastPeriodStart.AddDate(0, 0, cycleLength)
	if next.Before(today) {
		elapsed := DaysBetween(lastPeriodStart, today)
		cycles := elapsed / cycleLength
		if elapsed%cycleLength != 0 {
			cycles++
		}
		next = lastPeriodStart.AddDate(0, 0, cycles*cycleLength)
	}
	prediction.NextPeriodStart = next
	prediction.DaysUntilNextPeriod = DaysBetween(today, next)

	currentStart := next.AddDate(0, 0, -cycleLength)
	if sameDay(next, today) {
		currentStart = next
	}
	prediction.CurrentCycleStart = currentStart

	ovulation, fertileStart, fertileEnd, calculable := PredictCycleWindow(next, cycleLength, periodLength)
	prediction.OvulationCalculable = calculable
	if calculable {
		prediction.OvulationDate = ovulation
		prediction.FertileWindowStart = fertileStart
		prediction.FertileWindowEnd = fertileEnd
	}

	if today.Before(lastPeriodStart) {
		return prediction
	}
	prediction.CurrentCycleDay = DaysBetween(currentStart, today) + 1
	prediction.CurrentPhase = cyclePhase(prediction, today)
	return prediction
}

// PredictCycleWindow returns the ovulation day and fertile window that precede
// the period starting at nextPeriodStart.
func PredictCycleWindow(nextPeriodStart time.Time, cycleLength int, periodLength int) (time.Time, time.Time, time.Time, bool) {
	if !IsOvulationCalculable(cycleLength, periodLength) {
		return time.Time{}, time.Time{}, time.Time{}, false
	}
	ovulation := nextPeriodStart.AddDate(0, 0, -lutealPhaseDays)
	return ovulation, ovulation.AddDate(0, 0, -5), ovulation.AddDate(0, 0, 1), true
}

func IsOvulationCalculable(cycleLength int, periodLength int) bool {
	return cycleLength-lutealPhaseDays >= periodLength
}

func cyclePhase(prediction CyclePrediction, today time.Time) string {
	if prediction.CurrentCycleDay >= 1 && prediction.CurrentCycleDay <= prediction.PeriodLength {
		return PhaseMenstrual
	}
	if !prediction.OvulationCalculable {
		return PhaseUnknown
	}
	switch {
	case sameDay(today, prediction.OvulationDate):
		return PhaseOvulation
	case betweenInclusive(today, prediction.FertileWindowStart, prediction.FertileWindowEnd):
		return PhaseFertile
	case today.Before(prediction.OvulationDate):
		return PhaseFollicular
	default:
		return PhaseLuteal
	}
}

// DetectCycleStarts returns the first day of each run of period days. A gap of
// at least five unmarked days starts a new cycle.
func DetectCycleStarts(days []models.CycleDay) []time.Time {
	periodDays := make([]time.Time, 0, len(days))
	for _, day := range days {
		if day.Marking == models.MarkingPeriod {
			periodDays = append(periodDays, day.Date)
		}
	}
	sort.Slice(periodDays, func(i, j int) bool {
		return periodDays[i].Before(periodDays[j])
	})

	starts := make([]time.Time, 0)
	var previous time.Time
	for _, day := range periodDays {
		if previous.IsZero() || DaysBetween(previous, day)-1 >= newCycleGapDays {
			starts = append(starts, day)
		}
		previous = day
	}
	return starts
}

func CycleLengths(starts []time.Time) []int {
	if len(starts) < 2 {
		return nil
	}
	lengths := make([]int, 0, len(starts)-1)
	for i := 1; i < len(starts); i++ {
		lengths = append(lengths, DaysBetween(starts[i-1], starts[i]))
	}
	return lengths
}

func ClassifyRegularity(lengths []int) CycleRegularity {
	recent := tailInts(lengths, regularityWindowCycles)
	regularity := CycleRegularity{Status: RegularityUnknown, CycleLengths: append([]int{}, recent...)}
	if len(recent) < 2 {
		return regularity
	}

	regularity.MeanLength = averageInts(recent)
	var squares float64
	for _, length := range recent {
		delta := float64(length) - regularity.MeanLength
		squares += delta * delta
	}
	regularity.StandardDeviation = math.Sqrt(squares / float64(len(recent)))

	switch {
	case regularity.StandardDeviation <= 3:
		regularity.Status = RegularityRegular
	case regularity.StandardDeviation <= 7:
		regularity.Status = RegularitySomewhatIrregular
	default:
		regularity.Status = RegularityIrregular
	}
	return regularity
}

// BuildMonthMarkings returns one marking per day of the month starting at
// monthStart. Manual markings win; the rest are projected from the anchor.
func BuildMonthMarkings(monthStart time.Time, manual []models.CycleDay, lastPeriodStart time.Time, cycleLength int, periodLength int) []DayMarking {
	monthEnd := monthStart.AddDate(0, 1, -1)
	derived := projectMarkings(monthStart, monthEnd, lastPeriodStart, cycleLength, periodLength)

	manualByDay := make(map[string]string, len(manual))
	for _, day := range manual {
		manualByDay[FormatDay(day.Date)] = day.Marking
	}

	markings := make([]DayMarking, 0, 31)
	for day := monthStart; !day.After(monthEnd); day = day.AddDate(0, 0, 1) {
		key := FormatDay(day)
		if marking, ok := manualByDay[key]; ok {
			markings = append(markings, DayMarking{Date: day, Marking: marking, Source: models.MarkingSourceManual})
			continue
		}
		if marking, ok := derived[key]; ok {
			markings = append(markings, DayMarking{Date: day, Marking: marking, Source: models.MarkingSourceDerived})
			continue
		}
		markings = append(markings, DayMarking{Date: day, Marking: models.MarkingNone})
	}
	return markings
}

func projectMarkings(from time.Time, to time.Time, lastPeriodStart time.Time, cycleLength int, periodLength int) map[string]string {
	markings := make(map[string]string)
	if lastPeriodStart.IsZero() || lastPeriodStart.After(to) {
		return markings
	}
	cycleLength, periodLength = ResolveCycleAndPeriodDefaults(cycleLength, periodLength)

	first := 0
	if lead := DaysBetween(lastPeriodStart, from); lead > cycleLength {
		first = lead/cycleLength - 1
	}

	set := func(day time.Time, marking string) {
		if day.Before(from) || day.After(to) || day.Before(lastPeriodStart) {
			return
		}
		key := FormatDay(day)
		if markingRank(marking) > markingRank(markings[key]) {
			markings[key] = marking
		}
	}

	for cycle := first; ; cycle++ {
		start := lastPeriodStart.AddDate(0, 0, cycle*cycleLength)
		if start.After(to) {
			break
		}
		for offset := 0; offset < periodLength; offset++ {
			set(start.AddDate(0, 0, offset), models.MarkingPeriod)
		}
		ovulation, fertileStart, fertileEnd, calculable := PredictCycleWindow(start.AddDate(0, 0, cycleLength), cycleLength, periodLength)
		if !calculable {
			continue
		}
		for day := fertileStart; !day.After(fertileEnd); day = day.AddDate(0, 0, 1) {
			set(day, models.MarkingFertile)
		}
		set(ovulation, models.MarkingOvulation)
	}
	return markings
}

func markingRank(marking string) int {
	switch marking {
	case models.MarkingPeriod:
		return 3
	case models.MarkingOvulation:
		return 2
	case models.MarkingFertile:
		return 1
	default:
		return 0
	}
}

func tailInts(values []int, n int) []int {
	if len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}

func averageInts(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	var total int
	for _, value := range values {
		total += value
	}
	return float64(total) / float64(len(values))
}
