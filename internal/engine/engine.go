package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/crimson-sun/artisanize/internal/engine/dedup"
	"github.com/crimson-sun/artisanize/internal/model"
)

// DateLayout is the Date field layout Artisan expects (dd.mm.yyyy).
const DateLayout = "02.01.2006"

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the clock used for the header Date field. Default: time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// Engine converts roast records into Artisan profiles. Conversion itself is
// pure: with a fixed clock the same record always yields the same bytes.
type Engine struct {
	now func() time.Time
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Convert validates raw and converts it. It returns a *MissingFieldError or
// *MalformedDataError and no profile when the record cannot be converted.
func (e *Engine) Convert(raw model.RoastRecord) (*model.Profile, error) {
	rec, err := Validate(raw)
	if err != nil {
		return nil, err
	}
	return e.convert(rec)
}

func (e *Engine) convert(rec model.Record) (*model.Profile, error) {
	// Double-written series keep every other point at a true 1s cadence.
	duplicated := dedup.Detect(rec.DrumTemperature)
	stride, interval := 1, rec.SampleRate
	if duplicated {
		stride, interval = 2, 1.0
	}

	bt := dedup.Resample(rec.BeanTemperature, rec.RoastStartIndex, stride)
	et := dedup.Resample(rec.DrumTemperature, rec.RoastStartIndex, stride)
	if len(bt) == 0 {
		return nil, malformedf("beanTemperature has no samples from roastStartIndex %d (length %d)", rec.RoastStartIndex, len(rec.BeanTemperature))
	}
	if len(et) == 0 {
		return nil, malformedf("drumTemperature has no samples from roastStartIndex %d (length %d)", rec.RoastStartIndex, len(rec.DrumTemperature))
	}

	n := min(len(bt), len(et))
	bt, et = bt[:n], et[:n]

	total := float64(n-1) * interval
	offset := rec.IndexFirstCrackStart - rec.RoastStartIndex
	if duplicated {
		offset = floorDiv(offset, 2)
	}
	firstCrack := float64(offset) * interval

	rows := make([]model.Row, n)
	fcSeen := false
	for i := range rows {
		t := float64(i) * interval
		ev := classify(i, n-1, t, firstCrack, interval, fcSeen)
		if ev == model.EventFirstCrackStart {
			fcSeen = true
		}
		rows[i] = model.Row{
			Time:  FormatClock(t),
			ET:    CelsiusToFahrenheit(et[i]),
			BT:    CelsiusToFahrenheit(bt[i]),
			Event: ev,
		}
	}

	// Blank unless positive, the same gate as the FCs row label.
	fcField := ""
	if firstCrack > 0 {
		fcField = FormatClock(firstCrack)
	}

	return &model.Profile{
		Header:  header(e.now(), fcField, FormatClock(total), rec),
		Rows:    rows,
		Summary: summarize(rec, duplicated, interval, total, firstCrack, bt, et),
	}, nil
}

// classify picks the single label for row i. Charge and Drop are fixed to the
// first and last rows; FCs goes to the first other row within one interval of
// the first-crack time, and only when that time is positive.
func classify(i, last int, t, firstCrack, interval float64, fcSeen bool) model.Event {
	switch {
	case i == 0:
		return model.EventCharge
	case i == last:
		return model.EventDrop
	case !fcSeen && firstCrack > 0 && math.Abs(t-firstCrack) < interval:
		return model.EventFirstCrackStart
	default:
		return model.EventNone
	}
}

func header(date time.Time, fcs, drop string, rec model.Record) []model.Field {
	return []model.Field{
		{Key: "Date", Value: date.Format(DateLayout)},
		{Key: "Unit", Value: "F"},
		{Key: "CHARGE", Value: "00:00"},
		{Key: "TP"},
		{Key: "DRYe"},
		{Key: "FCs", Value: fcs},
		{Key: "FCe"},
		{Key: "SCs"},
		{Key: "SCe"},
		{Key: "DROP", Value: drop},
		{Key: "COOL"},
		{Key: "Time", Value: "00:00"},
		{Key: "Notes", Value: fmt.Sprintf("%s (roast.world ID: %s)", rec.RoastName, rec.UID)},
	}
}

func summarize(rec model.Record, duplicated bool, interval, total, firstCrack float64, bt, et []float64) model.Summary {
	s := model.Summary{
		RoastName:         rec.RoastName,
		UID:               rec.UID,
		Duplicated:        duplicated,
		SampleInterval:    interval,
		Points:            len(bt),
		TotalSeconds:      total,
		FirstCrackSeconds: firstCrack,
		WeightGreen:       rec.WeightGreen,
		WeightRoasted:     rec.WeightRoasted,
		WeightLossPercent: 100 * (rec.WeightGreen - rec.WeightRoasted) / rec.WeightGreen,
	}
	s.BTMin, s.BTMax = bounds(bt)
	s.ETMin, s.ETMax = bounds(et)
	return s
}

func bounds(xs []float64) (lo, hi float64) {
	lo, hi = xs[0], xs[0]
	for _, x := range xs[1:] {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	return lo, hi
}
