package model

import "strings"

// Event is the annotation attached to a profile row.
type Event int

const (
	EventNone Event = iota
	EventCharge
	EventFirstCrackStart
	EventDrop
)

// String returns the label Artisan expects in the Event column.
func (e Event) String() string {
	switch e {
	case EventCharge:
		return "Charge"
	case EventFirstCrackStart:
		return "FCs"
	case EventDrop:
		return "Drop"
	default:
		return ""
	}
}

// Row is one retained sample point.
type Row struct {
	Time  string  // MM:SS, written to both Time1 and Time2
	ET    float64 // environment (drum) temperature, °F
	BT    float64 // bean temperature, °F
	Event Event
}

// Field is one key:value pair of the header metadata line.
type Field struct {
	Key   string
	Value string
}

// Columns is the fixed column-header line.
var Columns = []string{"Time1", "Time2", "ET", "BT", "Event"}

// Profile is a converted Artisan profile. It is built once and never mutated.
type Profile struct {
	Header  []Field
	Rows    []Row
	Summary Summary
}

// Lines renders the header line, the column line and one line per row.
func (p *Profile) Lines() []string {
	lines := make([]string, 0, len(p.Rows)+2)

	fields := make([]string, len(p.Header))
	for i, f := range p.Header {
		fields[i] = f.Key + ":" + f.Value
	}
	lines = append(lines, strings.Join(fields, "\t"))
	lines = append(lines, strings.Join(Columns, "\t"))

	for _, r := range p.Rows {
		lines = append(lines, r.Time+"\t"+r.Time+"\t"+formatTemp(r.ET)+"\t"+formatTemp(r.BT)+"\t"+r.Event.String())
	}
	return lines
}

// Bytes joins Lines with newlines. There is no newline after the last row.
func (p *Profile) Bytes() []byte {
	return []byte(strings.Join(p.Lines(), "\n"))
}
