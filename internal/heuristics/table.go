// Package heuristics holds the static last-resort price ranges per canonical
// service key, used only when no catalog data exists.
package heuristics

// Rate is a static price band for one canonical service key.
type Rate struct {
	Min           float64
	Max           float64
	Avg           float64
	StandardHours float64
}

var rateTable = map[string]Rate{
	"oil_change":         {Min: 35, Max: 110, Avg: 70, StandardHours: 0.5},
	"brake_pads":         {Min: 100, Max: 320, Avg: 200, StandardHours: 1.5},
	"rotors":             {Min: 200, Max: 550, Avg: 350, StandardHours: 2},
	"air_filter":         {Min: 20, Max: 75, Avg: 45, StandardHours: 0.3},
	"cabin_filter":       {Min: 25, Max: 90, Avg: 55, StandardHours: 0.3},
	"coolant":            {Min: 80, Max: 200, Avg: 130, StandardHours: 1},
	"tires":              {Min: 300, Max: 900, Avg: 550, StandardHours: 1},
	"spark_plugs":        {Min: 60, Max: 260, Avg: 150, StandardHours: 1.2},
	"transmission_fluid": {Min: 100, Max: 300, Avg: 180, StandardHours: 1.5},
	"battery":            {Min: 120, Max: 320, Avg: 200, StandardHours: 0.5},
	"wiper_blades":       {Min: 15, Max: 60, Avg: 35, StandardHours: 0.2},
}

var defaultRate = Rate{Min: 50, Max: 250, Avg: 120, StandardHours: 1}

// RateFor returns the heuristic band for a canonical key, falling back to the
// default entry for keys the table has never seen. It has no failure mode.
func RateFor(key string) Rate {
	if rate, ok := rateTable[key]; ok {
		return rate
	}
	return defaultRate
}

// Known reports whether the key has a dedicated table entry.
func Known(key string) bool {
	_, ok := rateTable[key]
	return ok
}
