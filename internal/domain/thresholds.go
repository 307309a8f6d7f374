package domain

func f(v float64) *float64 { return &v }

// OperatingThresholds is the per-parameter operating range table. Keys are
// normalized (lower-case) parameter names; parameters absent from the table
// are ignored by diagnosis.
var OperatingThresholds = map[string]ThresholdRule{
	"ph":               {Min: f(6.5), Max: f(8.5), OptimalMin: f(7.0), OptimalMax: f(8.0)},
	"bod":              {Max: f(30), OptimalMax: f(20)},
	"cod":              {Max: f(250), OptimalMax: f(150)},
	"tss":              {Max: f(100), OptimalMax: f(50)},
	"flow":             {Min: f(0)},
	"temperature":      {Min: f(10), Max: f(40), OptimalMin: f(20), OptimalMax: f(35)},
	"hardness":         {Max: f(300), OptimalMax: f(200)},
	"dissolved_oxygen": {Min: f(4), OptimalMin: f(5)},
	"conductivity":     {Max: f(2000), OptimalMax: f(1500)},
	"turbidity":        {Max: f(50), OptimalMax: f(25)},
}

// CriticalThresholds is the tighter second table used to detect
// near-emergency conditions. Evaluated independently of the operating
// table each cycle; it deliberately does not cover every operating
// parameter.
var CriticalThresholds = map[string]ThresholdRule{
	"ph":          {Min: f(5.5), Max: f(9.5)},
	"bod":         {Max: f(50)},
	"cod":         {Max: f(400)},
	"tss":         {Max: f(200)},
	"temperature": {Min: f(5), Max: f(50)},
}

// ParameterImpacts describes the operational consequence of a fault on
// each parameter, carried on the Fault for display and audit.
var ParameterImpacts = map[string]string{
	"ph":               "Corrosion or scaling risk and reduced treatment efficiency",
	"bod":              "Oxygen depletion downstream, possible discharge violation",
	"cod":              "High organic load, possible discharge violation",
	"tss":              "Clogged filters and reduced clarity of treated water",
	"flow":             "Hydraulic imbalance across treatment stages",
	"temperature":      "Biological treatment activity outside stable range",
	"hardness":         "Scale build-up on membranes and heat exchangers",
	"dissolved_oxygen": "Aerobic treatment starved of oxygen",
	"conductivity":     "Elevated dissolved solids in effluent",
	"turbidity":        "Suspended matter escaping clarification",
}

// SnapshotDefaults fills parameters the telemetry push omitted so
// diagnosis always runs on a complete core set. All defaults sit inside
// their operating ranges.
var SnapshotDefaults = map[string]float64{
	"ph":   7.0,
	"bod":  0,
	"cod":  0,
	"tss":  0,
	"flow": 0,
}
