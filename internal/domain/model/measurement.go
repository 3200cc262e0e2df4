// Package model contains domain models passed between layers.
package model

// millimetresPerMetre converts lab sheet readings to SI units.
const millimetresPerMetre = 1000

// Measurement is a single bounce trial.
type Measurement struct {
	AngleDegrees   float64  // deflector angle
	Material       Material // deflector surface
	DistanceMeters float64  // horizontal travel after the bounce
}

// NewMeasurementMM builds a Measurement from a distance read in millimetres.
func NewMeasurementMM(angleDegrees float64, material Material, distanceMM float64) Measurement {
	return Measurement{
		AngleDegrees:   angleDegrees,
		Material:       material,
		DistanceMeters: distanceMM / millimetresPerMetre,
	}
}

// Result is a Measurement with its solved coefficient of restitution.
type Result struct {
	Measurement
	Coefficient float64
}

// Physical reports whether the coefficient lies strictly between 0 and 1.
func (r Result) Physical() bool {
	return r.Coefficient > 0 && r.Coefficient < 1
}

// Outcome records what happened to one measurement during a run.
// Exactly one of Result or Err is meaningful.
type Outcome struct {
	Measurement Measurement
	Result      Result
	Err         error
}

// OK reports whether the measurement was solved.
func (o Outcome) OK() bool {
	return o.Err == nil
}
