package synth

// Params configures an Engine at construction time.
type Params struct {
	Polyphony  int
	Wave       Waveform
	AttackSec  float64
	DecaySec   float64
	SustainLvl float64
	ReleaseSec float64
	MasterGain float64
	ClipDrive  float64 // soft clip saturation drive, 1.0 = plain tanh
}

func DefaultParams() Params {
	return Params{
		Polyphony:  16,
		Wave:       WaveSine,
		AttackSec:  0.01,
		DecaySec:   0.12,
		SustainLvl: 0.75,
		ReleaseSec: 0.2,
		MasterGain: 0.35,
		ClipDrive:  1.0,
	}
}
