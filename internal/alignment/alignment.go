package alignment

// TiltThreshold is the normalized vertical eye offset beyond which a head is
// considered tilted. Tuned against the 478-point face mesh iris landmarks.
const TiltThreshold float32 = 0.02

// TiltState classifies how level the subject's head is.
type TiltState int

const (
	Unknown TiltState = iota
	Level
	TiltLeft
	TiltRight
)

func (s TiltState) String() string {
	switch s {
	case Level:
		return "level"
	case TiltLeft:
		return "tilt-left"
	case TiltRight:
		return "tilt-right"
	default:
		return "unknown"
	}
}

// Sample holds the normalized vertical positions of the two iris landmarks.
type Sample struct {
	LeftEyeY  float32
	RightEyeY float32
}

// Classify reduces a landmark sample to a tilt state. A positive dy means the
// visual-right eye sits lower, i.e. the subject's head leans toward their
// right.
func Classify(sample Sample) TiltState {
	dy := sample.RightEyeY - sample.LeftEyeY
	switch {
	case dy > TiltThreshold:
		return TiltLeft
	case dy < -TiltThreshold:
		return TiltRight
	default:
		return Level
	}
}

// Instruction is the corrective guidance shown to the subject.
type Instruction string

const (
	InstructionAlign     Instruction = "align"
	InstructionHold      Instruction = "hold"
	InstructionTiltLeft  Instruction = "tilt-left"
	InstructionTiltRight Instruction = "tilt-right"
)

// CorrectionFor maps a detected tilt to the instruction that undoes it. The
// polarity is deliberately inverted: a head tilted left is corrected by
// tilting right.
func CorrectionFor(state TiltState) Instruction {
	switch state {
	case Level:
		return InstructionHold
	case TiltLeft:
		return InstructionTiltRight
	case TiltRight:
		return InstructionTiltLeft
	default:
		return InstructionAlign
	}
}
