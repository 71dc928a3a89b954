package alerts

// LimitClass identifies one of the four severity bands on a process variable.
type LimitClass string

const (
	LimitHighHigh LimitClass = "HH"
	LimitHigh     LimitClass = "H"
	LimitLow      LimitClass = "L"
	LimitLowLow   LimitClass = "LL"
)

// LimitClasses lists all classes in evaluation order.
var LimitClasses = []LimitClass{LimitHighHigh, LimitHigh, LimitLow, LimitLowLow}

// Valid returns true when the class is supported.
func (c LimitClass) Valid() bool {
	switch c {
	case LimitHighHigh, LimitHigh, LimitLow, LimitLowLow:
		return true
	default:
		return false
	}
}

// Label returns the operator-facing label for the class.
func (c LimitClass) Label() string {
	switch c {
	case LimitHighHigh:
		return "High-High (HH)"
	case LimitHigh:
		return "High (H)"
	case LimitLow:
		return "Low (L)"
	case LimitLowLow:
		return "Low-Low (LL)"
	default:
		return string(c)
	}
}
