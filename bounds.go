package rampmap

// SpanKind classifies the value range of a grid.
type SpanKind uint8

const (
	// SpanNone means the grid holds no valid sample.
	SpanNone SpanKind = iota
	// SpanZero means every valid sample has the same value.
	SpanZero
	// SpanPositive means Max > Min.
	SpanPositive
)

func (k SpanKind) String() string {
	switch k {
	case SpanZero:
		return "zero"
	case SpanPositive:
		return "positive"
	default:
		return "none"
	}
}

// Bounds is the range of valid samples of a grid.
// Min and Max are meaningful only when Valid is true.
type Bounds struct {
	Min, Max float64
	Valid    bool
}

// Add widens b to include v. NaN and infinite values are ignored.
func (b *Bounds) Add(v float64) {
	if isMissing(v) {
		return
	}
	if !b.Valid {
		b.Min, b.Max, b.Valid = v, v, true
		return
	}
	b.Min = min(b.Min, v)
	b.Max = max(b.Max, v)
}

// Span returns Max-Min and its classification. The difference may
// overflow to +Inf for bounds near the float64 limits; the kind is still
// SpanPositive.
func (b Bounds) Span() (float64, SpanKind) {
	if !b.Valid {
		return 0, SpanNone
	}
	d := b.Max - b.Min
	if d == 0 {
		return 0, SpanZero
	}
	return d, SpanPositive
}
