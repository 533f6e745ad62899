package entity

// ShapeTally is the running number of identifiers issued for a shape
// since the process started. Tallies are in-memory only and reset on
// restart, the same lifecycle as the generator's counter state.
type ShapeTally struct {
	Shape  Shape
	Issued int64
}
