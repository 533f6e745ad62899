package entity

// Shape names one of the identifier layouts the service can issue.
type Shape string

const (
	ShapeUUIDv1    Shape = "UUIDV1"
	ShapeShort128  Shape = "SHORT128"
	ShapeShort96   Shape = "SHORT96"
	ShapeShort64   Shape = "SHORT64"
	ShapeSnowflake Shape = "SNOWFLAKE"
)

// Shapes lists every issuable shape in a stable order.
func Shapes() []Shape {
	return []Shape{ShapeUUIDv1, ShapeShort128, ShapeShort96, ShapeShort64, ShapeSnowflake}
}
