package entity

// IssueEvent records one issuance request after it was served.
type IssueEvent struct {
	EventID  string
	Shape    Shape
	Count    int64
	IssuedAt int64
}
