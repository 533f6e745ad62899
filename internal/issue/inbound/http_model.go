package inbound

type IssueResponse struct {
	Shape string   `json:"shape"`
	IDs   []string `json:"ids"`
}

type Tally struct {
	Shape  string `json:"shape"`
	Issued int64  `json:"issued"`
}

type TalliesResponse struct {
	Tallies []Tally `json:"tallies"`
}
