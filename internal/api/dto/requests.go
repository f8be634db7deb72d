package dto

// StatusRequest is the body of a status-change call.
type StatusRequest[S ~string] struct {
	Status S `json:"status"`
}

// ImportSummary reports the outcome of a customer import.
type ImportSummary struct {
	Imported int      `json:"imported"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors,omitempty"`
}
