package api

// CheckData is the trimmed output of a finished check, as carried by streaming messages.
type CheckData struct {
	Outcome    string      `json:"outcome"`
	Passed     bool        `json:"passed"`
	HttpStatus *int        `json:"http_status"`
	Detail     string      `json:"detail"`
	Stdout     string      `json:"out"`
	Stderr     string      `json:"err"`
	Burst      *BurstStats `json:"burst"`
	DurationMs int64       `json:"duration_ms"`
}
