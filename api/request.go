package api

// ExecReq is the body of POST {base}/execute.
type ExecReq struct {
	Language string   `json:"language"`
	Version  string   `json:"version"`
	Files    []File   `json:"files"`
	Stdin    string   `json:"stdin,omitempty"`
	Args     []string `json:"args,omitempty"`

	// Limits in milliseconds; zero leaves the server default
	RunTimeout     int `json:"run_timeout,omitempty"`
	CompileTimeout int `json:"compile_timeout,omitempty"`
}

type File struct {
	Name    string `json:"name,omitempty"`
	Content string `json:"content"`
}

// NewExecReq builds a single-file execution request.
func NewExecReq(language, version, source string) ExecReq {
	return ExecReq{
		Language: language,
		Version:  version,
		Files:    []File{{Content: source}},
	}
}

// Runtime is one entry of GET {base}/runtimes.
type Runtime struct {
	Language string   `json:"language"`
	Version  string   `json:"version"`
	Aliases  []string `json:"aliases"`
	Runtime  string   `json:"runtime,omitempty"`
}
