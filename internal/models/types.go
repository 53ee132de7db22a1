package models

type ErrorResponse struct {
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
	Command   string `json:"command"`
}

type ListResult struct {
	Backend       string   `json:"backend"`
	Files         []string `json:"files"`
	TotalFiles    int      `json:"total_files"`
	OperationTime string   `json:"operation_time"`
	ListDuration  string   `json:"list_duration"`
}

type DeleteResult struct {
	Filename      string   `json:"filename"`
	Deleted       bool     `json:"deleted"`
	Cancelled     bool     `json:"cancelled,omitempty"`
	Files         []string `json:"files,omitempty"`
	OperationTime string   `json:"operation_time"`
}

type SummaryResult struct {
	Filename        string `json:"filename"`
	State           string `json:"state"`
	Summary         string `json:"summary,omitempty"`
	Error           string `json:"error,omitempty"`
	OperationTime   string `json:"operation_time"`
	SummaryDuration string `json:"summary_duration"`
}
