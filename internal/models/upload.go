package models

type UploadItem struct {
	LocalPath string `json:"local_path"`
	Filename  string `json:"filename"`
	Size      int64  `json:"size"`
	SizeHuman string `json:"size_human"`
	Uploaded  bool   `json:"uploaded"`
	Error     string `json:"error,omitempty"`
}

type UploadResult struct {
	Backend        string       `json:"backend"`
	Items          []UploadItem `json:"items"`
	TotalFiles     int          `json:"total_files"`
	FailedFiles    int          `json:"failed_files"`
	TotalSizeBytes int64        `json:"total_size_bytes"`
	TotalSizeHuman string       `json:"total_size_human"`
	Files          []string     `json:"files"`
	OperationTime  string       `json:"operation_time"`
	UploadDuration string       `json:"upload_duration"`
	DryRun         bool         `json:"dry_run,omitempty"`
}
