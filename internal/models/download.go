package models

type DownloadResult struct {
	Backend          string `json:"backend"`
	Filename         string `json:"filename"`
	LocalPath        string `json:"local_path"`
	SizeBytes        int64  `json:"size_bytes"`
	SizeHuman        string `json:"size_human"`
	OperationTime    string `json:"operation_time"`
	DownloadDuration string `json:"download_duration"`
}
