package monitor

// ProcessState describes the running form server process.
type ProcessState struct {
	PID        int32   `json:"pid"`
	RSSBytes   uint64  `json:"rss_bytes"`
	CPUPercent float64 `json:"cpu_percent"`
	Threads    int32   `json:"threads"`
	UptimeSec  int64   `json:"uptime_sec"`
}
