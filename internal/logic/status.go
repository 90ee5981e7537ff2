package logic

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseChecking
	PhaseDownloading
	PhaseInstalling
	PhaseSucceeded
	PhaseFailed
)

var phaseNames = [...]string{
	PhaseIdle:        "idle",
	PhaseChecking:    "checking",
	PhaseDownloading: "downloading",
	PhaseInstalling:  "installing",
	PhaseSucceeded:   "success",
	PhaseFailed:      "failed",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Busy reports whether a check or install currently owns the updater.
func (p Phase) Busy() bool {
	switch p {
	case PhaseChecking, PhaseDownloading, PhaseInstalling:
		return true
	default:
		return false
	}
}

func PhaseNames() []string {
	return phaseNames[:]
}

// Status is the updater state shown to clients. It is always handed out by value.
type Status struct {
	Phase           Phase  `json:"status"`
	Progress        int    `json:"progress"`
	Message         string `json:"message"`
	CurrentVersion  string `json:"currentVersion"`
	LatestVersion   string `json:"latestVersion"`
	UpdateAvailable bool   `json:"updateAvailable"`
	TotalBytes      int64  `json:"totalBytes"`
	DownloadedBytes int64  `json:"downloadedBytes"`
	RunID           string `json:"runId,omitempty"`
}
