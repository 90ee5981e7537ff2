package model

type SettingsResponse struct {
	TokenConfigured bool   `json:"tokenConfigured"`
	Token           string `json:"token,omitempty"`
	CheckInterval   int    `json:"checkInterval"`
	AutoInstall     bool   `json:"autoInstall"`
}

type CheckResponse struct {
	UpdateAvailable bool   `json:"updateAvailable"`
	CurrentVersion  string `json:"currentVersion"`
	LatestVersion   string `json:"latestVersion"`
	Status          string `json:"status"`
	Message         string `json:"message"`
}

type StartResponse struct {
	Started bool   `json:"started"`
	RunID   string `json:"runId,omitempty"`
	Message string `json:"message"`
}
