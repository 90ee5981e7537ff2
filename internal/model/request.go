package model

// UpdateSettingsRequest changes only the fields that are present.
type UpdateSettingsRequest struct {
	Token         *string `json:"token" validate:"omitempty,token"`
	CheckInterval *int    `json:"checkInterval"`
	AutoInstall   *bool   `json:"autoInstall"`
}
