package packets

// GenerateScheduleRequest triggers a schedule build for a channel.
type GenerateScheduleRequest struct {
	Days  int  `json:"days" binding:"required,min=1"`
	Reset bool `json:"reset"`
}
