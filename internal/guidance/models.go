package guidance

// Guidance is the display text and audio clip for a guidance id.
type Guidance struct {
	ID       string `json:"guidance_id"`
	Text     string `json:"text"`
	AudioURL string `json:"audio_url"`
}
