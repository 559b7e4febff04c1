package model

// Song is a playable track in the challenge
type Song struct {
	ID         int    `yaml:"id"`
	Title      string `yaml:"title"`
	Artist     string `yaml:"artist"`
	PreviewURL string `yaml:"preview_url"`
	CoverURL   string `yaml:"cover_url,omitempty"`
}
