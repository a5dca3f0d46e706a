package transfer

type BrandUpdate struct {
	BrandName string   `json:"brand_name"`
	Audience  string   `json:"audience"`
	Tone      string   `json:"tone"`
	Examples  []string `json:"examples"`
}
