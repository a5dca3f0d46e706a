package transfer

type PinterestTokenResponse struct {
	AccessToken           string `json:"access_token"`
	RefreshToken          string `json:"refresh_token"`
	ExpiresIn             int    `json:"expires_in"`
	RefreshTokenExpiresIn int    `json:"refresh_token_expires_in"`
	TokenType             string `json:"token_type"`
	Scope                 string `json:"scope"`
}

type PinterestUserResponse struct {
	Username     string `json:"username"`
	BusinessName string `json:"business_name"`
	AccountType  string `json:"account_type"`
	ProfileImage string `json:"profile_image"`
}

type PinterestBoard struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Privacy     string `json:"privacy"`
}

type PinterestBoardsResponse struct {
	Items    []PinterestBoard `json:"items"`
	Bookmark string           `json:"bookmark"`
}

type PinCreation struct {
	BoardID     string        `json:"board_id"`
	Title       string        `json:"title,omitempty"`
	Description string        `json:"description,omitempty"`
	Link        string        `json:"link,omitempty"`
	MediaSource PinMediaSource `json:"media_source"`
}

type PinMediaSource struct {
	SourceType string `json:"source_type"`
	URL        string `json:"url"`
}

type PinResponse struct {
	ID string `json:"id"`
}
