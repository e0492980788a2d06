package dto

import "time"

type ShortenRequest struct {
	LongURL   string `json:"longUrl" binding:"required"`
	CustomURL string `json:"customUrl"`
}

type LinkResponse struct {
	ID          uint       `json:"id"`
	ShortURL    string     `json:"shortUrl"`
	LongURL     string     `json:"longUrl"`
	ShortCode   string     `json:"shortCode"`
	CustomURL   *string    `json:"customUrl"`
	CreatedAt   time.Time  `json:"createdAt"`
	TotalClicks int64      `json:"totalClicks"`
	LastClicked *time.Time `json:"lastClicked"`
}

// Visit is the request metadata captured for one redirect.
type Visit struct {
	Referrer  string
	UserAgent string
	IP        string
	Country   string
}

const unknown = "Unknown"

// NewVisit applies the defaults used when a header is absent.
func NewVisit(referrer, userAgent, ip, country string) Visit {
	v := Visit{Referrer: referrer, UserAgent: userAgent, IP: ip, Country: country}
	if v.Referrer == "" {
		v.Referrer = "Direct"
	}
	if v.UserAgent == "" {
		v.UserAgent = unknown
	}
	if v.IP == "" {
		v.IP = unknown
	}
	if v.Country == "" {
		v.Country = unknown
	}
	return v
}
