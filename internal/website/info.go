// Package website gathers contact details and social media stats from a
// company's own website.
package website

// Info is everything found for one website. Each page carries Status true
// when it was found and fetched successfully.
type Info struct {
	Website       string        `json:"website"`
	DomainName    string        `json:"domainName"`
	FacebookPage  FacebookPage  `json:"facebookPage"`
	TwitterPage   TwitterPage   `json:"twitterPage"`
	InstagramPage InstagramPage `json:"instagramPage"`
	ContactPage   ContactPage   `json:"contactPage"`
}

type FacebookPage struct {
	Link      string `json:"link,omitempty"`
	PageTitle string `json:"pageTitle,omitempty"`
	Likes     int    `json:"likes"`
	Followers int    `json:"followers"`
	Status    bool   `json:"status"`
}

type TwitterPage struct {
	Link      string `json:"link,omitempty"`
	Followers int    `json:"followers"`
	Following int    `json:"following"`
	Status    bool   `json:"status"`
}

type InstagramPage struct {
	Link      string `json:"link,omitempty"`
	Username  string `json:"username,omitempty"`
	Followers int    `json:"followers"`
	Following int    `json:"following"`
	Status    bool   `json:"status"`
}

type ContactPage struct {
	Link   string `json:"link,omitempty"`
	Number string `json:"number,omitempty"`
	Email  string `json:"email,omitempty"`
	Status bool   `json:"status"`
}
