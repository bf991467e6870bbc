package sheets

import (
	"strconv"
	"strings"

	"LinkedinLeads/internal/linkedin"
	"LinkedinLeads/internal/website"
)

const missing = "N/A"

// Columns of the leads spreadsheet, in order.
var Columns = []string{
	"Company",
	"Website",
	"Contact Page",
	"Contact Email",
	"Phone",
	"Employees",
	"Facebook",
	"Facebook Title",
	"Facebook Likes",
	"Facebook Followers",
	"Instagram",
	"Instagram Username",
	"Instagram Followers",
	"Instagram Following",
	"Draft Created",
}

// Row lays a lead out as a spreadsheet row. Website details take priority
// over LinkedIn ones since companies keep their own sites more current.
// The phone is prefixed with a quote so Sheets keeps a leading "+".
func Row(rec linkedin.CompanyRecord, info *website.Info) []any {
	if info == nil {
		info = &website.Info{}
	}
	employees := make([]string, len(rec.Employees))
	for i, e := range rec.Employees {
		employees[i] = e.Name + ": " + e.JobTitle
	}
	return []any{
		or(rec.Title),
		or(rec.Website),
		or(info.ContactPage.Link),
		or(info.ContactPage.Email),
		"'" + or(info.ContactPage.Number, rec.Phone),
		or(strings.Join(employees, "\n")),
		or(info.FacebookPage.Link),
		or(info.FacebookPage.PageTitle),
		count(info.FacebookPage.Likes),
		count(info.FacebookPage.Followers),
		or(info.InstagramPage.Link),
		or(info.InstagramPage.Username),
		count(info.InstagramPage.Followers),
		count(info.InstagramPage.Following),
		missing,
	}
}

func or(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return missing
}

func count(n int) string {
	if n == 0 {
		return missing
	}
	return strconv.Itoa(n)
}
