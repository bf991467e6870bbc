package linkedin

import (
	"fmt"
	"strings"
)

// SearchType narrows a search to one kind of result.
type SearchType string

const (
	People      SearchType = "PEOPLE"
	Company     SearchType = "COMPANY"
	Unspecified SearchType = ""
)

// ParseSearchType accepts the type names case-insensitively. Anything else is
// kept verbatim so the search pipeline can log and skip it.
func ParseSearchType(s string) SearchType {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PEOPLE":
		return People
	case "COMPANY", "COMPANIES":
		return Company
	case "":
		return Unspecified
	default:
		return SearchType(s)
	}
}

// Credentials log a user into LinkedIn.
type Credentials struct {
	Email    string
	Password string
}

func (c Credentials) String() string {
	return fmt.Sprintf("{Email:%s Password:****}", c.Email)
}

// Filters are the optional search filters, applied in field order.
type Filters struct {
	Industry    string `json:"industry,omitempty"`
	Location    string `json:"location,omitempty"`
	CompanySize string `json:"companySize,omitempty"`
}

// SearchRequest is the input of one search pipeline call.
type SearchRequest struct {
	Term    string     `json:"term"`
	Filters Filters    `json:"params"`
	Type    SearchType `json:"type"`
}

// Reasons reported by SearchOutcome for legitimate negative outcomes.
const (
	ReasonNoResults     = "No results found."
	ReasonNoMoreResults = "No more results."
)

// SearchOutcome is the result of one search pipeline call.
type SearchOutcome struct {
	Success bool
	Links   []string
	Reason  string
}

// EmployeeRecord is a person whose job title matched the vocabulary.
// JobTitle is always the canonical vocabulary entry.
type EmployeeRecord struct {
	Name     string `json:"name"`
	JobTitle string `json:"jobTitle"`
}

// CompanyRecord holds what a company profile page shows. Title is the
// dedup key of a run.
type CompanyRecord struct {
	Title        string           `json:"title,omitempty"`
	Overview     string           `json:"overview,omitempty"`
	Industry     string           `json:"industry,omitempty"`
	Founded      string           `json:"founded,omitempty"`
	Phone        string           `json:"phone,omitempty"`
	Website      string           `json:"website,omitempty"`
	Headquarters string           `json:"headquarters,omitempty"`
	Type         string           `json:"type,omitempty"`
	Employees    []EmployeeRecord `json:"employees,omitempty"`
}
