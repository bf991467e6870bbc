package linkedin

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"LinkedinLeads/internal/browser"
)

// Locators is the table of every page landmark the crawler relies on.
// LinkedIn markup changes only ever need edits here, or a YAML override
// loaded with LoadLocators.
type Locators struct {
	LoginUsername browser.Locator
	LoginPassword browser.Locator
	Feed          browser.Locator
	Challenge     browser.Locator

	SearchBox        browser.Locator
	NoResults        browser.Locator
	ResultEntry      browser.Locator
	ResultCount      browser.Locator
	ResultsContainer browser.Locator
	RetrySearch      browser.Locator
	ResultLink       browser.Locator
	TypePeople       browser.Locator
	TypeCompanies    browser.Locator

	FilterBar              browser.Locator
	IndustryButton         browser.Locator
	IndustryInput          browser.Locator
	IndustryShowResults    browser.Locator
	LocationButton         browser.Locator
	LocationInput          browser.Locator
	LocationShowResults    browser.Locator
	CompanySizeButton      browser.Locator
	CompanySizeOption      browser.Locator // %s is the size label, e.g. 11-50
	CompanySizeShowResults browser.Locator

	CompanyTitle       browser.Locator
	AboutTab           browser.Locator
	AboutOverview      browser.Locator
	OverviewText       browser.Locator
	IndustryField      browser.Locator
	FoundedField       browser.Locator
	PhoneField         browser.Locator
	WebsiteField       browser.Locator
	HeadquartersField  browser.Locator
	TypeField          browser.Locator
	EmployeesLink      browser.Locator
	EmployeeRow        browser.Locator
	EmployeeSubtitle   browser.Locator // relative to one EmployeeRow
	EmployeeName       browser.Locator // relative to one EmployeeRow
}

func aboutField(name, label string) browser.Locator {
	return browser.XPath(name, fmt.Sprintf(`//dd[preceding::dt[1][text()=%s]]`, browser.XPathLiteral(label)))
}

// DefaultLocators matches LinkedIn's markup at the time of writing.
func DefaultLocators() Locators {
	return Locators{
		LoginUsername: browser.XPath("login username", `//input[@id="username"]`),
		LoginPassword: browser.XPath("login password", `//input[@id="password"]`),
		Feed:          browser.XPath("feed", `//div[@id="voyager-feed"]`),
		Challenge: browser.CSS("login challenge",
			`iframe[src*="captcha"], iframe[src*="challenge"], input[autocomplete="one-time-code"], input[name*="pin"]`),

		SearchBox:        browser.XPath("search box", `//input[contains(@class, "search-global")]`),
		NoResults:        browser.XPath("no results", `//h1[text()="No results found"]`),
		ResultEntry:      browser.XPath("result entry", `//div[contains(@class, "entity-result")]`),
		ResultCount:      browser.XPath("result count", `//div[@class="search-results-container"]/div[text()][1]`),
		ResultsContainer: browser.XPath("results container", `//div[@class="search-results-container"]`),
		RetrySearch:      browser.XPath("retry search", `//button/span[text()="Retry search"]`),
		ResultLink:       browser.XPath("result link", `//span/a[contains(@class, "app-aware-link")]`),
		TypePeople:       browser.XPath("people type", `//button[text()="People"]`),
		TypeCompanies:    browser.XPath("companies type", `//button[text()="Companies"]`),

		FilterBar:      browser.XPath("filter bar", `//div[contains(@class, "search-reusables__filter-trigger")]`),
		IndustryButton: browser.XPath("industry filter", `//button[text()="Industry"]`),
		IndustryInput:  browser.XPath("industry input", `//input[@placeholder="Add an industry"]`),
		IndustryShowResults: browser.XPath("industry show results",
			`//div[@id="hoverable-outlet-industry-filter-value"]//button/*[text()="Show results"]`),
		LocationButton: browser.XPath("locations filter", `//button[text()="Locations"]`),
		LocationInput:  browser.XPath("location input", `//input[@placeholder="Add a location"]`),
		LocationShowResults: browser.XPath("locations show results",
			`//div[@id="hoverable-outlet-locations-filter-value"]//button/*[text()="Show results"]`),
		CompanySizeButton: browser.XPath("company size filter", `//button[text()="Company size"]`),
		CompanySizeOption: browser.XPath("company size option", `//span[text()=concat(%s, " employees")]`),
		CompanySizeShowResults: browser.XPath("company size show results",
			`//div[@id="hoverable-outlet-company-size-filter-value"]//button/*[text()="Show results"]`),

		CompanyTitle:      browser.XPath("company title", `//h1/span`),
		AboutTab:          browser.XPath("about tab", `//a[text()="About"]`),
		AboutOverview:     browser.XPath("about overview", `//h2[text()="Overview"]`),
		OverviewText:      browser.XPath("overview", `//p[contains(@class, "t-black--light")]`),
		IndustryField:     aboutField("industry", "Industry"),
		FoundedField:      aboutField("founded", "Founded"),
		PhoneField:        browser.XPath("phone", `//dd[preceding::dt[1][text()="Phone"]]//span[not(contains(@class, "visually-hidden"))]`),
		WebsiteField:      aboutField("website", "Website"),
		HeadquartersField: aboutField("headquarters", "Headquarters"),
		TypeField:         aboutField("type", "Type"),
		EmployeesLink:     browser.XPath("employees link", `//a[contains(@href, "/search/results/people")]`),
		EmployeeRow:       browser.XPath("employee row", `//div[@class="entity-result__item"]`),
		EmployeeSubtitle:  browser.XPath("employee subtitle", `//div[contains(@class, "entity-result__primary-subtitle")]`),
		EmployeeName: browser.XPath("employee name",
			`//span[contains(@class, "entity-result__title-text")]/a/span/span[text() and @aria-hidden]`),
	}
}

func (l *Locators) table() map[string]*browser.Locator {
	return map[string]*browser.Locator{
		"login_username":            &l.LoginUsername,
		"login_password":            &l.LoginPassword,
		"feed":                      &l.Feed,
		"challenge":                 &l.Challenge,
		"search_box":                &l.SearchBox,
		"no_results":                &l.NoResults,
		"result_entry":              &l.ResultEntry,
		"result_count":              &l.ResultCount,
		"results_container":         &l.ResultsContainer,
		"retry_search":              &l.RetrySearch,
		"result_link":               &l.ResultLink,
		"type_people":               &l.TypePeople,
		"type_companies":            &l.TypeCompanies,
		"filter_bar":                &l.FilterBar,
		"industry_button":           &l.IndustryButton,
		"industry_input":            &l.IndustryInput,
		"industry_show_results":     &l.IndustryShowResults,
		"location_button":           &l.LocationButton,
		"location_input":            &l.LocationInput,
		"location_show_results":     &l.LocationShowResults,
		"company_size_button":       &l.CompanySizeButton,
		"company_size_option":       &l.CompanySizeOption,
		"company_size_show_results": &l.CompanySizeShowResults,
		"company_title":             &l.CompanyTitle,
		"about_tab":                 &l.AboutTab,
		"about_overview":            &l.AboutOverview,
		"overview_text":             &l.OverviewText,
		"industry_field":            &l.IndustryField,
		"founded_field":             &l.FoundedField,
		"phone_field":               &l.PhoneField,
		"website_field":             &l.WebsiteField,
		"headquarters_field":        &l.HeadquartersField,
		"type_field":                &l.TypeField,
		"employees_link":            &l.EmployeesLink,
		"employee_row":              &l.EmployeeRow,
		"employee_subtitle":         &l.EmployeeSubtitle,
		"employee_name":             &l.EmployeeName,
	}
}

// rowScoped names the locators combined by Locator.Nth into one XPath per
// employee row.
var rowScoped = map[string]bool{
	"employee_row":      true,
	"employee_subtitle": true,
	"employee_name":     true,
}

// LocatorOverride replaces the query of one locator. By defaults to the
// locator's current query language.
type LocatorOverride struct {
	Query string `yaml:"query"`
	By    string `yaml:"by,omitempty"`
}

// Override applies overrides keyed by snake_case locator name.
func (l *Locators) Override(overrides map[string]LocatorOverride) error {
	table := l.table()
	var unknown []string
	for name, o := range overrides {
		loc, ok := table[name]
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		if o.Query != "" {
			loc.Query = o.Query
		}
		switch o.By {
		case "":
		case "xpath":
			loc.By = browser.ByXPath
		case "css":
			if rowScoped[name] {
				return fmt.Errorf("locator %s: row locators are indexed with XPath and cannot use css", name)
			}
			loc.By = browser.ByCSS
		default:
			return fmt.Errorf("locator %s: unknown query language %q", name, o.By)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("unknown locators: %v", unknown)
	}
	return nil
}

// LoadLocators returns DefaultLocators with the overrides in a YAML file applied.
// An empty path yields the defaults.
//
//	feed:
//	  query: //main[contains(@class, "scaffold-layout")]
//	challenge:
//	  query: iframe[title*="captcha"]
//	  by: css
func LoadLocators(path string) (Locators, error) {
	locs := DefaultLocators()
	if path == "" {
		return locs, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return locs, fmt.Errorf("failed to read locators file: %w", err)
	}
	var overrides map[string]LocatorOverride
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return locs, fmt.Errorf("failed to parse locators file %s: %w", path, err)
	}
	if err := locs.Override(overrides); err != nil {
		return locs, fmt.Errorf("locators file %s: %w", path, err)
	}
	return locs, nil
}
