package linkedin

import "errors"

var (
	// ErrAuthFailed means the login form could not be reached or filled, or a
	// challenge appeared that cannot be solved in headless mode.
	ErrAuthFailed = errors.New("linkedin: authentication failed")
	// ErrNavigationFailed means a page load failed.
	ErrNavigationFailed = errors.New("linkedin: navigation failed")
	// ErrFilterApplicationFailed aborts a search call when any filter step fails.
	ErrFilterApplicationFailed = errors.New("linkedin: filter application failed")
	// ErrSearchFailed covers search steps other than filtering, such as the
	// search box or result count never appearing.
	ErrSearchFailed = errors.New("linkedin: search failed")
	// ErrTitleNotFound aborts a company profile whose title is missing.
	ErrTitleNotFound = errors.New("linkedin: company title not found")
	// ErrAboutNotFound aborts a company profile whose About section never loads.
	ErrAboutNotFound = errors.New("linkedin: about section not found")
	// ErrEmployeesUnavailable means the people search for a company failed.
	ErrEmployeesUnavailable = errors.New("linkedin: employees unavailable")
)
