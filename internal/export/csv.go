// Package export writes run results to CSV files that open cleanly in Excel
// and Google Sheets.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"LinkedinLeads/internal/leads"
)

// Header of the exported CSV, one row per company.
var Header = []string{
	"title", "overview", "industry", "founded", "phone", "website", "headquarters", "type",
	"employees", "profile_url", "contact_page", "contact_email", "contact_number",
	"facebook", "twitter", "instagram", "captured_at",
}

const filePrefix = "linkedin_leads_"

// Filename returns a timestamped CSV path inside dir.
func Filename(dir string, now time.Time) string {
	return filepath.Join(dir, filePrefix+now.Format("20060102_150405")+".csv")
}

// Write saves items to path with a UTF-8 BOM, creating the directory.
func Write(path string, items []leads.Lead, capturedAt time.Time) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		return err
	}
	for _, l := range items {
		if err := w.Write(record(l, capturedAt)); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

func record(l leads.Lead, capturedAt time.Time) []string {
	employees := make([]string, len(l.Employees))
	for i, e := range l.Employees {
		employees[i] = e.Name + ": " + e.JobTitle
	}
	rec := []string{
		l.Title, l.Overview, l.Industry, l.Founded, l.Phone, l.Website, l.Headquarters, l.Type,
		strings.Join(employees, "\n"), l.ProfileURL,
		"", "", "", "", "", "",
		capturedAt.Format("2006-01-02 15:04:05"),
	}
	if info := l.WebsiteScrape; info != nil {
		rec[10] = info.ContactPage.Link
		rec[11] = info.ContactPage.Email
		rec[12] = info.ContactPage.Number
		rec[13] = info.FacebookPage.Link
		rec[14] = info.TwitterPage.Link
		rec[15] = info.InstagramPage.Link
	}
	return rec
}

// Latest returns the newest export in dir, or "" when there is none.
func Latest(dir string) string {
	entries, err := filepath.Glob(filepath.Join(dir, filePrefix+"*.csv"))
	if err != nil || len(entries) == 0 {
		return ""
	}
	var best string
	for _, e := range entries {
		if e > best {
			best = e
		}
	}
	return best
}

// Preview reads up to limit rows of an export as header-keyed maps.
// A limit of zero or less reads every row.
func Preview(path string, limit int) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	}
	var out []map[string]string
	for _, rec := range records[1:] {
		if limit > 0 && len(out) >= limit {
			break
		}
		row := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(rec) {
				row[h] = rec[i]
			}
		}
		out = append(out, row)
	}
	return out, nil
}
