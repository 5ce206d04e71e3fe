// Package billing extracts payment obligations from billing emails:
// the amount owed, the due date, and a coarse bill category.
package billing

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/mailsift/internal/model"
)

// billKeywords gate extraction. Amount patterns alone are too common in
// ordinary mail to treat every dollar figure as a bill.
var billKeywords = []string{
	"bill", "invoice", "payment due", "amount due", "due date",
	"statement", "premium due", "renewal",
}

var amountPattern = regexp.MustCompile(`\$\s*(\d+(?:,\d{3})*(?:\.\d{2})?)`)

// dueDatePatterns capture the date text following a "due" marker, in
// order of specificity.
var dueDatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)due\s*(?:date|on|by)?\s*[:\-]?\s*(\d{4}-\d{2}-\d{2})`),
	regexp.MustCompile(`(?i)due\s*(?:date|on|by)?\s*[:\-]?\s*(\d{1,2}/\d{1,2}/\d{4})`),
	regexp.MustCompile(`(?i)due\s*(?:date|on|by)?\s*[:\-]?\s*(\d{1,2}(?:st|nd|rd|th)?\s+[A-Za-z]+\s+\d{4})`),
	regexp.MustCompile(`(?i)due\s*(?:date|on|by)?\s*[:\-]?\s*([A-Za-z]+\s+\d{1,2}(?:st|nd|rd|th)?,?\s+\d{4})`),
}

var ordinalSuffix = regexp.MustCompile(`(\d{1,2})(?:st|nd|rd|th)`)

// dueDateLayouts are tried in order after ordinal suffixes are stripped.
var dueDateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"01/02/2006",
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
	"January 2 2006",
}

type billCategory struct {
	name     string
	keywords []string
}

var billCategories = []billCategory{
	{"utility", []string{"electricity", "water bill", "gas bill", "utility", "power bill"}},
	{"credit_card", []string{"credit card", "card statement", "card payment"}},
	{"internet", []string{"internet", "broadband", "wifi", "fiber"}},
	{"phone", []string{"mobile", "phone bill", "cellular", "postpaid"}},
	{"insurance", []string{"insurance", "premium"}},
	{"rent", []string{"rent", "lease"}},
	{"subscription", []string{"subscription", "netflix", "spotify", "prime", "membership"}},
}

// Extract builds a bill record from a message, or reports false when
// the message carries no recognizable amount or no billing vocabulary.
// now decides whether an already-passed due date marks the bill overdue.
func Extract(msg model.Message, now time.Time) (model.Bill, bool) {
	text := msg.Subject + " " + msg.Body
	lower := strings.ToLower(text)

	if !mentionsBill(lower) {
		return model.Bill{}, false
	}

	amount, ok := findAmount(text)
	if !ok {
		return model.Bill{}, false
	}

	dueDate, dueTime := findDueDate(text)

	status := model.BillPending
	if !dueTime.IsZero() && dueTime.Before(now) {
		status = model.BillOverdue
	}

	return model.Bill{
		ID:           uuid.NewString(),
		MessageID:    msg.ID,
		Name:         msg.Subject,
		Amount:       amount,
		DueDate:      dueDate,
		Category:     categorize(lower),
		Status:       status,
		ReceivedDate: msg.Date,
	}, true
}

func mentionsBill(lower string) bool {
	for _, kw := range billKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func findAmount(text string) (float64, bool) {
	m := amountPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	amount, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return amount, true
}

// findDueDate returns the normalized "02 Jan 2006" form plus the parsed
// time. An unparseable or absent due date yields empty values; the bill
// is still recorded.
func findDueDate(text string) (string, time.Time) {
	for _, p := range dueDatePatterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}

		raw := ordinalSuffix.ReplaceAllString(strings.TrimSpace(m[1]), "$1")
		for _, layout := range dueDateLayouts {
			t, err := time.Parse(layout, raw)
			if err != nil {
				continue
			}
			return t.Format("02 Jan 2006"), t
		}
	}
	return "", time.Time{}
}

func categorize(lower string) string {
	for _, c := range billCategories {
		for _, kw := range c.keywords {
			if strings.Contains(lower, kw) {
				return c.name
			}
		}
	}
	return "other"
}
