// Package classify assigns a category to a message from layered
// substring rules: spam first, then promotions, then an ordered topical
// table, then the general fallback.
package classify

import (
	"strings"

	"github.com/nhle/mailsift/internal/model"
)

// countHits returns how many distinct indicators appear in content.
func countHits(content string, indicators []string) int {
	n := 0
	for _, ind := range indicators {
		if strings.Contains(content, ind) {
			n++
		}
	}
	return n
}

// IsSpam reports whether the subject+body text or the sender address
// trips the spam rules. Two indicator hits are required in the text; a
// suspicious sender TLD is enough on its own.
func IsSpam(subject, body, sender string) bool {
	content := strings.ToLower(subject + " " + body)
	if countHits(content, spamIndicators) >= 2 {
		return true
	}

	sender = strings.ToLower(sender)
	for _, tld := range suspiciousTLDs {
		if strings.Contains(sender, tld) {
			return true
		}
	}
	return false
}

// isPromotion requires two indicator hits, or the single unambiguous
// "unsubscribe" marker.
func isPromotion(content string) bool {
	if countHits(content, promotionIndicators) >= 2 {
		return true
	}
	return strings.Contains(content, "unsubscribe")
}

// Classify returns the category for a message outside the spam folder.
// The spam check runs before the promotion check so that scam mail
// larded with marketing vocabulary still lands in spam.
func Classify(subject, body, sender string) model.Category {
	if IsSpam(subject, body, sender) {
		return model.CategorySpam
	}

	content := strings.ToLower(subject + " " + body)
	if isPromotion(content) {
		return model.CategoryPromotions
	}

	for _, entry := range topicTable {
		for _, kw := range entry.keywords {
			if strings.Contains(content, kw) {
				return entry.category
			}
		}
	}

	return model.CategoryGeneral
}

// ForFolder classifies a message with its source folder taken into
// account: everything from the spam folder is spam, and inbox messages
// that match no rule are primary rather than general.
func ForFolder(subject, body, sender string, folder model.Folder) model.Category {
	if folder == model.FolderSpam {
		return model.CategorySpam
	}

	cat := Classify(subject, body, sender)
	if cat == model.CategoryGeneral {
		return model.CategoryPrimary
	}
	return cat
}
