package classify

import "github.com/nhle/mailsift/internal/model"

// spamIndicators are counted across subject+body; two or more hits mark
// a message as spam regardless of any other signal.
var spamIndicators = []string{
	// Lottery and prize scams.
	"win", "winner", "congratulation", "prize", "lottery",
	"million dollar", "inheritance", "nigerian prince",

	// Financial urgency and account scams.
	"bank transfer", "investment opportunity", "earn money fast",
	"make money online", "bank account verify", "account suspended",
	"payment pending", "fast cash", "free money",

	// Gambling and pharma.
	"casino", "betting", "gambling",
	"viagra", "pharmacy", "medication", "weight loss", "diet pill",

	// Counterfeit goods.
	"luxury replica", "rolex",

	// Manufactured urgency.
	"urgent", "act now", "limited time", "exclusive deal",
	"once in a lifetime",

	// Suspicious top-level domains appearing in the text itself.
	".xyz", ".top", ".loan", ".work", ".click",

	// Cryptocurrency scams.
	"bitcoin", "cryptocurrency", "crypto investment", "mining profit",

	// Adult-content cues.
	"adult dating", "singles in your area",
}

// suspiciousTLDs flag a sender address on a single hit.
var suspiciousTLDs = []string{".xyz", ".top", ".loan", ".work", ".click"}

// promotionIndicators follow the same counting scheme as spam; the
// literal substring "unsubscribe" is an unconditional promotion signal.
var promotionIndicators = []string{
	// Marketing terms.
	"promotion", "offer", "discount", "sale", "deal", "coupon",
	"special offer", "limited time", "exclusive", "savings",

	// Shopping terms.
	"shop now", "buy now", "order today", "free shipping",
	"new arrival", "clearance", "flash sale", "best seller",

	// Urgency terms.
	"last chance", "ending soon", "don't miss out", "limited stock",

	// Percentage and money terms.
	"% off", "cashback", "free gift", "bonus",

	// Common promotional phrases.
	"black friday", "cyber monday", "holiday sale",
	"seasonal offer", "members only", "vip offer",

	// Newsletter and updates.
	"newsletter", "latest deals", "weekly offers",

	// Common promotional senders.
	"amazon", "flipkart", "ebay", "walmart",
	"unsubscribe", "marketing", "promotional",
}

// topicEntry binds a category to its keyword list. Slice order is the
// tie-break: the first entry with any hit wins.
type topicEntry struct {
	category model.Category
	keywords []string
}

var topicTable = []topicEntry{
	{"finance", []string{
		"invoice", "payment", "bill", "transaction", "credit", "debit",
		"bank", "salary", "receipt", "subscription fee",
		"account balance", "statement",
	}},
	{"meetings", []string{
		"meeting", "schedule", "appointment", "calendar", "zoom",
		"google meet", "conference", "discussion", "sync up",
		"catch up", "team meeting",
	}},
	{"education", []string{
		"course", "lecture", "assignment", "homework", "exam", "quiz",
		"study", "grade", "certificate", "training", "workshop",
		"webinar",
	}},
	{"social", []string{
		"linkedin", "facebook", "twitter", "instagram", "social",
		"connection", "network", "invitation", "connect",
		"profile view", "endorsement",
	}},
	{"updates", []string{
		"newsletter", "subscription", "digest", "weekly update",
		"monthly update", "announcement", "news", "product update",
		"release notes",
	}},
	{"jobs", []string{
		"job", "career", "position", "opportunity", "hiring",
		"recruitment", "interview", "application", "resume",
		"offer letter", "employment",
	}},
	{"work", []string{
		"project", "task", "collaboration", "deadline", "review",
		"feedback", "report", "status update", "milestone",
		"deliverable",
	}},
	{"promotions", []string{
		"promotion", "offer", "discount", "sale", "deal", "coupon",
		"special offer", "limited time", "exclusive", "savings",
	}},
	{"development", []string{
		"github", "gitlab", "pull request", "commit", "merge",
		"code review", "bug", "feature", "deployment", "release",
		"api", "documentation",
	}},
	{"security", []string{
		"password", "security", "verification", "authenticate", "2fa",
		"login", "access", "permission", "authorization", "reset",
		"suspicious",
	}},
	{"travel", []string{
		"flight", "booking", "reservation", "itinerary", "travel",
		"hotel", "ticket", "boarding pass", "accommodation", "trip",
	}},
	{"notifications", []string{
		"alert", "notification", "reminder", "notice",
		"action required", "confirmation", "verify", "validate",
		"approve",
	}},
	{"health", []string{
		"doctor", "appointment", "prescription", "health", "medical",
		"hospital", "pharmacy", "insurance", "wellness", "fitness",
		"nutrition",
	}},
	{"shopping", []string{
		"order", "shipment", "delivery", "tracking", "purchase",
		"cart", "checkout", "store", "retail", "product", "catalog",
	}},
	{"entertainment", []string{
		"movie", "film", "show", "concert", "event", "ticket",
		"booking", "streaming", "music", "game", "play", "theater",
	}},
	{"real estate", []string{
		"property", "listing", "rent", "lease", "mortgage",
		"real estate", "apartment", "condo", "house",
	}},
	{"legal", []string{
		"law", "lawyer", "legal", "contract", "agreement", "court",
		"case", "litigation", "notice", "complaint",
	}},
	{"support", []string{
		"support", "help", "assistance", "customer service", "contact",
		"ticket", "issue", "resolution", "feedback", "query",
	}},
	{"subscriptions", []string{
		"subscription", "renewal", "plan", "billing", "payment",
		"cancel", "upgrade", "downgrade", "membership",
	}},
	{"events", []string{
		"event", "conference", "seminar", "workshop", "webinar",
		"gathering", "meetup", "celebration", "party", "festival",
	}},
}
