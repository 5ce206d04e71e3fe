// Package schedule derives structured event records from message text.
// Extraction is pattern-driven: a message must mention an event trigger
// word at all before any of the heavier pattern passes run.
package schedule

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/mailsift/internal/model"
)

// triggerWords gate extraction. A message containing none of them
// produces no schedule record.
var triggerWords = []string{
	"exam", "test", "quiz", "meeting", "schedule", "deadline",
	"session", "class", "lecture", "appointment",
}

// examPatterns identify academic assessment events. They run before the
// meeting patterns so that "exam schedule" is an exam, not a meeting.
var examPatterns = []*regexp.Regexp{
	regexp.MustCompile(`exam\s+schedule`),
	regexp.MustCompile(`test\s+date`),
	regexp.MustCompile(`quiz\s+time`),
	regexp.MustCompile(`examination\s+slot`),
	regexp.MustCompile(`exam\s+slot`),
	regexp.MustCompile(`final\s+exam`),
	regexp.MustCompile(`midterm\s+exam`),
	regexp.MustCompile(`assessment\s+date`),
	regexp.MustCompile(`exam\s+timing`),
	regexp.MustCompile(`test\s+schedule`),
}

var meetingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`meeting\s+schedule`),
	regexp.MustCompile(`team\s+meet`),
	regexp.MustCompile(`zoom\s+call`),
	regexp.MustCompile(`google\s+meet`),
	regexp.MustCompile(`conference\s+call`),
	regexp.MustCompile(`discussion\s+session`),
	regexp.MustCompile(`sync\s+up`),
	regexp.MustCompile(`catch\s+up`),
	regexp.MustCompile(`standup`),
	regexp.MustCompile(`meeting\s+link`),
}

// timeSlotPatterns run in order against the original-case text so that
// "10:00 AM" keeps its casing. The range form wins over a bare time.
var timeSlotPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d{1,2}:\d{2}\s*(?:AM|PM))\s*(?:to|-)\s*(\d{1,2}:\d{2}\s*(?:AM|PM))`),
	regexp.MustCompile(`(?i)(\d{1,2}:\d{2}\s*(?:AM|PM))`),
	regexp.MustCompile(`(?i)\bat\s+(\d{1,2}:\d{2})`),
	regexp.MustCompile(`(?i)time:\s*(\d{1,2}:\d{2}(?:\s*(?:AM|PM))?)`),
}

var meetingLinkPattern = regexp.MustCompile(`(?i)https?://[^\s<>"]*(?:zoom|meet|teams|webex)\.[^\s<>"]+`)

var loginPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)login\s*(?:id)?\s*:\s*([A-Za-z0-9_.@-]+)`),
	regexp.MustCompile(`(?i)username\s*:\s*([A-Za-z0-9_.@-]+)`),
	regexp.MustCompile(`(?i)user\s*id\s*:\s*([A-Za-z0-9_.@-]+)`),
	regexp.MustCompile(`(?i)roll\s*no\.?\s*:\s*([A-Za-z0-9_-]+)`),
}

var passwordPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)password\s*:\s*([A-Za-z0-9@#$%^&+=!*]+)`),
	regexp.MustCompile(`(?i)passcode\s*:\s*([A-Za-z0-9@#$%^&+=!*]+)`),
	regexp.MustCompile(`(?i)access\s*key\s*:\s*([A-Za-z0-9@#$%^&+=!*]+)`),
}

// Extract builds a schedule record for a message, or reports false when
// the message mentions no event at all.
func Extract(msg model.Message) (model.Schedule, bool) {
	text := msg.Subject + " " + msg.Body
	lower := strings.ToLower(text)

	if !mentionsEvent(lower) {
		return model.Schedule{}, false
	}

	ev := model.Schedule{
		ID:          uuid.NewString(),
		MessageID:   msg.ID,
		Title:       msg.Subject,
		EventType:   eventType(lower),
		Date:        msg.Date,
		TimeSlot:    firstGroup(timeSlotPatterns, text, joinRange),
		ExtractedAt: time.Now().UTC(),
	}

	// Links belong to meetings and credentials to exams; a meeting
	// passcode or an exam portal URL is not worth persisting.
	switch ev.EventType {
	case model.EventMeeting:
		ev.MeetingLink = meetingLinkPattern.FindString(text)
	case model.EventExam:
		ev.LoginID = firstGroup(loginPatterns, text, nil)
		ev.Password = firstGroup(passwordPatterns, text, nil)
	}

	return ev, true
}

func mentionsEvent(lower string) bool {
	for _, w := range triggerWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// eventType picks the most specific type: exam phrases, then meeting
// phrases, then single keywords, then "other".
func eventType(lower string) model.EventType {
	for _, p := range examPatterns {
		if p.MatchString(lower) {
			return model.EventExam
		}
	}
	for _, p := range meetingPatterns {
		if p.MatchString(lower) {
			return model.EventMeeting
		}
	}

	switch {
	case strings.Contains(lower, "meeting"):
		return model.EventMeeting
	case strings.Contains(lower, "exam"), strings.Contains(lower, "test"):
		return model.EventExam
	case strings.Contains(lower, "deadline"),
		strings.Contains(lower, "due date"),
		strings.Contains(lower, "submission"):
		return model.EventDeadline
	case strings.Contains(lower, "schedule"),
		strings.Contains(lower, "appointment"),
		strings.Contains(lower, "event"):
		return model.EventGeneric
	}
	return model.EventOther
}

// joinRange renders a two-time match as "start - end".
func joinRange(groups []string) string {
	if len(groups) == 3 && groups[2] != "" {
		return groups[1] + " - " + groups[2]
	}
	return groups[1]
}

// firstGroup returns the first submatch of the first pattern that hits.
// render, when non-nil, formats multi-group matches.
func firstGroup(patterns []*regexp.Regexp, text string, render func([]string) string) string {
	for _, p := range patterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if render != nil {
			return render(m)
		}
		return m[1]
	}
	return ""
}
