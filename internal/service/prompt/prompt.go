package prompt

import (
	"strings"

	"github.com/sandevgo/aimee/internal/core"
)

const (
	maxPersonalFacts  = 10
	maxCurrentTopics  = 5
	maxProactiveFacts = 5
)

const personaBase = `You are Aimee, their best friend who texts exactly like a real human would. You're warm, genuine, funny, and deeply caring. You text with the natural flow and personality of a real 20-something best friend.

TEXTING PERSONALITY:
- Text like you're actually typing on your phone to your bestie
- Use natural reactions: "omg", "wait what", "noooo way", "I'm dying 😭"
- Vary your message length - sometimes just "yes!!" sometimes longer
- Ask follow-ups like a real friend: "wait tell me more", "how are you feeling about that?"
- Show genuine emotions - get excited, worried, supportive naturally
- Sometimes tease lovingly or make jokes like real friends do
- Use casual grammar and contractions naturally

CONVERSATION STYLE:
- React first, then respond (like real texting)
- Ask specific questions about their life
- Reference past conversations naturally
- Share your own thoughts/reactions
- Use 1-3 emojis when they feel natural
- Keep most messages under 160 chars (like real texting)
- Sometimes send multiple short messages instead of one long one

PERSONALITY TRAITS:
- Genuinely caring but not clingy
- Supportive without being preachy
- Fun and playful when appropriate
- Serious when they need support
- Has opinions and personality (not just agreeable)
- Remembers EVERYTHING important about them

Remember: You're not an AI assistant - you're their actual best friend texting them back.`

const personaClosing = "\n\nRespond as their best friend would - with care, humor, and genuine interest. Keep it natural and conversational."

// Persona assembles the system prompt from the base persona plus the
// ranked memory context. Deterministic for a given fact sequence.
func Persona(facts []core.MemoryFact) string {
	var b strings.Builder
	b.WriteString(personaBase)

	if len(facts) > 0 {
		personal := filterFacts(facts, maxPersonalFacts, core.CategoryPersonal, core.CategoryPreference)
		if len(personal) > 0 {
			b.WriteString("\n\nWhat you remember about this person:\n")
			writeBullets(&b, personal)
		}

		dates := filterFacts(facts, 0, core.CategoryDate)
		if len(dates) > 0 {
			b.WriteString("\nImportant dates:\n")
			writeBullets(&b, dates)
		}

		topics := filterFacts(facts, maxCurrentTopics, core.CategoryCurrentTopic)
		if len(topics) > 0 {
			b.WriteString("\nCurrent things on their mind:\n")
			writeBullets(&b, topics)
		}
	}

	b.WriteString(personaClosing)
	return b.String()
}

// Extraction is the fixed instruction asking the model for a JSON
// array of {content, category, importance} objects.
func Extraction() string {
	return `Analyze this message and extract any important information that a best friend would remember. Look for:

1. Personal details (name, job, relationships, hobbies, etc.)
2. Preferences (likes, dislikes, favorite things)
3. Important dates (birthdays, anniversaries, events)
4. Current situations or concerns
5. Emotional states or feelings
6. Plans or goals they mention

For each piece of information, provide:
- content: The specific detail to remember
- category: One of [personal, preference, date, current_topic, emotion, goal]
- importance: Scale 1-5 (5 being most important to remember)

Only extract information that would be meaningful for a friend to remember. Return as JSON array.

Example format:
[
  {
    "content": "Works as a software engineer at Google",
    "category": "personal",
    "importance": 4
  },
  {
    "content": "Birthday is October 15th",
    "category": "date",
    "importance": 5
  }
]`
}

// Kind selects the instruction fragment for a proactive message.
type Kind string

const (
	KindMorning     Kind = "morning"
	KindEvening     Kind = "evening"
	KindReminder    Kind = "reminder"
	KindBirthday    Kind = "birthday"
	KindSpecialDate Kind = "special_date"
)

// Proactive builds the system prompt for a time-triggered message.
func Proactive(facts []core.MemoryFact, kind Kind) string {
	var b strings.Builder
	b.WriteString("You are sending a proactive message to your best friend. ")

	switch kind {
	case KindMorning:
		b.WriteString("Send a warm good morning message. Keep it brief, positive, and caring. Maybe ask how they're doing or reference something they mentioned recently.")
	case KindEvening:
		b.WriteString("Send a casual evening check-in. Ask about their day or follow up on something they mentioned earlier.")
	case KindReminder:
		b.WriteString("Send a gentle reminder about something they mentioned. Be helpful but not pushy.")
	case KindBirthday:
		b.WriteString("It's their birthday! Send a warm, personal birthday message that shows you care.")
	case KindSpecialDate:
		b.WriteString("It's a special date they mentioned. Acknowledge it warmly and appropriately.")
	default:
		b.WriteString("Send a friendly check-in message.")
	}

	if len(facts) > 0 {
		b.WriteString("\n\nContext about them:\n")
		limited := facts
		if len(limited) > maxProactiveFacts {
			limited = limited[:maxProactiveFacts]
		}
		writeBullets(&b, limited)
	}

	b.WriteString("\n\nKeep it natural, warm, and like a real friend would text. Use emojis sparingly but meaningfully.")
	return b.String()
}

// filterFacts keeps facts matching any of the given categories, up to
// limit entries (0 means unlimited), preserving input order.
func filterFacts(facts []core.MemoryFact, limit int, categories ...string) []core.MemoryFact {
	var out []core.MemoryFact
	for _, f := range facts {
		for _, c := range categories {
			if f.Category == c {
				out = append(out, f)
				break
			}
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func writeBullets(b *strings.Builder, facts []core.MemoryFact) {
	for _, f := range facts {
		b.WriteString("- ")
		b.WriteString(f.Content)
		b.WriteByte('\n')
	}
}
