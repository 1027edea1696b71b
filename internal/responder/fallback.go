package responder

import "math/rand/v2"

// Source is the randomness used to pick fallback phrases. *rand.Rand
// satisfies it.
type Source interface {
	IntN(n int) int
}

type entropySource struct{}

func (entropySource) IntN(n int) int { return rand.IntN(n) }

var fallbackPools = map[Role][]string{
	RoleChat: {
		"Thanks for your message! I'm having trouble reaching my brain right now. Please try again in a moment or use the contact form.",
		"Good question! I can't answer in detail at the moment, but feel free to browse the projects section or send a message through the contact form.",
		"I'm temporarily offline. In the meantime, try the movie and music recommender or the resume optimizer on this site.",
		"Sorry, I can't respond properly right now. Please check back shortly, I'll be happy to help then.",
		"Hi there! My assistant features are taking a short break. The portfolio and tools on this site are still fully available.",
	},
	RolePersona: {
		"Thanks for reaching out! I can't chat right now, but the projects page shows what I've been building lately.",
		"Great to hear from you. I'm away from the keyboard at the moment, so the contact form is the best way to reach me.",
		"I'd love to talk about that. Leave me a message through the contact form and I'll get back to you personally.",
		"Hi! I'm not able to answer live right now. My resume and project write-ups cover most of what I work on.",
		"Thanks for stopping by my portfolio. I'll be back online soon. Until then, feel free to look around.",
	},
	RoleResumeSuggestion: {
		"Start each bullet point with a strong action verb such as led, built or delivered, and follow it with the measurable result.",
		"Quantify your impact wherever you can: team sizes, percentages, revenue, latency or time saved make achievements concrete.",
		"Mirror the key terms from the job description in your own words so applicant tracking systems recognize the match.",
		"Keep this section focused: two to four lines per role highlighting outcomes rather than listing duties.",
		"Lead with your most relevant achievement for the target role and cut older or unrelated details.",
	},
}

// FallbackPool returns a copy of the canned responses for role.
func FallbackPool(role Role) []string {
	pool := fallbackPools[role.orDefault()]
	out := make([]string, len(pool))
	copy(out, pool)
	return out
}

func (r *Responder) fallback(role Role) Result {
	pool := fallbackPools[role.orDefault()]
	return Result{Kind: KindFallback, Text: pool[r.src.IntN(len(pool))]}
}
