package workout

import (
	"fmt"
	"strings"

	"github.com/jdelaire/gymbot/internal/localtime"
)

const (
	EmptyListMessage = "Nothing logged yet 👀\n\n" +
		"Start with:\n" +
		"#workout\n\n" +
		"Let's get the first one in 💪"

	UsageMessage = "Hmm 🤔 that didn't go through.\n\n" +
		"Use this format:\n" +
		"#workout\n" +
		"type: push up\n" +
		"reps: 20\n" +
		"sets: 4\n" +
		"weight: 10 (optional)\n\n" +
		"(weight is in kg, leave it blank for bodyweight)\n\n" +
		"Try again 💪"
)

var bandMessages = map[localtime.Band]string{
	localtime.BandEarly:      "Early grind 💯\nStarting the day right.",
	localtime.BandMidday:     "Midday work 👊\nStaying consistent.",
	localtime.BandAfterHours: "After-hours effort 💪\nWay to show up.",
	localtime.BandLate:       "Late session 👀\nThat's commitment.",
}

// BandMessage returns the remark for a time-of-day band.
func BandMessage(b localtime.Band) string {
	return bandMessages[b]
}

// WeightLabel renders kilograms, with 0 meaning bodyweight.
func WeightLabel(kg int) string {
	if kg == 0 {
		return "bodyweight"
	}
	return fmt.Sprintf("%dkg", kg)
}

// FormatList renders records newest first, one line each.
func FormatList(records []Record, clock *localtime.Clock) string {
	if len(records) == 0 {
		return EmptyListMessage
	}

	lines := make([]string, 0, len(records))
	for _, r := range records {
		lines = append(lines, fmt.Sprintf("• %s – %s | %d × %d @ %s",
			clock.DayLabel(r.CreatedAt), r.Type, r.Reps, r.Sets, WeightLabel(r.Weight)))
	}
	return "Recent work 💪\n\n" + strings.Join(lines, "\n")
}

// FormatLogged renders the confirmation for a stored record.
func FormatLogged(r Record, band localtime.Band) string {
	return fmt.Sprintf("Logged 💪\n%s\n%d × %d @ %s\n\n%s",
		r.Type, r.Reps, r.Sets, WeightLabel(r.Weight), BandMessage(band))
}
