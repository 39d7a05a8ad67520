package core

import (
	"fmt"
	"strings"
)

var greetingKeywords = []string{"halo", "hello", "hi "}

var greetingOpenings = []string{
	"Yo! 👊",
	"What's up 👊 Ready to log a workout?",
	"Hey. Let's put today's work on the board 💪",
}

const notRegisteredMessage = "Hey 👋\n" +
	"Looks like you're not registered yet.\n\n" +
	"Ask the admin to add your number,\n" +
	"then you're good to go 💪"

func isGreeting(textLower string) bool {
	for _, kw := range greetingKeywords {
		if strings.Contains(textLower, kw) {
			return true
		}
	}
	return false
}

// helpMessage wraps the registry's help block with a worked example.
func helpMessage(featureHelp, prefix string) string {
	return fmt.Sprintf("*What I can do:*\n%s\n\n"+
		"*Example:*\n"+
		"%sworkout\n"+
		"type: bench press\n"+
		"reps: 20\n"+
		"sets: 4\n"+
		"weight: 10 (optional)\n\n"+
		"(weight is in kg, leave it blank for bodyweight)", featureHelp, prefix)
}

func greetingMessage(opening, help string) string {
	return opening + "\n" +
		"I'm your workout tracker.\n\n" +
		"Log it. Track it. Get stronger.\n\n" +
		help
}

func unknownCommandMessage(help string) string {
	return "Unknown command 🤔\n\n" + help
}
