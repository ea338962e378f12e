// Package fallback produces canned replies for sessions without a configured
// backend. Rules are an ordered table so precedence is explicit and each rule
// is independently testable.
package fallback

import (
	"fmt"
	"strings"
)

type rule struct {
	triggers []string
	reply    string
}

// rules are evaluated top to bottom; the first trigger contained in the
// lowercased input wins. Greeting rules deliberately precede the generic
// help/api rules.
var rules = []rule{
	{
		triggers: []string{"hello", "hi"},
		reply:    "Hello! 👋 I'm your industrial automation assistant. How can I help you today?",
	},
	{
		triggers: []string{"how are you"},
		reply: "I'm doing great! Thanks for asking. I'm here to help you with any questions " +
			"about industrial automation or anything else you'd like to know!",
	},
	{
		triggers: []string{"plc", "scada", "automation"},
		reply: "I can help you with industrial automation questions! Whether it's about PLC " +
			"programming, SCADA systems, industrial IoT or smart factories - just ask!",
	},
	{
		triggers: []string{"help", "api"},
		reply: "I'm here to help! You can ask me about:\n• PLC programming\n• SCADA systems\n" +
			"• Industrial IoT\n• General information\n\nWhat would you like to know?",
	},
	{
		triggers: []string{"thank"},
		reply:    "You're very welcome! 😊 Is there anything else I can help you with?",
	},
	{
		triggers: []string{"bye", "goodbye"},
		reply:    "Goodbye! 👋 Feel free to come back anytime if you have more questions!",
	},
}

// Resolve maps raw user text to a canned reply. It is pure and total: any
// input that matches no rule falls through to a generic echo reply.
func Resolve(text string) string {
	lowered := strings.ToLower(text)
	for _, r := range rules {
		for _, trigger := range r.triggers {
			if strings.Contains(lowered, trigger) {
				return r.reply
			}
		}
	}
	return fmt.Sprintf("That's an interesting question about %q! I'm currently a demo chatbot, "+
		"but I'm learning to provide better responses. Configure an AI backend to get more detailed answers!", text)
}
