package bot

import "fmt"

// Reply keyboard labels. They double as routing keys.
const (
	LabelOneEvent   = "🗓 Events on this day"
	LabelFiveEvents = "5️⃣ Five events"
	LabelTenEvents  = "🔟 Ten events"
	LabelHelp       = "ℹ️ Help"
)

const (
	msgWelcome = "👋 Hello! I'm the 'This Day in History' bot.\n\n" +
		"I can tell you interesting events " +
		"that happened on this day in the past.\n\n" +
		"Use the buttons below to learn about events."

	msgHelp = "🤖 'This Day in History' Bot\n\n" +
		"This bot provides information about events that happened on this day in different years. " +
		"Data is retrieved from Wikipedia.\n\n" +
		"Available buttons:\n" +
		LabelOneEvent + " - get information about one random event\n" +
		LabelFiveEvents + " - get five random events\n" +
		LabelTenEvents + " - get ten random events\n" +
		LabelHelp + " - show this help message\n\n" +
		"Commands available:\n" +
		"/start - start the bot\n" +
		"/help - show help information\n" +
		"/today - one random event\n" +
		"/status - usage statistics"

	msgUnknown = "I don't understand this message. Please use the buttons at the bottom of the screen."

	msgStatsDisabled = "Usage statistics are disabled."
	msgStatsError    = "Usage statistics are unavailable right now."
)

func searchingNotice(count int) string {
	switch count {
	case 1:
		return "Looking for an interesting event for you..."
	case 5:
		return "Looking for five interesting events for you..."
	case 10:
		return "Looking for ten interesting events for you..."
	default:
		return fmt.Sprintf("Looking for %d interesting events for you...", count)
	}
}
