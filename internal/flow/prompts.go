package flow

import "fmt"

// User-facing message texts. Keyboard button labels live in keyboards.go;
// everything here is message body text.
const (
	msgMenu             = "Main menu. Choose an action:"
	msgMenuUnauthorized = "To use the bot, please authorize by sharing your contact."
	msgGreeting         = "Hello! I am the PPE assistant bot. I can help you rate pickpoints, look up protective equipment and leave reviews."
	msgHelp             = "What I can do:\n\n" +
		"🏬 Rate a pickpoint — score a PPE distribution point from 1 to 5 and leave a comment.\n" +
		"🦺 PPE info — browse the protective equipment catalog.\n" +
		"📖 Leave a review — tell us what you think about a PPE model.\n" +
		"🔎 FAQ — answers to frequent questions.\n\n" +
		"Use /cancel to abandon the current action and return to the main menu."

	msgAuthRequired    = "You are not authorized yet. Press the button below to share your contact."
	msgAuthNoContact   = "I need your contact to authorize you. Please use the share button below."
	msgAuthNotFound    = "Your phone number is not registered in the system. Contact your supervisor and try again."
	msgAuthWelcome     = "You are authorized. Welcome!"
	msgSomethingWrong  = "Something went wrong. Please try again from the main menu."
	msgActionCancelled = "Action cancelled."

	msgNoPickPoints      = "There are no pickpoints available for rating right now."
	msgChoosePickPoint   = "Choose a pickpoint to rate:"
	msgCommentPromptHigh = "Leave a comment on your rating (required):"
	msgCommentPromptLow  = "What went wrong? Please describe the problem (required):"
	msgRatingSaved       = "Rating saved. Thank you!"

	msgNoTypes        = "The PPE catalog is empty right now."
	msgNoModels       = "No models are available for this type."
	msgChooseType     = "Choose a PPE type:"
	msgModelNotFound  = "This model is no longer available."
	msgReviewSaved    = "Review saved. Thank you!"
	msgInfoNavigation = "Use the buttons below to go back or return to the main menu."

	msgNoQuestions      = "There are no FAQ entries yet."
	msgChooseQuestion   = "Choose a question:"
	msgQuestionNotFound = "This question is no longer available. Pick another one."

	msgNoticePrompt    = "Enter the notification text to broadcast to all users:"
	msgNoticeSent      = "Notification accepted for delivery."
	msgNoticeCancelled = "Notification cancelled."
)

func msgPickPointChosen(name string) string {
	return fmt.Sprintf("You chose: <b>%s</b>", name)
}

func msgScorePrompt(name string) string {
	return fmt.Sprintf("Rate the pickpoint <b>%s</b> from 1 to 5:", name)
}

func msgScoreNoted(score int) string {
	return fmt.Sprintf("Your score: <b>%d</b>", score)
}

// commentPrompt varies by score: low scores ask what went wrong.
func commentPrompt(score int) string {
	if score < 4 {
		return msgCommentPromptLow
	}
	return msgCommentPromptHigh
}

func msgRatingConfirm(name string, score int, comment string) string {
	return fmt.Sprintf("Save this rating?\n\nPickpoint: <b>%s</b>\nScore: <b>%d</b>\nComment: %s", name, score, comment)
}

func msgChooseModel(typeName string) string {
	return fmt.Sprintf("Models of type <b>%s</b>:", typeName)
}

func msgReviewPrompt(modelName string) string {
	return fmt.Sprintf("Write your review of <b>%s</b>:", modelName)
}

func msgReviewConfirm(modelName, text string) string {
	return fmt.Sprintf("Save this review?\n\nModel: <b>%s</b>\nReview: %s", modelName, text)
}

func msgFAQAnswer(question, answer string) string {
	return fmt.Sprintf("<b>%s</b>\n\n%s", question, answer)
}

func msgNoticeConfirm(text string) string {
	return fmt.Sprintf("Send this notification to all users?\n\n%s", text)
}
