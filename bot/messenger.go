package bot

import "context"

// Button is an inline keyboard button that triggers Action when pressed.
type Button struct {
	Label  string
	Action string
}

// Keyboard rows of inline buttons.
type Keyboard [][]Button

// Reply is an HTML message with an optional keyboard.
type Reply struct {
	Text     string
	Keyboard Keyboard
}

// Messenger delivers replies to the chat platform.
type Messenger interface {
	Send(ctx context.Context, chatID int64, r Reply) (messageID int, err error)
	Edit(ctx context.Context, chatID int64, messageID int, r Reply) error
	AnswerCallback(ctx context.Context, callbackID, text string) error
}

// Handler consumes inbound events.
type Handler interface {
	Handle(ctx context.Context, ev Event)
}

// Inline button actions.
const (
	ActionCheckSaved    = "check_saved"
	ActionSaveCreds     = "save_creds"
	ActionUpdateCreds   = "update_creds"
	ActionRemoveAccount = "remove_account"
	ActionConfirmRemove = "confirm_remove"
	ActionQuickCheck    = "quick_check"
	ActionBackToMenu    = "back_to_menu"
)

// Event is one inbound user interaction. Exactly one of Start, Action or
// Text is meaningful.
type Event struct {
	UserID int64
	ChatID int64
	// MessageID is the message a button was attached to.
	MessageID  int
	CallbackID string
	Action     string
	Text       string
	Start      bool
}
