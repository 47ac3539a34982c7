package webhook

// Text commands the bot understands. Matching is case-insensitive after
// trimming; anything else gets the help menu.
const (
	CommandStart   = "start"
	CommandStartJa = "開始"
	CommandReset   = "reset"
	CommandFront   = "front"
	CommandSide    = "side"
	CommandHelp    = "help"
)

// CallbackResponse is what the platform expects back from the webhook
// endpoint once the batch has been accepted.
type CallbackResponse struct {
	Message string `json:"message"`
}
