package notify

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier pushes operator alerts to a Telegram chat. A nil Notifier is a
// no-op, so the bot token stays optional.
type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewNotifier(token string, chatID int64) *Notifier {
	if token == "" || chatID == 0 {
		log.Println("TELEGRAM_BOT_TOKEN not set, operator alerts disabled")
		return nil
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		log.Printf("Failed to connect Telegram bot, operator alerts disabled: %v", err)
		return nil
	}

	log.Printf("Telegram alerts enabled (bot @%s)", bot.Self.UserName)
	return &Notifier{bot: bot, chatID: chatID}
}

func (n *Notifier) LinkPaid(linkID, token string, amount string) {
	n.send(fmt.Sprintf("💸 Link %s paid: %s %s", linkID, amount, token))
}

func (n *Notifier) LinkWithdrawn(linkID, token string, amount string) {
	n.send(fmt.Sprintf("✅ Link %s withdrawn: %s %s", linkID, amount, token))
}

// InvariantViolation reports a paid link with no commitment. This should
// never fire; when it does an operator has to look at the ledger by hand.
func (n *Notifier) InvariantViolation(linkID string) {
	n.send(fmt.Sprintf("🚨 CRITICAL: link %s is paid but has no commitment", linkID))
}

func (n *Notifier) send(text string) {
	if n == nil || n.bot == nil {
		return
	}

	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		log.Printf("Failed to send Telegram alert: %v", err)
	}
}
