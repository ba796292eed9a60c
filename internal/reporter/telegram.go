package reporter

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"go-jobcoach/internal/models"
	"go-jobcoach/internal/pipeline"
)

type TelegramReporter struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramReporter(token string, chatID int64) (*TelegramReporter, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}

	//turn this on in case of debug
	//bot.Debug = true

	return &TelegramReporter{
		bot:    bot,
		chatID: chatID,
	}, nil
}

func (t *TelegramReporter) SendMessage(text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = "HTML" //use HTML for bold/italic
	_, err := t.bot.Send(msg)
	return err
}

// SendRunSummary reports one generation run: a line per module plus the top
// fix from the score snapshot.
func (t *TelegramReporter) SendRunSummary(app *models.Application, res *pipeline.RunResult) error {
	var b strings.Builder
	fmt.Fprintf(&b, "📋 <b>%s</b> generated\n", app.Title)

	for _, key := range models.CanonicalModuleOrder() {
		st := res.Statuses.Get(key)
		switch st.State {
		case models.StateReady:
			fmt.Fprintf(&b, "✅ %s\n", key)
		case models.StateError:
			fmt.Fprintf(&b, "❌ %s: %s\n", key, st.Error)
		default:
			fmt.Fprintf(&b, "⏭ %s (skipped)\n", key)
		}
	}

	fmt.Fprintf(&b, "\n🎯 Match %d · ATS %d · Scan %d · Evidence %d\n",
		res.Scores.Match, res.Scores.ATSReadiness, res.Scores.RecruiterScan, res.Scores.EvidenceStrength)
	fmt.Fprintf(&b, "💡 %s", res.Scores.TopFix)

	return t.SendMessage(b.String())
}

func (t *TelegramReporter) SendError(errReq error) error {
	text := fmt.Sprintf("⚠️ <b>JobCoach Error</b>:\n%v", errReq)
	return t.SendMessage(text)
}
