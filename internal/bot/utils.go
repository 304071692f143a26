package bot

import (
	"context"
	"fmt"
	"io"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/frontdesk/internal/dialog"
	"github.com/Spok95/frontdesk/internal/domain/billing"
)

const draftKey = "draft"

func (b *Bot) send(msg tgbotapi.Chattable) {
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send failed", "err", err)
	}
}

func (b *Bot) reply(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) answerCallback(cb *tgbotapi.CallbackQuery, text string, alert bool) error {
	resp := tgbotapi.NewCallback(cb.ID, text)
	resp.ShowAlert = alert
	_, err := b.api.Request(resp)
	return err
}

func (b *Bot) editTextAndClear(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(
		chatID, messageID, text,
		tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}},
	)
	b.send(edit)
}

// downloadTelegramFile fetches an uploaded document by FileID.
func (b *Bot) downloadTelegramFile(fileID string) ([]byte, error) {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("get file url: %w", err)
	}

	resp, err := http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("telegram returned status %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return data, nil
}

// loadDraft returns the invoice draft open in this chat.
func (b *Bot) loadDraft(ctx context.Context, chatID int64) (billing.Draft, bool) {
	st, err := b.states.Get(ctx, chatID)
	if err != nil {
		b.log.Error("load chat state", "chat_id", chatID, "err", err)
		return billing.Draft{}, false
	}
	if st.State != dialog.StateInvoiceEdit {
		return billing.Draft{}, false
	}
	var d billing.Draft
	ok, err := dialog.Decode(st.Payload, draftKey, &d)
	if err != nil {
		b.log.Error("decode draft", "chat_id", chatID, "err", err)
		return billing.Draft{}, false
	}
	return d, ok
}

func (b *Bot) saveDraft(ctx context.Context, chatID int64, d billing.Draft) error {
	p := dialog.Payload{}
	if err := dialog.Put(p, draftKey, d); err != nil {
		return err
	}
	return b.states.Set(ctx, chatID, dialog.StateInvoiceEdit, p)
}
