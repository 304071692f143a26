package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/frontdesk/internal/dialog"
	"github.com/Spok95/frontdesk/internal/domain/users"
)

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		_ = b.answerCallback(cb, "", false)
		return
	}
	chatID := cb.Message.Chat.ID
	msgID := cb.Message.MessageID
	data := cb.Data

	u, err := b.users.GetByTelegramID(ctx, cb.From.ID)
	if err != nil {
		b.log.Error("get user", "tg_id", cb.From.ID, "err", err)
		_ = b.answerCallback(cb, "Try again", true)
		return
	}
	if !u.Active() {
		_ = b.answerCallback(cb, "No access", true)
		return
	}

	switch {
	case data == "nav:cancel":
		if err := b.states.Reset(ctx, chatID); err != nil {
			b.log.Error("reset state", "chat_id", chatID, "err", err)
		}
		b.editTextAndClear(chatID, msgID, "Cancelled.")
		_ = b.answerCallback(cb, "", false)

	case data == "inv:submit":
		_ = b.answerCallback(cb, "Saving…", false)
		b.submitDraft(ctx, chatID)

	case data == "inv:export":
		_ = b.answerCallback(cb, "", false)
		b.exportDraft(ctx, chatID)

	case data == "inv:discard":
		if err := b.states.Reset(ctx, chatID); err != nil {
			b.log.Error("reset state", "chat_id", chatID, "err", err)
		}
		b.editTextAndClear(chatID, msgID, "Edits discarded.")
		_ = b.answerCallback(cb, "", false)

	case strings.HasPrefix(data, "staff:approve:"):
		if !u.IsManager() {
			_ = b.answerCallback(cb, "Managers only", true)
			return
		}
		tgID, role, err := parseApproveData(data)
		if err != nil || (role != string(users.RoleFrontDesk) && role != string(users.RoleManager)) {
			_ = b.answerCallback(cb, "Bad request", true)
			return
		}
		staff, err := b.users.Approve(ctx, tgID, users.Role(role))
		if err != nil || staff == nil {
			b.log.Error("approve staff", "tg_id", tgID, "err", err)
			_ = b.answerCallback(cb, "Could not approve", true)
			return
		}
		b.log.Info("staff approved", "tg_id", tgID, "role", role, "by", u.DisplayName())
		b.editTextAndClear(chatID, msgID, fmt.Sprintf("%s approved as %s.", staff.DisplayName(), role))
		if err := b.states.Reset(ctx, tgID); err != nil {
			b.log.Error("reset state", "chat_id", tgID, "err", err)
		}
		b.reply(tgID, "Access approved. See /help.")
		_ = b.answerCallback(cb, "Done", false)

	default:
		_ = b.answerCallback(cb, "", false)
	}
}

// handleStateMessage handles plain messages; only rate sheet uploads are
// expected outside of commands.
func (b *Bot) handleStateMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	st, err := b.states.Get(ctx, chatID)
	if err != nil {
		b.log.Error("load chat state", "chat_id", chatID, "err", err)
		return
	}

	switch st.State {
	case dialog.StateAwaitRateSheet:
		u, err := b.users.GetByTelegramID(ctx, msg.From.ID)
		if err != nil || !u.IsManager() {
			b.reply(chatID, "Only managers can change rates.")
			return
		}
		if msg.Document == nil {
			b.reply(chatID, "Send the rate sheet as an .xlsx file.")
			return
		}
		data, err := b.downloadTelegramFile(msg.Document.FileID)
		if err != nil {
			b.log.Error("download rate sheet", "chat_id", chatID, "err", err)
			b.reply(chatID, "Could not download the file. Try again.")
			return
		}
		n, err := b.desk.ImportRateSheet(ctx, data)
		if err != nil {
			b.reply(chatID, "Rate sheet not applied: "+userMessage(err))
			return
		}
		if err := b.states.Reset(ctx, chatID); err != nil {
			b.log.Error("reset state", "chat_id", chatID, "err", err)
		}
		b.log.Info("rate sheet imported", "rooms", n, "by", u.DisplayName())
		b.reply(chatID, fmt.Sprintf("Rates updated for %d room(s).", n))

	case dialog.StateAwaitApproval:
		b.reply(chatID, "Your request is waiting for a manager.")

	default:
		b.reply(chatID, "Use a command. See /help.")
	}
}
