package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/frontdesk/internal/dialog"
	"github.com/Spok95/frontdesk/internal/domain/billing"
	"github.com/Spok95/frontdesk/internal/domain/stay"
	"github.com/Spok95/frontdesk/internal/domain/users"
)

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	args := strings.Fields(msg.CommandArguments())

	if msg.Command() == "start" {
		b.handleStart(ctx, msg)
		return
	}

	u, err := b.users.GetByTelegramID(ctx, msg.From.ID)
	if err != nil {
		b.log.Error("get user", "tg_id", msg.From.ID, "err", err)
		b.reply(chatID, userMessage(err))
		return
	}
	if !u.Active() {
		b.reply(chatID, "Access is not approved yet. Send /start and wait for a manager.")
		return
	}

	switch msg.Command() {
	case "help":
		b.reply(chatID, helpText)

	case "quote":
		roomID, rg, err := parseQuoteArgs(args)
		if err != nil {
			b.reply(chatID, userMessage(err))
			return
		}
		q, err := b.desk.Quote(ctx, roomID, rg.CheckIn, rg.CheckOut)
		if err != nil {
			b.reply(chatID, userMessage(err))
			return
		}
		b.reply(chatID, renderQuote(q, b.currency))

	case "avail":
		rg, err := parseRangeArgs(args)
		if err != nil {
			b.reply(chatID, userMessage(err))
			return
		}
		list, err := b.desk.Availability(ctx, rg, nil)
		if err != nil {
			b.reply(chatID, userMessage(err))
			return
		}
		b.reply(chatID, renderRooms(rg, list))

	case "extend":
		if len(args) != 2 {
			b.reply(chatID, userMessage(errUsage))
			return
		}
		bookingID, err := parseID(args[0])
		if err != nil {
			b.reply(chatID, userMessage(err))
			return
		}
		newOut, err := stay.ParseDay(args[1])
		if err != nil {
			b.reply(chatID, userMessage(errUsage))
			return
		}
		charge, err := b.desk.ExtendStay(ctx, bookingID, newOut)
		if err != nil {
			b.reply(chatID, userMessage(err))
			return
		}
		b.log.Info("stay changed from chat", "booking_id", bookingID, "by", u.DisplayName())
		b.reply(chatID, renderCharge(charge, b.currency))

	case "invoice":
		if len(args) != 1 {
			b.reply(chatID, userMessage(errUsage))
			return
		}
		bookingID, err := parseID(args[0])
		if err != nil {
			b.reply(chatID, userMessage(err))
			return
		}
		d, err := b.desk.GenerateInvoice(ctx, bookingID)
		if err != nil {
			b.reply(chatID, userMessage(err))
			return
		}
		b.storeAndShow(ctx, chatID, d)

	case "add", "discount", "remove", "status":
		b.editDraft(ctx, chatID, msg.Command(), args)

	case "submit":
		b.submitDraft(ctx, chatID)

	case "export":
		b.exportDraft(ctx, chatID)

	case "rates":
		if !u.IsManager() {
			b.reply(chatID, "Only managers can change rates.")
			return
		}
		data, err := b.desk.RateSheet(ctx)
		if err != nil {
			b.reply(chatID, userMessage(err))
			return
		}
		if err := b.states.Set(ctx, chatID, dialog.StateAwaitRateSheet, dialog.Payload{}); err != nil {
			b.log.Error("set state", "chat_id", chatID, "err", err)
		}
		doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: "rates.xlsx", Bytes: data})
		doc.Caption = "Edit the rates and send the file back. Empty cells keep the current value."
		doc.ReplyMarkup = navKeyboard(true)
		b.send(doc)

	default:
		b.reply(chatID, "Unknown command. See /help.")
	}
}

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	u, err := b.users.UpsertFromTelegram(ctx, users.Telegram{
		ID:        msg.From.ID,
		Username:  msg.From.UserName,
		FirstName: msg.From.FirstName,
		LastName:  msg.From.LastName,
	})
	if err != nil {
		b.log.Error("upsert user", "tg_id", msg.From.ID, "err", err)
		b.reply(chatID, userMessage(err))
		return
	}

	if !u.Active() && chatID == b.adminChat {
		if u, err = b.users.Approve(ctx, msg.From.ID, users.RoleManager); err != nil || u == nil {
			b.log.Error("approve admin", "tg_id", msg.From.ID, "err", err)
			b.reply(chatID, "Could not register you. Try again.")
			return
		}
	}

	if u.Active() {
		m := tgbotapi.NewMessage(chatID, fmt.Sprintf("Hello, %s.\n\n%s", u.DisplayName(), helpText))
		m.ReplyMarkup = deskReplyKeyboard()
		b.send(m)
		return
	}

	if err := b.states.Set(ctx, chatID, dialog.StateAwaitApproval, dialog.Payload{}); err != nil {
		b.log.Error("set state", "chat_id", chatID, "err", err)
	}
	b.reply(chatID, "Your request was sent to a manager.")
	if b.adminChat != 0 {
		m := tgbotapi.NewMessage(b.adminChat, fmt.Sprintf("New staff request: %s (id %d)", u.DisplayName(), u.TelegramID))
		m.ReplyMarkup = approveKeyboard(u.TelegramID)
		b.send(m)
	}
}

func (b *Bot) storeAndShow(ctx context.Context, chatID int64, d billing.Draft) {
	if err := b.saveDraft(ctx, chatID, d); err != nil {
		b.log.Error("save draft", "chat_id", chatID, "err", err)
		b.reply(chatID, userMessage(err))
		return
	}
	text := renderInvoice(d, b.currency)
	if b.pay != nil && d.Status == billing.StatusPending {
		text += "\nPay: " + b.pay.PaymentURL(billing.Invoice{ID: d.InvoiceID, Total: d.Totals().Total})
	}
	m := tgbotapi.NewMessage(chatID, text)
	m.ReplyMarkup = invoiceKeyboard()
	b.send(m)
}

// editDraft applies one local edit to the open draft. Nothing reaches the
// backend until /submit.
func (b *Bot) editDraft(ctx context.Context, chatID int64, cmd string, args []string) {
	d, ok := b.loadDraft(ctx, chatID)
	if !ok {
		b.reply(chatID, "No invoice is open. Use /invoice <booking id>.")
		return
	}

	d, err := applyEdit(b.desk, d, cmd, args)
	if err != nil {
		b.reply(chatID, userMessage(err))
		return
	}
	b.storeAndShow(ctx, chatID, d)
}

// lockedLineError carries the staff-facing reason a line stays on the invoice.
type lockedLineError struct {
	reason string
	err    error
}

func (e *lockedLineError) Error() string { return e.reason + ": " + e.err.Error() }
func (e *lockedLineError) Unwrap() error { return e.err }

// applyEdit runs one edit command against d and returns the new draft.
func applyEdit(desk Desk, d billing.Draft, cmd string, args []string) (billing.Draft, error) {
	switch cmd {
	case "add":
		in, err := parseAddArgs(args)
		if err != nil {
			return d, err
		}
		return d.AddCustom(in)
	case "discount":
		da, err := parseDiscountArgs(args)
		if err != nil {
			return d, err
		}
		if da.clear {
			return d.ClearDiscount()
		}
		return d.SetDiscount(da.amount, da.description)
	case "remove":
		idx, err := parseLineNumber(args)
		if err != nil {
			return d, err
		}
		out, err := desk.RemoveLine(d, idx)
		if errors.Is(err, billing.ErrImmutableLineItem) {
			return d, &lockedLineError{reason: billing.RemovalBlockedReason(d.Lines()[idx]), err: err}
		}
		return out, err
	case "status":
		s, err := parseStatus(args)
		if err != nil {
			return d, err
		}
		return d.SetStatus(s, desk.Now())
	default:
		return d, errUsage
	}
}

func (b *Bot) submitDraft(ctx context.Context, chatID int64) {
	d, ok := b.loadDraft(ctx, chatID)
	if !ok {
		b.reply(chatID, "No invoice is open. Use /invoice <booking id>.")
		return
	}
	saved, err := b.desk.SubmitInvoice(ctx, d)
	if err != nil {
		// the draft stays in the chat state for a retry
		b.reply(chatID, userMessage(err))
		return
	}
	if err := b.states.Reset(ctx, chatID); err != nil {
		b.log.Error("reset state", "chat_id", chatID, "err", err)
	}
	b.reply(chatID, "Saved.\n\n"+renderInvoice(saved, b.currency))
}

func (b *Bot) exportDraft(ctx context.Context, chatID int64) {
	d, ok := b.loadDraft(ctx, chatID)
	if !ok {
		b.reply(chatID, "No invoice is open. Use /invoice <booking id>.")
		return
	}
	data, err := billing.ExportXLSX(d)
	if err != nil {
		b.log.Error("export invoice", "invoice_id", d.InvoiceID, "err", err)
		b.reply(chatID, userMessage(err))
		return
	}
	b.send(tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  fmt.Sprintf("invoice_%d.xlsx", d.InvoiceID),
		Bytes: data,
	}))
}
