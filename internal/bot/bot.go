package bot

import (
	"context"
	"log/slog"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/frontdesk/internal/dialog"
	"github.com/Spok95/frontdesk/internal/domain/billing"
	"github.com/Spok95/frontdesk/internal/domain/pricing"
	"github.com/Spok95/frontdesk/internal/domain/rooms"
	"github.com/Spok95/frontdesk/internal/domain/stay"
	"github.com/Spok95/frontdesk/internal/domain/users"
	"github.com/Spok95/frontdesk/internal/infra/payments"
)

// Desk is what the chat needs from frontdesk.Service.
type Desk interface {
	Quote(ctx context.Context, roomID int64, checkIn, checkOut time.Time) (pricing.Quote, error)
	Availability(ctx context.Context, rg stay.Range, excluding *int64) ([]rooms.Room, error)
	ExtendStay(ctx context.Context, bookingID int64, newCheckOut time.Time) (pricing.Charge, error)
	GenerateInvoice(ctx context.Context, bookingID int64) (billing.Draft, error)
	RemoveLine(d billing.Draft, index int) (billing.Draft, error)
	SubmitInvoice(ctx context.Context, d billing.Draft) (billing.Draft, error)
	RateSheet(ctx context.Context) ([]byte, error)
	ImportRateSheet(ctx context.Context, data []byte) (int, error)
	// Now is the hotel clock used to stamp paid_at.
	Now() time.Time
}

type Bot struct {
	api       *tgbotapi.BotAPI
	log       *slog.Logger
	users     *users.Repo
	states    *dialog.Repo
	desk      Desk
	pay       *payments.Service
	adminChat int64
	currency  string
}

func New(api *tgbotapi.BotAPI, log *slog.Logger,
	usersRepo *users.Repo, statesRepo *dialog.Repo,
	desk Desk, pay *payments.Service,
	adminChatID int64, currency string) *Bot {

	return &Bot{
		api: api, log: log, users: usersRepo, states: statesRepo,
		desk: desk, pay: pay,
		adminChat: adminChatID, currency: currency,
	}
}

func (b *Bot) Run(ctx context.Context, timeoutSec int) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeoutSec
	updates := b.api.GetUpdatesChan(u)
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case upd := <-updates:
			if upd.Message != nil {
				b.onMessage(ctx, upd)
			} else if upd.CallbackQuery != nil {
				b.onCallback(ctx, upd)
			}
		}
	}
}

func (b *Bot) onMessage(ctx context.Context, upd tgbotapi.Update) {
	msg := upd.Message

	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}
	b.handleStateMessage(ctx, msg)
}

func (b *Bot) onCallback(ctx context.Context, upd tgbotapi.Update) {
	b.handleCallback(ctx, upd.CallbackQuery)
}
