package service

import (
	"context"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"studiohub/internal/domain/errors"
	"studiohub/internal/domain/models"
)

type Quotes struct {
	*CRUD[models.Quote, models.QuoteCreate, models.QuoteUpdate]
	craftsmen Store[models.Craftsman]
	messenger Messenger
	log       *zap.Logger
}

// SendResult reports a delivered quote message.
type SendResult struct {
	QuoteID   int64  `json:"quote_id"`
	To        string `json:"to"`
	MessageID string `json:"message_id"`
}

// Send delivers the WhatsApp message of quote id to its craftsman. The
// stored message is sent as is; the recipient is the craftsman's WhatsApp
// number reduced to digits.
func (q *Quotes) Send(ctx context.Context, id int64) (SendResult, error) {
	quote, err := q.Store.Get(ctx, id)
	if err != nil {
		return SendResult{}, err
	}
	if quote.WhatsAppMessage == nil || strings.TrimSpace(*quote.WhatsAppMessage) == "" {
		return SendResult{}, errors.NewValidationError("whatsapp_message", "Quote has no WhatsApp message to send")
	}
	craftsman, err := q.craftsmen.Get(ctx, quote.CraftsmanID)
	if err != nil {
		return SendResult{}, err
	}
	to := ""
	if craftsman.WhatsApp != nil {
		to = digits(*craftsman.WhatsApp)
	}
	if to == "" {
		return SendResult{}, errors.NewValidationError("whatsapp", "Craftsman has no WhatsApp number")
	}
	if q.messenger == nil {
		return SendResult{}, errors.ErrMessagingDisabled
	}

	msgID, err := q.messenger.Send(ctx, to, *quote.WhatsAppMessage)
	if err != nil {
		q.log.Error("failed to send quote", zap.Int64("quote_id", id), zap.Error(err))
		return SendResult{}, err
	}
	q.log.Info("quote sent", zap.Int64("quote_id", id), zap.String("message_id", msgID))
	return SendResult{QuoteID: id, To: to, MessageID: msgID}, nil
}

func digits(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}
