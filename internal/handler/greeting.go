package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/weadingguestwebsite1-lab/wedding-guests/internal/models"
)

// ErrNoPhone is returned when a greeting is requested for a guest without a
// phone number.
var ErrNoPhone = errors.New("guest has no phone number")

// MessageSender delivers a text message to a phone number.
type MessageSender interface {
	SendMessage(ctx context.Context, phoneNumber, message string) error
}

type GreetingSender struct {
	sender MessageSender
	store  GuestStore
}

// NewGreetingSender creates a sender delivering category greetings through sender.
func NewGreetingSender(sender MessageSender, store GuestStore) *GreetingSender {
	return &GreetingSender{
		sender: sender,
		store:  store,
	}
}

// Greeting is the text sent to a guest: their category phrase followed by
// their name.
func Greeting(guest models.GuestRow) string {
	return strings.TrimSpace(guest.Phrase + " " + guest.Name)
}

// SendGreeting sends the guest's category phrase to their phone.
func (g *GreetingSender) SendGreeting(ctx context.Context, guestID int64) (*models.GuestRow, error) {
	guest, err := g.store.GetGuest(ctx, guestID)
	if err != nil {
		return nil, err
	}
	if guest.Phone == "" {
		return guest, ErrNoPhone
	}

	if err := g.sender.SendMessage(ctx, guest.Phone, Greeting(*guest)); err != nil {
		return guest, fmt.Errorf("failed to send greeting: %w", err)
	}
	return guest, nil
}
