package notifications

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"wishmanager-backend/internal/common/logger"
	usermodels "wishmanager-backend/internal/features/user/models"
	wishmodels "wishmanager-backend/internal/features/wish/models"
	wishlistmodels "wishmanager-backend/internal/features/wishlist/models"
)

// Users resolves the recipients of a notification.
type Users interface {
	GetByID(ctx context.Context, id string) (*usermodels.User, error)
}

// Members lists who belongs to a wishlist.
type Members interface {
	ListMemberships(ctx context.Context, wishlistID string) ([]*wishlistmodels.Membership, error)
}

// Service delivers claim and membership events over Telegram. Delivery is
// best effort: every failure is logged and swallowed, so a notification
// can never fail the operation that produced it.
type Service struct {
	bot       *tgbotapi.BotAPI
	users     Users
	members   Members
	webAppURL string
}

func NewService(bot *tgbotapi.BotAPI, users Users, members Members, webAppURL string) *Service {
	return &Service{
		bot:       bot,
		users:     users,
		members:   members,
		webAppURL: webAppURL,
	}
}

// NotifyBooked tells the other members a wish was claimed. The wishlist
// owner is skipped so the surprise is kept, and the booker's name is
// masked when they asked to stay anonymous.
func (s *Service) NotifyBooked(ctx context.Context, wishlist *wishlistmodels.Wishlist, wish *wishmodels.Wish, bookerID string) {
	if s == nil || s.bot == nil || wishlist == nil || wish == nil {
		return
	}

	booker := "Someone"
	if !wish.HideBookerName {
		if user, err := s.users.GetByID(ctx, bookerID); err == nil && user.DisplayName != "" {
			booker = user.DisplayName
		}
	}

	text := fmt.Sprintf("🎁 %s booked “%s” on the wishlist “%s”.", booker, wish.Name, wishlist.Title)
	s.broadcast(ctx, wishlist, text, wishlist.OwnerID, bookerID)
}

// NotifyGifted tells the other members a wish was handed over. The owner
// is skipped for the same reason as in NotifyBooked.
func (s *Service) NotifyGifted(ctx context.Context, wishlist *wishlistmodels.Wishlist, wish *wishmodels.Wish) {
	if s == nil || s.bot == nil || wishlist == nil || wish == nil {
		return
	}

	text := fmt.Sprintf("✅ “%s” from the wishlist “%s” has been gifted.", wish.Name, wishlist.Title)
	s.broadcast(ctx, wishlist, text, wishlist.OwnerID, wish.BookedBy)
}

// NotifyInvited messages the invitee directly.
func (s *Service) NotifyInvited(ctx context.Context, wishlist *wishlistmodels.Wishlist, inviterID, inviteeID string) {
	if s == nil || s.bot == nil || wishlist == nil {
		return
	}

	inviter := "A member"
	if user, err := s.users.GetByID(ctx, inviterID); err == nil && user.DisplayName != "" {
		inviter = user.DisplayName
	}

	text := fmt.Sprintf("📨 %s invited you to the wishlist “%s”.", inviter, wishlist.Title)
	s.sendTo(ctx, inviteeID, text)
}

// broadcast sends text to every member of the wishlist except the listed
// user ids.
func (s *Service) broadcast(ctx context.Context, wishlist *wishlistmodels.Wishlist, text string, skip ...string) {
	memberships, err := s.members.ListMemberships(ctx, wishlist.ID)
	if err != nil {
		logger.Warn().
			Err(err).
			Str("wishlist_id", wishlist.ID).
			Msg("Failed to list members for notification")
		return
	}

	skipped := make(map[string]bool, len(skip))
	for _, id := range skip {
		skipped[id] = true
	}

	for _, m := range memberships {
		if skipped[m.UserID] {
			continue
		}
		s.sendTo(ctx, m.UserID, text)
	}
}

func (s *Service) sendTo(ctx context.Context, userID, text string) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		logger.Warn().Err(err).Str("user_id", userID).Msg("Failed to resolve notification recipient")
		return
	}
	if user.TelegramID == "" {
		// Google-only accounts have no Telegram chat to message.
		return
	}

	chatID, err := strconv.ParseInt(user.TelegramID, 10, 64)
	if err != nil {
		logger.Warn().Err(err).Str("user_id", userID).Msg("Malformed telegram id on user")
		return
	}

	msg := tgbotapi.NewMessage(chatID, text)
	if s.webAppURL != "" {
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonURL("Open WishManager", s.webAppURL),
			),
		)
	}

	if _, err := s.bot.Send(msg); err != nil {
		logger.Warn().Err(err).Int64("chat_id", chatID).Msg("Failed to send telegram notification")
	}
}

// Run consumes bot updates and answers the /start and /help commands.
// Blocks until ctx is cancelled.
func (s *Service) Run(ctx context.Context) {
	if s == nil || s.bot == nil {
		return
	}

	updateCfg := tgbotapi.NewUpdate(0)
	updateCfg.Timeout = 30
	updates := s.bot.GetUpdatesChan(updateCfg)

	for {
		select {
		case <-ctx.Done():
			s.bot.StopReceivingUpdates()
			return
		case update := <-updates:
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}
			s.handleCommand(update.Message)
		}
	}
}

func (s *Service) handleCommand(message *tgbotapi.Message) {
	var text string
	switch message.Command() {
	case "start":
		text = "👋 Welcome to WishManager!\n\nCreate wishlists, share them with friends and book gifts without spoiling the surprise."
	case "help":
		text = "Commands:\n/start — open the app\n/help — this message\n\nAll wishlist management happens in the app."
	default:
		return
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	if s.webAppURL != "" {
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonURL("Open WishManager", s.webAppURL),
			),
		)
	}

	if _, err := s.bot.Send(msg); err != nil {
		logger.Warn().Err(err).Int64("chat_id", message.Chat.ID).Msg("Failed to answer bot command")
	}
}
