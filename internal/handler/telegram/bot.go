package telegram

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"

	"cf-dns-manager/internal/domain"
	"cf-dns-manager/internal/usecase"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot implements handler.BotHandler for Telegram with a command-based UI
type Bot struct {
	dnsUsecase usecase.DNSUsecase
	bot        *tgbotapi.BotAPI
	token      string
	allowedIDs map[int64]bool
}

// NewBot creates a new Telegram bot handler
func NewBot(dnsUsecase usecase.DNSUsecase, token string, allowedUsers []int64) *Bot {
	allowedIDs := make(map[int64]bool)
	for _, id := range allowedUsers {
		allowedIDs[id] = true
	}

	return &Bot{
		dnsUsecase: dnsUsecase,
		token:      token,
		allowedIDs: allowedIDs,
	}
}

// Start starts the bot
func (b *Bot) Start() error {
	bot, err := tgbotapi.NewBotAPI(b.token)
	if err != nil {
		return fmt.Errorf("failed to create bot: %w", err)
	}

	b.bot = bot
	log.Printf("Authorized on account %s", bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := bot.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil {
			continue
		}

		if !b.isAuthorized(update.Message.From.ID) {
			b.sendMessage(update.Message.Chat.ID, "⛔ You are not authorized to use this bot.")
			continue
		}

		go func(msg *tgbotapi.Message) {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("[Panic] handleMessage: %v", r)
				}
			}()
			b.handleMessage(msg)
		}(update.Message)
	}

	return nil
}

// Stop stops the bot
func (b *Bot) Stop() error {
	if b.bot != nil {
		b.bot.StopReceivingUpdates()
	}
	return nil
}

// isAuthorized checks if a user is authorized
func (b *Bot) isAuthorized(userID int64) bool {
	if len(b.allowedIDs) == 0 {
		return true
	}
	return b.allowedIDs[userID]
}

// sendMessage sends a message to a chat
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	if _, err := b.bot.Send(msg); err != nil {
		log.Printf("Failed to send message: %v", err)
	}
}

// handleMessage dispatches one incoming command
func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	ctx := context.Background()
	args := strings.Fields(msg.Text)
	if len(args) == 0 {
		return
	}

	switch args[0] {
	case "/start", "/help":
		b.sendMessage(msg.Chat.ID, helpText)
	case "/zones":
		b.handleZones(ctx, msg.Chat.ID)
	case "/records":
		b.handleRecords(ctx, msg.Chat.ID, args[1:])
	case "/insert":
		b.handleMutate(ctx, msg.Chat.ID, args[1:], "insert", b.dnsUsecase.InsertRecord)
	case "/update":
		b.handleMutate(ctx, msg.Chat.ID, args[1:], "update", b.dnsUsecase.UpdateRecord)
	case "/merge":
		b.handleMutate(ctx, msg.Chat.ID, args[1:], "merge", b.dnsUsecase.MergeRecord)
	case "/delete":
		b.handleDelete(ctx, msg.Chat.ID, args[1:])
	default:
		b.sendMessage(msg.Chat.ID, "Unknown command. Use /help to see available commands.")
	}
}

const helpText = `*Cloudflare DNS manager*

/zones - list zones
/records <zone> - list records in a zone
/insert <zone> <type> <name> <content> [ttl] [priority] - create a record
/update <zone> <type> <name> <content> [ttl] [priority] - update a record
/merge <zone> <type> <name> <content> [ttl] [priority] - create or update
/delete <zone> <type> <name> - delete a record

TTL 1 means automatic. Short names are qualified with the zone name.`

// handleZones lists all zones
func (b *Bot) handleZones(ctx context.Context, chatID int64) {
	zones, err := b.dnsUsecase.ListZones(ctx)
	if err != nil {
		b.sendMessage(chatID, "❌ Failed to list zones: "+err.Error())
		return
	}

	if len(zones) == 0 {
		b.sendMessage(chatID, "No zones found.")
		return
	}

	names := make([]string, 0, len(zones))
	for name := range zones {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString("*Zones:*\n")
	for _, name := range names {
		zone := zones[name]
		fmt.Fprintf(&sb, "• `%s` (%s)\n", zone.Name, zone.Status)
	}
	b.sendMessage(chatID, sb.String())
}

// handleRecords lists the records of one zone
func (b *Bot) handleRecords(ctx context.Context, chatID int64, args []string) {
	if len(args) != 1 {
		b.sendMessage(chatID, "Usage: /records <zone>")
		return
	}

	view, err := b.dnsUsecase.ListRecords(ctx, args[0])
	if err != nil {
		b.sendMessage(chatID, "❌ "+err.Error())
		return
	}

	b.sendMessage(chatID, formatView(args[0], view))
}

// handleMutate parses record arguments and runs one of the mutating
// operations (insert, update, merge).
func (b *Bot) handleMutate(ctx context.Context, chatID int64, args []string, verb string, op func(context.Context, string, domain.Record) (usecase.RecordView, error)) {
	if len(args) < 4 || len(args) > 6 {
		b.sendMessage(chatID, fmt.Sprintf("Usage: /%s <zone> <type> <name> <content> [ttl] [priority]", verb))
		return
	}

	zoneName := args[0]
	record := domain.Record{
		Type:    args[1],
		Name:    ensureFullRecordName(args[2], zoneName),
		Content: args[3],
	}

	if len(args) >= 5 {
		ttl, err := strconv.Atoi(args[4])
		if err != nil {
			b.sendMessage(chatID, "TTL must be a number.")
			return
		}
		record.TTL = ttl
	}

	if len(args) == 6 {
		priority, err := strconv.Atoi(args[5])
		if err != nil {
			b.sendMessage(chatID, "Priority must be a number.")
			return
		}
		record.Priority = &priority
	}

	view, err := op(ctx, zoneName, record)
	if err != nil {
		b.sendMessage(chatID, "❌ Failed to "+verb+" record: "+describeError(err))
		return
	}

	b.sendMessage(chatID, "✅ Done.\n"+formatView(zoneName, view))
}

// handleDelete deletes a record by zone, type and name
func (b *Bot) handleDelete(ctx context.Context, chatID int64, args []string) {
	if len(args) != 3 {
		b.sendMessage(chatID, "Usage: /delete <zone> <type> <name>")
		return
	}

	zoneName := args[0]
	view, err := b.dnsUsecase.DeleteRecord(ctx, zoneName, ensureFullRecordName(args[2], zoneName), args[1])
	if err != nil {
		b.sendMessage(chatID, "❌ Failed to delete record: "+describeError(err))
		return
	}

	b.sendMessage(chatID, "✅ Done.\n"+formatView(zoneName, view))
}

// formatView renders a record view as a Markdown message
func formatView(zoneName string, view usecase.RecordView) string {
	if len(view) == 0 {
		return fmt.Sprintf("No records in `%s`.", zoneName)
	}

	keys := make([]domain.RecordKey, 0, len(view))
	for key := range view {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Name != keys[j].Name {
			return keys[i].Name < keys[j].Name
		}
		return keys[i].Type < keys[j].Type
	})

	var sb strings.Builder
	fmt.Fprintf(&sb, "*Records in %s:*\n", zoneName)
	for _, key := range keys {
		record := view[key]
		ttl := strconv.Itoa(record.TTL)
		if record.TTL == domain.TTLAutomatic {
			ttl = "auto"
		}
		fmt.Fprintf(&sb, "• `%s` %s → `%s` (ttl %s", record.Name, record.Type, record.Content, ttl)
		if record.Priority != nil {
			fmt.Fprintf(&sb, ", prio %d", *record.Priority)
		}
		if record.Proxied {
			sb.WriteString(", proxied")
		}
		sb.WriteString(")\n")
	}
	return sb.String()
}

// describeError keeps validator violations readable in chat
func describeError(err error) string {
	var invalid *domain.InvalidRecordError
	if errors.As(err, &invalid) {
		return "invalid record:\n• " + strings.Join(invalid.Violations, "\n• ")
	}
	return err.Error()
}

// ensureFullRecordName ensures the record name includes the zone name
func ensureFullRecordName(recordName, zoneName string) string {
	if strings.HasSuffix(recordName, zoneName) {
		return recordName
	}

	if recordName == "@" || recordName == "" {
		return zoneName
	}

	return recordName + "." + zoneName
}
