package bot

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/telebot.v4"

	"github.com/marvko/vendtrack/internal/models"
	"github.com/marvko/vendtrack/internal/normalize"
)

// Notify broadcasts a human-readable summary of the changes to every
// subscribed chat. The snapshot is the state the changes lead to; it is used
// to resolve display names for updated products.
func (b *Bot) Notify(ctx context.Context, changes *models.Changes, snapshot *models.Snapshot) error {
	if changes.Empty() {
		return nil
	}

	chatIDs, err := b.repo.GetSubscribedChats(ctx)
	if err != nil {
		return fmt.Errorf("failed to get subscribed chats: %w", err)
	}
	if len(chatIDs) == 0 {
		b.log.Debug("No subscribed chats, skipping notification")
		return nil
	}

	message := FormatChanges(changes, snapshot)
	for _, chatID := range chatIDs {
		if _, err = b.bot.Send(telebot.ChatID(chatID), message); err != nil {
			b.log.Error("failed to send notification", "chat_id", chatID, "error", err)
		}
	}

	return nil
}

// FormatChanges renders a changeset as a notification message.
func FormatChanges(changes *models.Changes, snapshot *models.Snapshot) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s\n%s\n", snapshot.LocationName, snapshot.URL())

	for _, product := range changes.Added {
		fmt.Fprintf(&sb, "+ %s (%s, %s in stock)\n",
			product.Name, formatPrice(product.Price), formatQuantity(product.Quantity))
	}
	for _, product := range changes.Removed {
		fmt.Fprintf(&sb, "- %s is no longer listed\n", product.Name)
	}
	for _, id := range updatedIDs(changes) {
		fields := changes.Updated[id]
		fmt.Fprintf(&sb, "* %s: %s\n", updatedName(id, fields, snapshot), describeUpdate(fields))
	}

	return strings.TrimRight(sb.String(), "\n")
}

// updatedIDs returns the updated product IDs in a stable order.
func updatedIDs(changes *models.Changes) []string {
	ids := make([]string, 0, len(changes.Updated))
	for id := range changes.Updated {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// updatedName resolves the display name of an updated product, preferring
// the current snapshot and falling back to the diff or the raw ID.
func updatedName(id string, fields models.FieldDiff, snapshot *models.Snapshot) string {
	if product, ok := snapshot.Product(id); ok {
		return product.Name
	}
	if fields.Name != nil {
		return fields.Name.New
	}
	return id
}

// describeUpdate turns one product's field diff into a readable phrase list.
func describeUpdate(fields models.FieldDiff) string {
	var parts []string

	if fields.Name != nil {
		parts = append(parts, fmt.Sprintf("renamed from %q to %q", fields.Name.Old, fields.Name.New))
	}
	if fields.Price != nil {
		phrase := fmt.Sprintf("price %s -> %s", formatPrice(fields.Price.Old), formatPrice(fields.Price.New))
		switch {
		case fields.Price.Dropped():
			phrase += " (price dropped)"
		case fields.Price.Raised():
			phrase += " (price raised)"
		}
		parts = append(parts, phrase)
	}
	if fields.Quantity != nil {
		phrase := fmt.Sprintf("stock %s -> %s", formatQuantity(fields.Quantity.Old), formatQuantity(fields.Quantity.New))
		switch {
		case fields.Quantity.Depleted():
			phrase += " (sold out)"
		case fields.Quantity.Restocked():
			phrase += " (restocked)"
		case fields.Quantity.LastPiece():
			phrase += " (last piece)"
		}
		parts = append(parts, phrase)
	}
	if fields.Availability != nil && fields.Quantity == nil {
		if fields.Availability.New {
			parts = append(parts, "available again")
		} else {
			parts = append(parts, "no longer available")
		}
	}
	if fields.Info != nil {
		parts = append(parts, "product info changed")
	}
	if fields.PicURL != nil {
		parts = append(parts, "picture changed")
	}

	return strings.Join(parts, ", ")
}

func formatPrice(price decimal.NullDecimal) string {
	if !price.Valid {
		return "?"
	}
	return price.Decimal.StringFixed(normalize.PriceScale)
}

func formatQuantity(quantity models.NullInt) string {
	if !quantity.Valid {
		return "?"
	}
	return strconv.FormatInt(quantity.Value, 10)
}
