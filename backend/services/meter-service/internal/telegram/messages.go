package telegram

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"solarmon/backend/services/meter-service/internal/energy"
)

// Reply texts.
const (
	UsageMessage = "❌ Invalid format.\n\n" +
		"Format 1 (today): solar_inverter solar_meter smart_export smart_import\n" +
		"Example: 18.5 29650.2 6.2 4060.5\n\n" +
		"Format 2 (with date): YYYY-MM-DD solar_inverter solar_meter smart_export smart_import\n" +
		"Example: 2024-01-15 18.5 29650.2 6.2 4060.5"
	InvalidDateFormatMessage = "❌ Invalid date format. Use YYYY-MM-DD\n\nExample: 2024-01-15 18.5 29650.2 6.2 4060.5"
	InvalidDateMessage       = "❌ Invalid date. Please use a valid date in YYYY-MM-DD format."
	InvalidNumberMessage     = "❌ Invalid numbers. Please send valid numeric values."
	SaveFailedMessage        = "❌ Error saving data. Please try again later."
)

// ReplyForParseError maps a ParseReading error to the message sent back.
func ReplyForParseError(err error) string {
	switch {
	case errors.Is(err, ErrInvalidDateFormat):
		return InvalidDateFormatMessage
	case errors.Is(err, ErrInvalidDate):
		return InvalidDateMessage
	case errors.Is(err, ErrInvalidNumber):
		return InvalidNumberMessage
	default:
		return UsageMessage
	}
}

// Confirmation is the data shown after a reading is saved.
type Confirmation struct {
	Date        string
	IsToday     bool
	Delta       energy.Delta
	Derived     energy.Derived
	Overwritten bool
}

// FormatConfirmation renders the saved-reading reply with 2 decimal places.
func FormatConfirmation(c Confirmation) string {
	heading := "Today's"
	if !c.IsToday {
		heading = "Date: " + c.Date
	}

	var b strings.Builder
	b.WriteString("Saved ✅\n\n")
	fmt.Fprintf(&b, "📅 %s Readings:\n", heading)
	fmt.Fprintf(&b, "Solar Generated: %s kWh\n", kwh(c.Delta.SolarGenerated))
	fmt.Fprintf(&b, "Exported: %s kWh\n", kwh(c.Delta.Exported))
	fmt.Fprintf(&b, "Imported: %s kWh\n\n", kwh(c.Delta.Imported))
	b.WriteString("💡 Calculations:\n")
	fmt.Fprintf(&b, "Net Usage: %s kWh\n", kwh(c.Derived.NetUsage))
	fmt.Fprintf(&b, "Total Consumption: %s kWh", kwh(c.Derived.TotalConsumption))
	if c.Overwritten {
		b.WriteString("\n\n⚠️ Note: Data overwritten for this date")
	}
	return b.String()
}

func kwh(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// FormatChats renders chat IDs found in updates, one per line.
func FormatChats(updates []Update) string {
	seen := make(map[int64]bool)
	var b strings.Builder
	for _, u := range updates {
		if u.Message == nil || seen[u.Message.Chat.ID] {
			continue
		}
		chat := u.Message.Chat
		seen[chat.ID] = true
		username := chat.Username
		if username == "" {
			username = "no-username"
		}
		name := strings.TrimSpace(chat.FirstName + " " + chat.LastName)
		fmt.Fprintf(&b, "ID = %d (%s @%s)\n", chat.ID, name, username)
	}
	return b.String()
}
