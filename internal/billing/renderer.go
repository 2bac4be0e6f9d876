// Package billing renders the printable bill and the WhatsApp message for
// an order. Rendering is a pure function of the order and the shop config
// snapshot: identical inputs always produce byte-identical output, which is
// what makes bill reprints stable and golden-file testing possible.
package billing

import (
	"fmt"
	"html"
	"net/url"
	"strconv"
	"strings"
	"time"

	"kitchen-api/internal/domain"
)

// DateLayout is the long-form date+time used on bills and messages
const DateLayout = "2 January 2006, 3:04 pm"

// Bill holds the presentation artifacts derived from one order
type Bill struct {
	HTML        string `json:"-"`
	Message     string `json:"message"`
	WhatsAppURL string `json:"whatsappUrl"`
	Phone       string `json:"phone"`
}

// Render composes the bill document and WhatsApp message from an order and
// the shop config. Existence checks happen upstream; the renderer assumes a
// valid order.
func Render(order *domain.Order, cfg *domain.ShopConfig) Bill {
	date := formatDate(order.CreatedAt, cfg.Timezone)
	symbol := CurrencySymbol(cfg.Currency)

	message := renderMessage(order, cfg, date, symbol)
	phone := NormalizePhone(order.Customer.Phone)

	return Bill{
		HTML:        renderHTML(order, cfg, date, symbol),
		Message:     message,
		WhatsAppURL: "https://wa.me/" + phone + "?text=" + escapeMessageText(message),
		Phone:       phone,
	}
}

// textEscapeFixup converts query escaping to the form storefront clients
// produce: spaces as %20 and the bold/punctuation marks left raw.
var textEscapeFixup = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// escapeMessageText percent-encodes the message for the wa.me text
// parameter. Every % in the QueryEscape output starts a hex triple, so the
// fixup replacements cannot match inside an unrelated escape sequence.
func escapeMessageText(message string) string {
	return textEscapeFixup.Replace(url.QueryEscape(message))
}

// NormalizePhone strips every non-digit character from a phone number
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CurrencySymbol maps an ISO currency code to its display symbol. Unknown
// codes fall back to the code itself followed by a space.
func CurrencySymbol(code string) string {
	switch code {
	case "INR", "":
		return "₹"
	case "USD":
		return "$"
	case "EUR":
		return "€"
	case "GBP":
		return "£"
	default:
		return code + " "
	}
}

func formatDate(t time.Time, timezone string) string {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DateLayout)
}

// formatAmount renders a money value without trailing zeroes (500, 249.5)
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func statusLabel(status domain.OrderStatus) string {
	if status == "" {
		status = domain.StatusPending
	}
	return strings.ToUpper(string(status))
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func itemLabel(item domain.OrderItem) string {
	if item.Unit != "" {
		return fmt.Sprintf("%s (%s)", item.Name, item.Unit)
	}
	return item.Name
}

func itemAmounts(item domain.OrderItem, symbol string) string {
	return fmt.Sprintf("%d × %s%s = %s%s",
		item.Qty, symbol, formatAmount(item.Price), symbol, formatAmount(item.LineTotal))
}

func renderHTML(order *domain.Order, cfg *domain.ShopConfig, date, symbol string) string {
	esc := html.EscapeString
	var b strings.Builder

	b.WriteString(`<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>Bill - ` + esc(order.OrderRef) + `</title>
  <style>
    * { margin: 0; padding: 0; box-sizing: border-box; }
    body { font-family: 'Courier New', monospace; padding: 20px; max-width: 600px; margin: 0 auto; }
    .header { text-align: center; border-bottom: 2px solid #000; padding-bottom: 15px; margin-bottom: 15px; }
    .header h1 { font-size: 24px; font-weight: bold; margin-bottom: 5px; }
    .header p { font-size: 12px; margin: 2px 0; }
    .section { margin: 15px 0; }
    .section-title { font-weight: bold; border-bottom: 1px solid #000; padding-bottom: 5px; margin-bottom: 10px; }
    .row { display: flex; justify-content: space-between; margin: 5px 0; }
    .items { margin: 10px 0; }
    .item { display: flex; justify-content: space-between; margin: 5px 0; padding: 5px 0; border-bottom: 1px dotted #ccc; }
    .total { font-weight: bold; font-size: 18px; text-align: right; margin-top: 15px; padding-top: 10px; border-top: 2px solid #000; }
    .footer { text-align: center; margin-top: 20px; padding-top: 15px; border-top: 1px solid #000; font-size: 12px; }
    @media print { body { padding: 10px; } }
  </style>
</head>
<body>
`)

	// Header: shop identity
	b.WriteString(`  <div class="header">
    <h1>` + esc(cfg.Name) + `</h1>
`)
	if cfg.Address != "" {
		b.WriteString(`    <p>` + esc(cfg.Address) + `</p>
`)
	}
	if cfg.Phone != "" {
		b.WriteString(`    <p>Phone: ` + esc(cfg.Phone) + `</p>
`)
	}
	b.WriteString(`  </div>
`)

	// Order metadata
	b.WriteString(`  <div class="section">
    <div class="row"><strong>Order Ref:</strong> <span>` + esc(order.OrderRef) + `</span></div>
    <div class="row"><strong>Date:</strong> <span>` + esc(date) + `</span></div>
    <div class="row"><strong>Status:</strong> <span>` + esc(statusLabel(order.Status)) + `</span></div>
  </div>
`)

	// Customer block; address and preferred time only when present
	b.WriteString(`  <div class="section">
    <div class="section-title">CUSTOMER DETAILS</div>
    <div class="row"><span>Name:</span> <span>` + esc(orDefault(order.Customer.Name, "N/A")) + `</span></div>
    <div class="row"><span>Phone:</span> <span>` + esc(orDefault(order.Customer.Phone, "N/A")) + `</span></div>
    <div class="row"><span>Type:</span> <span>` + esc(orDefault(order.Customer.Type, "N/A")) + `</span></div>
`)
	if order.Customer.Address != "" {
		b.WriteString(`    <div class="row"><span>Address:</span> <span>` + esc(order.Customer.Address) + `</span></div>
`)
	}
	if order.Customer.PreferredTime != "" {
		b.WriteString(`    <div class="row"><span>Preferred Time:</span> <span>` + esc(order.Customer.PreferredTime) + `</span></div>
`)
	}
	b.WriteString(`    <div class="row"><span>Payment:</span> <span>` + esc(orDefault(order.Customer.Payment, "N/A")) + `</span></div>
  </div>
`)

	// Itemized list
	b.WriteString(`  <div class="section">
    <div class="section-title">ITEMS</div>
    <div class="items">
`)
	for i, item := range order.Items {
		b.WriteString(`      <div class="item">
        <div><strong>` + strconv.Itoa(i+1) + `. ` + esc(itemLabel(item)) + `</strong></div>
        <div>` + esc(itemAmounts(item, symbol)) + `</div>
      </div>
`)
	}
	b.WriteString(`    </div>
  </div>
`)

	b.WriteString(`  <div class="total">
    SUBTOTAL: ` + symbol + formatAmount(order.Subtotal) + `
  </div>
`)

	if order.Customer.Notes != "" {
		b.WriteString(`  <div class="section">
    <div class="section-title">NOTES</div>
    <p>` + esc(order.Customer.Notes) + `</p>
  </div>
`)
	}

	b.WriteString(`  <div class="footer">
    <p>Thank you for your order!</p>
    <p>` + esc(cfg.Name) + `</p>
  </div>
</body>
</html>
`)

	return b.String()
}

func renderMessage(order *domain.Order, cfg *domain.ShopConfig, date, symbol string) string {
	var b strings.Builder

	b.WriteString("*" + cfg.Name + " - Order Bill*\n\n")
	b.WriteString("Order Ref: " + order.OrderRef + "\n")
	b.WriteString("Date: " + date + "\n")
	b.WriteString("Status: " + statusLabel(order.Status) + "\n\n")

	b.WriteString("*Customer Details:*\n")
	b.WriteString("Name: " + orDefault(order.Customer.Name, "N/A") + "\n")
	b.WriteString("Phone: " + orDefault(order.Customer.Phone, "N/A") + "\n")
	b.WriteString("Type: " + orDefault(order.Customer.Type, "N/A") + "\n")
	if order.Customer.Address != "" {
		b.WriteString("Address: " + order.Customer.Address + "\n")
	}
	if order.Customer.PreferredTime != "" {
		b.WriteString("Preferred Time: " + order.Customer.PreferredTime + "\n")
	}
	b.WriteString("Payment: " + orDefault(order.Customer.Payment, "N/A") + "\n\n")

	b.WriteString("*Items:*\n")
	for i, item := range order.Items {
		b.WriteString(strconv.Itoa(i+1) + ". " + itemLabel(item) + "\n")
		b.WriteString("   " + itemAmounts(item, symbol) + "\n")
	}

	b.WriteString("\n*Subtotal: " + symbol + formatAmount(order.Subtotal) + "*\n\n")
	if order.Customer.Notes != "" {
		b.WriteString("Notes: " + order.Customer.Notes + "\n\n")
	}
	b.WriteString("Thank you for your order!")

	return b.String()
}
