package billing

import (
	"strings"
	"testing"
	"time"

	"kitchen-api/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOrder() *domain.Order {
	userID := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	return &domain.Order{
		ID:       uuid.MustParse("6ba7b811-9dad-11d1-80b4-00c04fd430c8"),
		OrderRef: "AK-1042",
		UserID:   &userID,
		Customer: domain.Customer{
			Name:    "Ravi Kumar",
			Phone:   "+91 98765-43210",
			Type:    "Delivery",
			Address: "12 MG Road, Bengaluru",
			Payment: "UPI",
		},
		Items: []domain.OrderItem{
			{Name: "Paneer Tikka", Unit: "plate", Qty: 2, Price: 500, LineTotal: 1000},
			{Name: "Masala Chai", Qty: 3, Price: 49.5, LineTotal: 148.5},
		},
		Subtotal:  1148.5,
		Status:    domain.StatusConfirmed,
		CreatedAt: time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}

func testConfig() *domain.ShopConfig {
	cfg := domain.DefaultShopConfig()
	return &cfg
}

// Identical inputs must always yield byte-identical output, so reprints of
// a bill never drift.
func TestRender_Deterministic(t *testing.T) {
	order := testOrder()
	cfg := testConfig()

	first := Render(order, cfg)
	second := Render(order, cfg)

	assert.Equal(t, first.HTML, second.HTML)
	assert.Equal(t, first.Message, second.Message)
	assert.Equal(t, first.WhatsAppURL, second.WhatsAppURL)
}

func TestRender_HTMLContent(t *testing.T) {
	bill := Render(testOrder(), testConfig())

	assert.Contains(t, bill.HTML, "AK-1042")
	assert.Contains(t, bill.HTML, "CUSTOMER DETAILS")
	assert.Contains(t, bill.HTML, "Ravi Kumar")
	assert.Contains(t, bill.HTML, "CONFIRMED")
	assert.Contains(t, bill.HTML, "Paneer Tikka (plate)")
	assert.Contains(t, bill.HTML, "2 × ₹500 = ₹1000")
	assert.Contains(t, bill.HTML, "3 × ₹49.5 = ₹148.5")
	assert.Contains(t, bill.HTML, "SUBTOTAL: ₹1148.5")
	assert.Contains(t, bill.HTML, "12 MG Road, Bengaluru")
}

func TestRender_DateInShopTimezone(t *testing.T) {
	// 09:30 UTC is 15:00 in Asia/Kolkata
	bill := Render(testOrder(), testConfig())
	assert.Contains(t, bill.HTML, "14 March 2025, 3:00 pm")
	assert.Contains(t, bill.Message, "14 March 2025, 3:00 pm")
}

func TestRender_OptionalFieldsOmitted(t *testing.T) {
	order := testOrder()
	order.Customer.Address = ""
	order.Customer.PreferredTime = ""
	order.Customer.Notes = ""

	bill := Render(order, testConfig())

	assert.NotContains(t, bill.HTML, "Address:")
	assert.NotContains(t, bill.HTML, "Preferred Time:")
	assert.NotContains(t, bill.HTML, "NOTES")
	assert.NotContains(t, bill.Message, "Notes:")
}

func TestRender_EmptyContactFallsBackToNA(t *testing.T) {
	order := testOrder()
	order.Customer.Name = ""
	order.Customer.Payment = ""

	bill := Render(order, testConfig())

	assert.Contains(t, bill.Message, "Name: N/A")
	assert.Contains(t, bill.Message, "Payment: N/A")
}

func TestRender_EscapesUserHTML(t *testing.T) {
	order := testOrder()
	order.Customer.Name = `<script>alert("x")</script>`

	bill := Render(order, testConfig())

	assert.NotContains(t, bill.HTML, "<script>")
	assert.Contains(t, bill.HTML, "&lt;script&gt;")
}

func TestRender_WhatsAppLink(t *testing.T) {
	bill := Render(testOrder(), testConfig())

	assert.Equal(t, "919876543210", bill.Phone)
	require.True(t, strings.HasPrefix(bill.WhatsAppURL, "https://wa.me/919876543210?text="))
	// the message body is percent-encoded into the link
	assert.NotContains(t, bill.WhatsAppURL, " ")
	assert.NotContains(t, bill.WhatsAppURL, "\n")
	// spaces encode as %20, not +, and the bold markers stay raw
	assert.NotContains(t, bill.WhatsAppURL, "+")
	assert.Contains(t, bill.WhatsAppURL, "%20")
	assert.Contains(t, bill.WhatsAppURL, "*Subtotal")
}

func TestEscapeMessageText(t *testing.T) {
	cases := map[string]string{
		"*Order Bill*":  "*Order%20Bill*",
		"Thank you!":    "Thank%20you!",
		"Paneer (dry)":  "Paneer%20(dry)",
		"ravi's order":  "ravi's%20order",
		"100% paid":     "100%25%20paid",
		"a&b=c?d":       "a%26b%3Dc%3Fd",
		"line\nbreak":   "line%0Abreak",
		"₹500":          "%E2%82%B9500",
		"literal %21 x": "literal%20%2521%20x",
	}
	for in, want := range cases {
		assert.Equal(t, want, escapeMessageText(in), "input %q", in)
	}
}

func TestRender_MessageEmphasis(t *testing.T) {
	bill := Render(testOrder(), testConfig())

	assert.Contains(t, bill.Message, "*Aizu's Kitchen - Order Bill*")
	assert.Contains(t, bill.Message, "*Subtotal: ₹1148.5*")
	assert.True(t, strings.HasSuffix(bill.Message, "Thank you for your order!"))
}

func TestRender_EmptyStatusReadsPending(t *testing.T) {
	order := testOrder()
	order.Status = ""

	bill := Render(order, testConfig())
	assert.Contains(t, bill.HTML, "PENDING")
}

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"+91 98765-43210", "919876543210"},
		{"(040) 1234 5678", "04012345678"},
		{"9876543210", "9876543210"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizePhone(tc.in), "input %q", tc.in)
	}
}

func TestCurrencySymbol(t *testing.T) {
	assert.Equal(t, "₹", CurrencySymbol("INR"))
	assert.Equal(t, "₹", CurrencySymbol(""))
	assert.Equal(t, "$", CurrencySymbol("USD"))
	assert.Equal(t, "€", CurrencySymbol("EUR"))
	assert.Equal(t, "£", CurrencySymbol("GBP"))
	assert.Equal(t, "AED ", CurrencySymbol("AED"))
}
