package orders

import (
	"encoding/base64"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// encodedCreditCard is the decoded shape of the base64 JSON payload a checkout
// request carries.
type encodedCreditCard struct {
	CardName   string `json:"cardName"`
	CardNumber string `json:"cardNumber"`
	ExpDate    string `json:"expDate"`
	CVV        string `json:"cvv"`
}

var (
	expDatePattern = regexp.MustCompile(`^(\d{2})/(\d{2}|\d{4})$`)
	nonDigits      = regexp.MustCompile(`\D`)
	spaces         = regexp.MustCompile(`\s+`)
)

// ValidateCreditCard decodes a base64 JSON card payload and normalizes it into
// gateway card fields. Malformed payloads yield a generic payment error;
// field-level rules yield distinct credit-card errors.
func ValidateCreditCard(encoded string) (*CardDetails, error) {
	return validateCreditCardAt(encoded, time.Now())
}

func validateCreditCardAt(encoded string, now time.Time) (*CardDetails, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrPaymentGeneric.WithMessage("credit card payload invalid")
	}

	var card encodedCreditCard
	if err := json.Unmarshal(raw, &card); err != nil {
		return nil, ErrPaymentGeneric.WithMessage("credit card payload invalid")
	}
	if card.CardName == "" || card.CardNumber == "" || card.ExpDate == "" || card.CVV == "" {
		return nil, ErrPaymentGeneric.WithMessage("credit card payload invalid")
	}

	if len(strings.TrimSpace(card.CardName)) < 2 {
		return nil, ErrPaymentCreditCard.WithMessage("Invalid card holder name")
	}
	if !isValidCardNumber(card.CardNumber) {
		return nil, ErrPaymentCreditCard.WithMessage("Invalid card number")
	}
	month, year, ok := parseExpDate(card.ExpDate)
	if !ok || expiredBefore(month, year, now) {
		return nil, ErrPaymentCreditCard.WithMessage("Invalid expiration date")
	}
	if !isValidCVV(card.CVV) {
		return nil, ErrPaymentCreditCard.WithMessage("Invalid CVV")
	}

	parts := strings.SplitN(card.ExpDate, "/", 2)
	return &CardDetails{
		CardHolder: card.CardName,
		CVC:        card.CVV,
		ExpMonth:   padMonth(parts[0]),
		ExpYear:    parts[1],
		Number:     spaces.ReplaceAllString(card.CardNumber, ""),
	}, nil
}

func isValidCardNumber(number string) bool {
	digits := nonDigits.ReplaceAllString(number, "")
	return len(digits) >= 12 && len(digits) <= 19
}

func parseExpDate(exp string) (month, year int, ok bool) {
	m := expDatePattern.FindStringSubmatch(exp)
	if m == nil {
		return 0, 0, false
	}
	month, _ = strconv.Atoi(m[1])
	year, _ = strconv.Atoi(m[2])
	if len(m[2]) == 2 {
		year += 2000
	}
	if month < 1 || month > 12 {
		return 0, 0, false
	}
	return month, year, true
}

// expiredBefore reports whether the expiry month/year is strictly before the
// current month/year.
func expiredBefore(month, year int, now time.Time) bool {
	if year != now.Year() {
		return year < now.Year()
	}
	return month < int(now.Month())
}

func isValidCVV(cvv string) bool {
	digits := nonDigits.ReplaceAllString(cvv, "")
	return len(digits) == 3 || len(digits) == 4
}

func padMonth(mm string) string {
	if len(mm) == 1 {
		return "0" + mm
	}
	return mm
}
