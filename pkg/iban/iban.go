// Package iban builds and checks account identifiers in the French IBAN layout:
//
//	FR kk BBBBB GGGGG CCCCCCCCCCC RR
//
// where kk are the ISO 13616 check digits, B the bank code, G the branch code,
// C the account number and R the national RIB key.
package iban

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	bankCodeLength    = 5
	branchCodeLength  = 5
	accountLength     = 11
	ribKeyLength      = 2
	frenchIBANLength  = 4 + bankCodeLength + branchCodeLength + accountLength + ribKeyLength
	minIBANLength     = 15
	maxIBANLength     = 34
	accountNumberSpan = 100_000_000_000
)

var (
	// ErrInvalid is returned when an identifier fails structural or checksum validation.
	ErrInvalid = errors.New("invalid iban")

	// ErrAllocationFailed is returned when no free identifier was found within the attempt budget.
	ErrAllocationFailed = errors.New("iban allocation failed")
)

// Config holds the institution prefix stamped on every generated identifier.
type Config struct {
	Country    string
	BankCode   string
	BranchCode string
}

// DefaultConfig returns the prefix used when none is configured.
func DefaultConfig() Config {
	return Config{Country: "FR", BankCode: "30006", BranchCode: "00001"}
}

// Validate checks the prefix shape.
func (c Config) Validate() error {
	if len(c.Country) != 2 || !isUpperAlpha(c.Country) {
		return fmt.Errorf("%w: country %q must be two letters", ErrInvalid, c.Country)
	}
	if len(c.BankCode) != bankCodeLength || !isAlnum(c.BankCode) {
		return fmt.Errorf("%w: bank code %q must be %d characters", ErrInvalid, c.BankCode, bankCodeLength)
	}
	if len(c.BranchCode) != branchCodeLength || !isAlnum(c.BranchCode) {
		return fmt.Errorf("%w: branch code %q must be %d characters", ErrInvalid, c.BranchCode, branchCodeLength)
	}
	return nil
}

// Build assembles the identifier for a numeric account segment.
func (c Config) Build(accountNumber uint64) (string, error) {
	account := fmt.Sprintf("%0*d", accountLength, accountNumber%accountNumberSpan)
	key, err := RIBKey(c.BankCode, c.BranchCode, account)
	if err != nil {
		return "", err
	}
	bban := c.BankCode + c.BranchCode + account + key
	check, err := CheckDigits(c.Country, bban)
	if err != nil {
		return "", err
	}
	return c.Country + check + bban, nil
}

// CheckDigits computes the two ISO 13616 check digits for country and bban.
func CheckDigits(country, bban string) (string, error) {
	rem, err := mod97(bban + country + "00")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%02d", 98-rem), nil
}

// RIBKey computes the French national key 97 - ((89*bank + 15*branch + 3*account) mod 97).
// Letters are transliterated with the French banking table.
func RIBKey(bank, branch, account string) (string, error) {
	b, err := ribNumber(bank)
	if err != nil {
		return "", err
	}
	g, err := ribNumber(branch)
	if err != nil {
		return "", err
	}
	a, err := ribNumber(account)
	if err != nil {
		return "", err
	}
	sum := (89*(b%97) + 15*(g%97) + 3*(a%97)) % 97
	return fmt.Sprintf("%02d", 97-sum), nil
}

// Normalize strips spaces and upper-cases raw.
func Normalize(raw string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(raw), " ", ""))
}

// Validate checks structure and the mod-97 checksum, plus the RIB key for FR identifiers.
func Validate(raw string) error {
	s := Normalize(raw)
	if len(s) < minIBANLength || len(s) > maxIBANLength {
		return fmt.Errorf("%w: length %d", ErrInvalid, len(s))
	}
	if !isUpperAlpha(s[:2]) || !isDigits(s[2:4]) || !isAlnum(s[4:]) {
		return fmt.Errorf("%w: malformed", ErrInvalid)
	}
	rem, err := mod97(s[4:] + s[:4])
	if err != nil {
		return err
	}
	if rem != 1 {
		return fmt.Errorf("%w: checksum mismatch", ErrInvalid)
	}
	if s[:2] != "FR" {
		return nil
	}
	if len(s) != frenchIBANLength {
		return fmt.Errorf("%w: FR identifiers are %d characters", ErrInvalid, frenchIBANLength)
	}
	bban := s[4:]
	bank := bban[:bankCodeLength]
	branch := bban[bankCodeLength : bankCodeLength+branchCodeLength]
	account := bban[bankCodeLength+branchCodeLength : bankCodeLength+branchCodeLength+accountLength]
	key, err := RIBKey(bank, branch, account)
	if err != nil {
		return err
	}
	if key != bban[len(bban)-ribKeyLength:] {
		return fmt.Errorf("%w: RIB key mismatch", ErrInvalid)
	}
	return nil
}

// Format groups s in blocks of four for display.
func Format(raw string) string {
	s := Normalize(raw)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// mod97 reduces the numeric transliteration of s (A=10 … Z=35) modulo 97
// without building the full integer.
func mod97(s string) (int, error) {
	rem := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			rem = (rem*10 + int(r-'0')) % 97
		case r >= 'A' && r <= 'Z':
			rem = (rem*100 + int(r-'A') + 10) % 97
		default:
			return 0, fmt.Errorf("%w: unexpected character %q", ErrInvalid, r)
		}
	}
	return rem, nil
}

func ribNumber(s string) (int64, error) {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'I':
			b.WriteByte(byte('1' + r - 'A'))
		case r >= 'J' && r <= 'R':
			b.WriteByte(byte('1' + r - 'J'))
		case r >= 'S' && r <= 'Z':
			b.WriteByte(byte('2' + r - 'S'))
		default:
			return 0, fmt.Errorf("%w: unexpected character %q", ErrInvalid, r)
		}
	}
	n, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return n, nil
}

func isUpperAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isAlnum(s string) bool {
	for _, r := range s {
		if (r < '0' || r > '9') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}
