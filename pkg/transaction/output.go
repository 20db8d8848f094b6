package transaction

import (
	"cmp"
	"fmt"
	"math"

	"github.com/cockroachdb/errors"
)

// Output allocates an amount to a recipient. The recipient address is
// usually the recipient's public key in PEM form.
type Output struct {
	recipientAddress string
	amount           float64
}

// NewOutput creates an Output paying amount to recipientAddress
func NewOutput(recipientAddress string, amount float64) (Output, error) {
	if recipientAddress == "" {
		return Output{}, errors.Wrap(ErrInvalidArgument, "recipient_address must be a non-empty string")
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return Output{}, errors.Wrapf(ErrInvalidArgument, "amount must be a positive number, got %v", amount)
	}

	return Output{recipientAddress: recipientAddress, amount: amount}, nil
}

// RecipientAddress returns the address receiving the amount
func (out Output) RecipientAddress() string {
	return out.recipientAddress
}

// Amount returns the allocated value
func (out Output) Amount() float64 {
	return out.amount
}

// Compare orders outputs by recipient address, then amount.
func (out Output) Compare(other Output) int {
	if c := cmp.Compare(out.recipientAddress, other.recipientAddress); c != 0 {
		return c
	}
	return cmp.Compare(out.amount, other.amount)
}

// Record returns the serializable form of the output
func (out Output) Record() OutputRecord {
	return OutputRecord{
		RecipientAddress: out.recipientAddress,
		Amount:           out.amount,
	}
}

func (out Output) String() string {
	recipient := out.recipientAddress
	if len(recipient) > 20 {
		recipient = recipient[:20] + "..."
	}
	return fmt.Sprintf("TransactionOutput(recipient_address='%s', amount=%s)", recipient, formatFloat(out.amount))
}
