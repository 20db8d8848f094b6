package transaction

import (
	"cmp"
	"fmt"

	"github.com/cockroachdb/errors"
)

// Input references an output of a previous transaction
type Input struct {
	previousTxID string
	outputIndex  int
}

// NewInput creates an Input spending output outputIndex of previousTxID
func NewInput(previousTxID string, outputIndex int) (Input, error) {
	if previousTxID == "" {
		return Input{}, errors.Wrap(ErrInvalidArgument, "previous_tx_id must be a non-empty string")
	}
	if outputIndex < 0 {
		return Input{}, errors.Wrapf(ErrInvalidArgument, "output_index must be non-negative, got %d", outputIndex)
	}

	return Input{previousTxID: previousTxID, outputIndex: outputIndex}, nil
}

// PreviousTxID returns the identifier of the referenced transaction
func (in Input) PreviousTxID() string {
	return in.previousTxID
}

// OutputIndex returns the position of the referenced output
func (in Input) OutputIndex() int {
	return in.outputIndex
}

// Compare orders inputs by previous transaction id, then output index.
func (in Input) Compare(other Input) int {
	if c := cmp.Compare(in.previousTxID, other.previousTxID); c != 0 {
		return c
	}
	return cmp.Compare(in.outputIndex, other.outputIndex)
}

// Record returns the serializable form of the input
func (in Input) Record() InputRecord {
	return InputRecord{
		PreviousTxID: in.previousTxID,
		OutputIndex:  in.outputIndex,
	}
}

func (in Input) String() string {
	return fmt.Sprintf("TransactionInput(previous_tx_id='%s', output_index=%d)", in.previousTxID, in.outputIndex)
}
