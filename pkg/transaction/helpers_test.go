package transaction

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/thanhnp/ledger-tx/pkg/keys"
)

const fixedTimestamp = 1678886400.0

var (
	pairsOnce sync.Once
	alicePair *keys.Pair
	bobPair   *keys.Pair
)

// testKeys returns two RSA key pairs shared by every test in the package
func testKeys(t *testing.T) (alice, bob *keys.Pair) {
	t.Helper()

	pairsOnce.Do(func() {
		var err error
		alicePair, err = keys.NewPair(keys.DefaultBits)
		require.NoError(t, err)
		bobPair, err = keys.NewPair(keys.DefaultBits)
		require.NoError(t, err)
	})
	require.NotNil(t, alicePair)
	require.NotNil(t, bobPair)

	return alicePair, bobPair
}

func mustInput(t *testing.T, prevTxID string, index int) Input {
	t.Helper()

	in, err := NewInput(prevTxID, index)
	require.NoError(t, err)
	return in
}

func mustOutput(t *testing.T, recipient string, amount float64) Output {
	t.Helper()

	out, err := NewOutput(recipient, amount)
	require.NoError(t, err)
	return out
}

// signedTx builds a one-input transaction paying bob, signed by alice
func signedTx(t *testing.T) *Transaction {
	t.Helper()

	alice, bob := testKeys(t)

	tx, err := New(
		[]Input{mustInput(t, "prev_tx_for_signing", 0)},
		[]Output{mustOutput(t, bob.PublicPEM, 10.0)},
		WithTimestamp(fixedTimestamp),
	)
	require.NoError(t, err)
	require.NoError(t, tx.Sign(alice.PrivatePEM))

	return tx
}

type stubProvider struct {
	signature []byte
	signErr   error
	verifyOK  bool
	verifyErr error
}

func (s stubProvider) Sign(_, _ []byte) ([]byte, error) {
	return s.signature, s.signErr
}

func (s stubProvider) Verify(_, _, _ []byte) (bool, error) {
	return s.verifyOK, s.verifyErr
}
