package keyfile

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"fmt"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func rsaKeyFileContents(t *testing.T, algorithm int) []byte {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 1024)
	require.NoError(t, err)
	priv.Precompute()

	enc := func(b []byte) string { return base64.StdEncoding.EncodeToString(b) }

	return []byte(fmt.Sprintf(
		"Private-key-format: v1.3\n"+
			"Algorithm: %d (RSASHA256)\n"+
			"Modulus: %s\n"+
			"PublicExponent: %s\n"+
			"PrivateExponent: %s\n"+
			"Prime1: %s\n"+
			"Prime2: %s\n",
		algorithm,
		enc(priv.N.Bytes()),
		enc(big.NewInt(int64(priv.E)).Bytes()),
		enc(priv.D.Bytes()),
		enc(priv.Primes[0].Bytes()),
		enc(priv.Primes[1].Bytes()),
	))
}

func TestParseFileRSASHA256(t *testing.T) {
	contents := rsaKeyFileContents(t, 8)

	key, err := ParseFile("Kexample.com.+008+12345.private", contents)
	require.NoError(t, err)
	require.EqualValues(t, 8, key.Algorithm)
	require.EqualValues(t, 12345, key.KeyTag)
	require.Equal(t, "example.com.", key.SignerName)
	require.NotNil(t, key.Private.RSA)
}

func TestParseFileRejectsAlgorithmMismatch(t *testing.T) {
	contents := rsaKeyFileContents(t, 5) // file says RSASHA1

	_, err := ParseFile("Kexample.com.+008+12345.private", contents) // filename says 008
	require.Error(t, err)
}

func TestParseFileRejectsBadFilename(t *testing.T) {
	contents := rsaKeyFileContents(t, 8)

	_, err := ParseFile("not-a-valid-keyfile-name.private", contents)
	require.Error(t, err)
}

func TestParseFileDSAParsesButCarriesNoKeyMaterial(t *testing.T) {
	contents := []byte("Private-key-format: v1.3\nAlgorithm: 3 (DSA)\n")

	key, err := ParseFile("Kexample.com.+003+54321.private", contents)
	require.NoError(t, err)
	require.EqualValues(t, 3, key.Algorithm)
	require.Nil(t, key.Private.RSA)
}
