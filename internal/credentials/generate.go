package credentials

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	accessKeyLength = 20
	secretKeyLength = 40

	accessKeyAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	secretKeyAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"
)

// Generate creates an AWS-flavoured credential: a 20 character upper-case
// access key id and a 40 character secret key.
func Generate() (Credential, error) {
	accessKey, err := randomString(accessKeyAlphabet, accessKeyLength)
	if err != nil {
		return Credential{}, fmt.Errorf("failed to generate access key id: %w", err)
	}

	secretKey, err := randomString(secretKeyAlphabet, secretKeyLength)
	if err != nil {
		return Credential{}, fmt.Errorf("failed to generate secret access key: %w", err)
	}

	return Credential{AccessKeyID: accessKey, SecretAccessKey: secretKey}, nil
}

func randomString(alphabet string, length int) (string, error) {
	max := big.NewInt(int64(len(alphabet)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = alphabet[n.Int64()]
	}
	return string(out), nil
}
