package crypto

import (
	"bytes"
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testKDF is cheap enough to run hundreds of times per test
var testKDF = Argon2id{Time: 1, Memory: 64, Threads: 1}

func testKey(t *testing.T) []byte {
	t.Helper()
	key, err := GenerateRandom(KeySize)
	require.NoError(t, err)
	return key
}

func TestDeriveKeyDeterministic(t *testing.T) {
	salt, err := NewSalt()
	require.NoError(t, err)

	key1, err := testKDF.DeriveKey([]byte("password"), salt[:])
	require.NoError(t, err)
	key2, err := testKDF.DeriveKey([]byte("password"), salt[:])
	require.NoError(t, err)

	assert.Len(t, key1, KeySize)
	assert.Equal(t, key1, key2)
}

func TestDeriveKeyDependsOnInputs(t *testing.T) {
	salt1, err := NewSalt()
	require.NoError(t, err)
	salt2, err := NewSalt()
	require.NoError(t, err)

	base, err := testKDF.DeriveKey([]byte("password"), salt1[:])
	require.NoError(t, err)
	otherSalt, err := testKDF.DeriveKey([]byte("password"), salt2[:])
	require.NoError(t, err)
	otherPassword, err := testKDF.DeriveKey([]byte("passwore"), salt1[:])
	require.NoError(t, err)

	assert.NotEqual(t, base, otherSalt)
	assert.NotEqual(t, base, otherPassword)
}

func TestDeriveKeyEmptyPassword(t *testing.T) {
	salt, err := NewSalt()
	require.NoError(t, err)

	key, err := testKDF.DeriveKey(nil, salt[:])
	require.NoError(t, err)
	assert.Len(t, key, KeySize)
}

func TestDeriveKeyRejectsParameters(t *testing.T) {
	salt := make([]byte, SaltSize)
	tests := []struct {
		name string
		kdf  Argon2id
		salt []byte
	}{
		{"zero time", Argon2id{Time: 0, Memory: 64, Threads: 1}, salt},
		{"zero threads", Argon2id{Time: 1, Memory: 64, Threads: 0}, salt},
		{"memory below lanes", Argon2id{Time: 1, Memory: 16, Threads: 4}, salt},
		{"short salt", testKDF, salt[:8]},
		{"long salt", testKDF, make([]byte, 32)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := tt.kdf.DeriveKey([]byte("pw"), tt.salt)
			assert.Nil(t, key)
			assert.ErrorIs(t, err, ErrKeyDerivation)
		})
	}
}

func TestDefaultKDFIsValid(t *testing.T) {
	kdf := DefaultKDF()
	require.NoError(t, kdf.Validate())
	assert.Equal(t, uint32(DefaultArgonTime), kdf.Time)
	assert.Equal(t, uint32(DefaultArgonMemory), kdf.Memory)
	assert.Equal(t, uint8(DefaultArgonThreads), kdf.Threads)
}

func TestSealOpen(t *testing.T) {
	key := testKey(t)
	nonce, err := NewNonce()
	require.NoError(t, err)

	for _, plaintext := range [][]byte{nil, {}, []byte("x"), bytes.Repeat([]byte("abc"), 10000)} {
		ct, err := Seal(key, nonce[:], plaintext)
		require.NoError(t, err)
		assert.Len(t, ct, len(plaintext)+TagSize)

		pt, err := Open(key, nonce[:], ct)
		require.NoError(t, err)
		assert.True(t, bytes.Equal(plaintext, pt))
	}
}

func TestSealInvalidLengths(t *testing.T) {
	key := testKey(t)
	nonce := make([]byte, NonceSize)

	_, err := Seal(key[:16], nonce, []byte("data"))
	assert.ErrorIs(t, err, ErrInvalidKeyOrNonceLength)

	_, err = Seal(key, nonce[:8], []byte("data"))
	assert.ErrorIs(t, err, ErrInvalidKeyOrNonceLength)

	_, err = Open(key, make([]byte, 24), make([]byte, 32))
	assert.ErrorIs(t, err, ErrInvalidKeyOrNonceLength)
}

func TestOpenRejectsShortCiphertext(t *testing.T) {
	key := testKey(t)
	nonce := make([]byte, NonceSize)

	pt, err := Open(key, nonce, make([]byte, TagSize-1))
	assert.Nil(t, pt)
	assert.Equal(t, ErrAuthFailed, err)
}

func TestOpenWrongKey(t *testing.T) {
	nonce, err := NewNonce()
	require.NoError(t, err)
	ct, err := Seal(testKey(t), nonce[:], []byte("secret"))
	require.NoError(t, err)

	pt, err := Open(testKey(t), nonce[:], ct)
	assert.Nil(t, pt)
	assert.Equal(t, ErrAuthFailed, err)
}

func TestSerializeDeserialize(t *testing.T) {
	salt, err := NewSalt()
	require.NoError(t, err)
	nonce, err := NewNonce()
	require.NoError(t, err)
	ciphertext := []byte("ciphertext-and-tag")

	data := Serialize(salt, nonce, ciphertext)
	require.Len(t, data, HeaderSize+len(ciphertext))
	assert.Equal(t, salt[:], data[:16])
	assert.Equal(t, nonce[:], data[16:28])
	assert.Equal(t, ciphertext, data[28:])

	c, err := Deserialize(data)
	require.NoError(t, err)
	assert.Equal(t, salt, c.Salt)
	assert.Equal(t, nonce, c.Nonce)
	assert.Equal(t, ciphertext, c.Ciphertext)
	assert.Equal(t, len(data), c.Size())
	assert.Equal(t, data, c.Bytes())

	// Parsed fields must not alias the input buffer
	c.Ciphertext[0] ^= 0xff
	assert.Equal(t, ciphertext, data[28:])
}

func TestDeserializeMinimumLength(t *testing.T) {
	for n := 0; n < HeaderSize; n++ {
		c, err := Deserialize(make([]byte, n))
		assert.Nil(t, c)
		assert.True(t, errors.Is(err, ErrMalformedContainer), "length %d", n)
	}

	c, err := Deserialize(make([]byte, HeaderSize))
	require.NoError(t, err)
	assert.Empty(t, c.Ciphertext)
}

func TestSealOpenProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	key := testKey(t)
	nonce, err := NewNonce()
	require.NoError(t, err)

	properties.Property("open inverts seal", prop.ForAll(
		func(plaintext []byte) bool {
			ct, err := Seal(key, nonce[:], plaintext)
			if err != nil {
				return false
			}
			pt, err := Open(key, nonce[:], ct)
			return err == nil && bytes.Equal(pt, plaintext)
		},
		gen.SliceOf(gen.UInt8()),
	))

	properties.Property("any flipped bit fails authentication", prop.ForAll(
		func(plaintext []byte, pos int, bit uint8) bool {
			ct, err := Seal(key, nonce[:], plaintext)
			if err != nil {
				return false
			}
			ct[pos%len(ct)] ^= 1 << (bit % 8)
			pt, err := Open(key, nonce[:], ct)
			return pt == nil && err == ErrAuthFailed
		},
		gen.SliceOf(gen.UInt8()),
		gen.IntRange(0, 1<<20),
		gen.UInt8(),
	))

	properties.TestingRun(t)
}
