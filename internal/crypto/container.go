package crypto

import "fmt"

// Container is the parsed form of a sealed file:
// salt (16) || nonce (12) || ciphertext||tag
type Container struct {
	Salt       [SaltSize]byte
	Nonce      [NonceSize]byte
	Ciphertext []byte
}

// Serialize concatenates salt, nonce and ciphertext in container order
func Serialize(salt [SaltSize]byte, nonce [NonceSize]byte, ciphertext []byte) []byte {
	out := make([]byte, HeaderSize+len(ciphertext))
	copy(out, salt[:])
	copy(out[SaltSize:], nonce[:])
	copy(out[HeaderSize:], ciphertext)
	return out
}

// Deserialize splits a container into its fields.
// Inputs shorter than HeaderSize fail with ErrMalformedContainer.
// A ciphertext shorter than the tag is left for Open to reject.
func Deserialize(data []byte) (*Container, error) {
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("%w: %d bytes, need at least %d", ErrMalformedContainer, len(data), HeaderSize)
	}

	c := &Container{
		Ciphertext: append([]byte(nil), data[HeaderSize:]...),
	}
	copy(c.Salt[:], data[:SaltSize])
	copy(c.Nonce[:], data[SaltSize:HeaderSize])
	return c, nil
}

// Bytes serializes the container
func (c *Container) Bytes() []byte {
	return Serialize(c.Salt, c.Nonce, c.Ciphertext)
}

// Size returns the serialized length of the container
func (c *Container) Size() int {
	return HeaderSize + len(c.Ciphertext)
}
