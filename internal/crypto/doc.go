// Package crypto provides the cryptographic building blocks of sealfile.
//
// Key derivation uses Argon2id with fixed cost parameters:
//   - 16-byte random salt per container (stored in the clear)
//   - time=3, memory=64 MiB, threads=4, 32-byte output
//
// Encryption uses AES-256-GCM with:
//   - 32-byte key from the KDF
//   - 12-byte random nonce per container
//   - 16-byte authentication tag appended to the ciphertext
//
// Container layout: salt (16) || nonce (12) || ciphertext||tag.
//
// Memory safety:
//   - Use ClearBytes() to zero sensitive data after use
//   - Keys returned by DeriveKey belong to the caller and must be cleared
package crypto
