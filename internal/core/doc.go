// Package core provides the sealfile operations.
//
// Encryptor is the whole-buffer orchestrator: Encrypt draws a fresh salt
// and nonce, derives a key with Argon2id, seals with AES-256-GCM and
// serializes the container; Decrypt is the mirror image and fails closed.
// Keys are zeroed before each call returns.
//
// Workspace builds on Encryptor for a directory of files:
//   - Seal: encrypt files to <file>.sealed in parallel and index them
//   - Unseal: decrypt containers next to themselves with conflict handling
//   - Verify: authenticate containers without writing plaintext
//   - Diff: compare a container's content with the local file
//   - Status: report indexed containers without a password
package core
