package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/illarion/sealfile/internal/core"
	"github.com/illarion/sealfile/internal/crypto"
	sfkeyring "github.com/illarion/sealfile/internal/keyring"
)

var testKDF = crypto.Argon2id{Time: 1, Memory: 64, Threads: 1}

func newTestWorkspace(t *testing.T) (*core.Workspace, string) {
	t.Helper()
	dir := t.TempDir()
	ws, err := core.New(dir, core.Options{KDF: testKDF, Workers: 2})
	require.NoError(t, err)
	t.Cleanup(func() { ws.Close() })
	return ws, dir
}

func sealFixture(t *testing.T, ws *core.Workspace, dir, name, password string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(name), 0600))
	result, err := ws.Seal(context.Background(), []string{name}, []byte(password), true)
	require.NoError(t, err)
	require.True(t, result.OK())
}

func TestSealPasswordCheck(t *testing.T) {
	ws, dir := newTestWorkspace(t)
	check := sealPasswordCheck(ws)

	// Nothing sealed yet: any password is accepted
	assert.NoError(t, check([]byte("anything")))

	sealFixture(t, ws, dir, "first.txt", "right")
	assert.NoError(t, check([]byte("right")))
	assert.ErrorIs(t, check([]byte("other")), crypto.ErrAuthFailed)
}

func stubPrompt(t *testing.T, answer string) {
	t.Helper()
	orig := readPassword
	readPassword = func(string) ([]byte, error) { return []byte(answer), nil }
	t.Cleanup(func() { readPassword = orig })
}

func TestGetPasswordWithRetryRejectsStaleKeyring(t *testing.T) {
	keyring.MockInit()
	t.Setenv(core.PasswordEnv, "")

	ws, dir := newTestWorkspace(t)
	sealFixture(t, ws, dir, "first.txt", "right")

	id, err := ws.GetIndexID()
	require.NoError(t, err)
	require.NoError(t, sfkeyring.SavePassword(id, []byte("stale")))

	// A wrong re-entered password is refused too
	stubPrompt(t, "also-wrong")
	password, _, err := GetPasswordWithRetry("", id, true, sealPasswordCheck(ws))
	assert.ErrorIs(t, err, crypto.ErrAuthFailed)
	assert.Nil(t, password)

	stubPrompt(t, "right")
	password, source, err := GetPasswordWithRetry("", id, true, sealPasswordCheck(ws))
	require.NoError(t, err)
	assert.Equal(t, SourcePrompt, source)
	assert.Equal(t, "right", string(password))
}

func TestGetPasswordWithRetryKeyringValid(t *testing.T) {
	keyring.MockInit()
	t.Setenv(core.PasswordEnv, "")

	ws, dir := newTestWorkspace(t)
	sealFixture(t, ws, dir, "first.txt", "right")

	id, err := ws.GetIndexID()
	require.NoError(t, err)
	require.NoError(t, sfkeyring.SavePassword(id, []byte("right")))

	password, source, err := GetPasswordWithRetry("", id, true, sealPasswordCheck(ws))
	require.NoError(t, err)
	assert.Equal(t, SourceKeyring, source)
	assert.Equal(t, "right", string(password))
}

func TestPrintResultsListsCompletedFiles(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	stdout := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = stdout }()

	printResults("sealed", &core.BatchResult{
		Done:    []string{"a.txt"},
		Skipped: []string{"b.txt"},
	})
	w.Close()

	out, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Contains(t, string(out), "sealed: a.txt")
	assert.Contains(t, string(out), "skipped: b.txt")
	assert.True(t, strings.HasSuffix(string(out), "1 sealed, 1 skipped, 0 failed\n"))
}
