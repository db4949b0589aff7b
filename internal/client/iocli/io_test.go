package iocli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsk(t *testing.T) {
	answers := map[string]string{
		"Username: ":                "alice",
		"Password (min 6 chars): ": "secret1",
	}
	console := &IOMock{
		ReadInputFunc: func(prompt string) (string, error) {
			return answers[prompt], nil
		},
		ReadPasswordFunc: func(prompt string) (string, error) {
			return answers[prompt], nil
		},
	}

	var username, password string
	err := Ask(console,
		Field{Label: "Username", Dest: &username},
		Field{Label: "Password", Hint: "min 6 chars", Secret: true, Dest: &password},
	)
	require.NoError(t, err)

	assert.Equal(t, "alice", username)
	assert.Equal(t, "secret1", password)
	require.Len(t, console.ReadInputCalls(), 1)
	require.Len(t, console.ReadPasswordCalls(), 1)
	assert.Equal(t, "Password (min 6 chars): ", console.ReadPasswordCalls()[0].Prompt)
}

func TestAsk_StopsOnReadError(t *testing.T) {
	errClosed := errors.New("stdin closed")
	console := &IOMock{
		ReadInputFunc: func(prompt string) (string, error) {
			if prompt == "Full name: " {
				return "", errClosed
			}
			return "value", nil
		},
	}

	var username, fullName, email string
	err := Ask(console,
		Field{Label: "Username", Dest: &username},
		Field{Label: "Full name", Dest: &fullName},
		Field{Label: "Email", Dest: &email},
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, errClosed)
	assert.Equal(t, "failed to read full name: stdin closed", err.Error())

	assert.Equal(t, "value", username)
	assert.Empty(t, email)
	assert.Len(t, console.ReadInputCalls(), 2)
}

func TestAsk_WithStdio(t *testing.T) {
	var out bytes.Buffer
	stdio := New(strings.NewReader("bob\npw\n"), &out)

	var username, password string
	require.NoError(t, Ask(stdio,
		Field{Label: "Username", Dest: &username},
		Field{Label: "Password", Secret: true, Dest: &password},
	))

	assert.Equal(t, "bob", username)
	assert.Equal(t, "pw", password)
	assert.Equal(t, "Username: Password: ", out.String())
}
