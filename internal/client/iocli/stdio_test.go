package iocli

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Проверяем что NewStdio возвращает валидный объект
func TestNewStdio(t *testing.T) {
	stdio := NewStdio()
	assert.NotNil(t, stdio)
}

func TestPrintlnAndPrintf(t *testing.T) {
	var out bytes.Buffer
	stdio := New(strings.NewReader(""), &out)

	stdio.Println("hello", "world")
	stdio.Printf("test %d %s", 1, "abc")
	_, err := stdio.Write([]byte("!"))
	require.NoError(t, err)

	assert.Equal(t, "hello world\ntest 1 abc!", out.String())
}

// Тест ReadInput: читаем из буфера вместо os.Stdin
func TestReadInput(t *testing.T) {
	var out bytes.Buffer
	stdio := New(strings.NewReader("  user input \nsecond\n"), &out)

	first, err := stdio.ReadInput("Prompt: ")
	require.NoError(t, err)
	assert.Equal(t, "user input", first)

	second, err := stdio.ReadInput("Next: ")
	require.NoError(t, err)
	assert.Equal(t, "second", second)

	assert.Equal(t, "Prompt: Next: ", out.String())
}

func TestReadInput_LastLineWithoutNewline(t *testing.T) {
	stdio := New(strings.NewReader("tail"), io.Discard)

	got, err := stdio.ReadInput("> ")
	require.NoError(t, err)
	assert.Equal(t, "tail", got)

	_, err = stdio.ReadInput("> ")
	assert.ErrorIs(t, err, io.EOF)
}

// Пароль из pipe читается как обычная строка
func TestReadPassword_FromPipe(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer func() {
		_ = r.Close()
	}()

	go func() {
		_, _ = w.Write([]byte("secret1\n"))
		_ = w.Close()
	}()

	var out bytes.Buffer
	stdio := New(r, &out)

	password, err := stdio.ReadPassword("Password: ")
	require.NoError(t, err)
	assert.Equal(t, "secret1", password)
	assert.Equal(t, "Password: ", out.String())
}
