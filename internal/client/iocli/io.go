// Package iocli - консоль fishlog: вывод результатов команд и интерактивные вопросы.
package iocli

import (
	"fmt"
	"io"
	"strings"
)

//go:generate moq -out io_mock.go . IO

// Printer - вывод команд; таблицы и шаблоны пишут в него как в io.Writer
type Printer interface {
	io.Writer
	Println(a ...any)
	Printf(format string, a ...any)
}

// Prompter задает вопросы пользователю.
// ReadPassword не показывает ввод, если это позволяет терминал.
type Prompter interface {
	ReadInput(prompt string) (string, error)
	ReadPassword(prompt string) (string, error)
}

// IO - консоль одной команды fishlog
type IO interface {
	Printer
	Prompter
}

// Field - одно поле формы, которую заполняет пользователь
type Field struct {
	Label  string
	Hint   string
	Secret bool
	Dest   *string
}

func (f Field) prompt() string {
	if f.Hint != "" {
		return fmt.Sprintf("%s (%s): ", f.Label, f.Hint)
	}
	return f.Label + ": "
}

// Ask спрашивает поля по порядку и останавливается на первой ошибке чтения.
// Проверка значений остается за вызывающим кодом.
func Ask(p Prompter, fields ...Field) error {
	for _, f := range fields {
		read := p.ReadInput
		if f.Secret {
			read = p.ReadPassword
		}

		value, err := read(f.prompt())
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", strings.ToLower(f.Label), err)
		}
		*f.Dest = value
	}
	return nil
}
