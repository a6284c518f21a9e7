package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/nhle/todo/internal/keys"
)

// Prompter asks the user for values not given as flags.
type Prompter interface {
	// Input asks for a visible value.
	Input(ctx context.Context, title string) (string, error)
	// Password asks for a hidden value, twice when confirm is set.
	Password(ctx context.Context, title string, confirm bool) (string, error)
	// Confirm asks a yes/no question.
	Confirm(ctx context.Context, title string) (bool, error)
}

// huhPrompter renders prompts with huh on the given output so stdout stays
// clean for command results.
type huhPrompter struct {
	output io.Writer
}

func newHuhPrompter(output io.Writer) *huhPrompter {
	return &huhPrompter{output: output}
}

func (p *huhPrompter) run(ctx context.Context, fields ...huh.Field) error {
	err := huh.NewForm(huh.NewGroup(fields...)).
		WithKeyMap(keys.PromptKeyMap()).
		WithShowHelp(false).
		WithProgramOptions(tea.WithOutput(p.output)).
		RunWithContext(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		return errAborted
	}
	if err != nil {
		return fmt.Errorf("running prompt: %w", err)
	}
	return nil
}

func (p *huhPrompter) Input(ctx context.Context, title string) (string, error) {
	var value string
	err := p.run(ctx, huh.NewInput().
		Title(title).
		Value(&value).
		Validate(notBlank(title)))
	return value, err
}

func (p *huhPrompter) Password(ctx context.Context, title string, confirm bool) (string, error) {
	var value, repeat string

	fields := []huh.Field{
		huh.NewInput().
			Title(title).
			EchoMode(huh.EchoModePassword).
			Value(&value).
			Validate(notBlank(title)),
	}
	if confirm {
		fields = append(fields, huh.NewInput().
			Title("Repeat for confirmation").
			EchoMode(huh.EchoModePassword).
			Value(&repeat).
			Validate(func(s string) error {
				if s != value {
					return errors.New("the two entered values do not match")
				}
				return nil
			}))
	}

	err := p.run(ctx, fields...)
	return value, err
}

func (p *huhPrompter) Confirm(ctx context.Context, title string) (bool, error) {
	var ok bool
	err := p.run(ctx, huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&ok))
	return ok, err
}

func notBlank(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", strings.ToLower(name))
		}
		return nil
	}
}
