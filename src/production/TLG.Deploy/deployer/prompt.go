package deployer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ProdConfirmation must be typed verbatim before anything is deployed to prod
const ProdConfirmation = "deploy to prod"

var ErrProdNotConfirmed = errors.New("prod deployment was not confirmed")

// Prompter asks questions on a terminal
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Input asks a free-text question and returns the trimmed answer
func (p *Prompter) Input(message string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", message)
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("failed to read answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Choose lists choices and returns the one picked by number or by name
func (p *Prompter) Choose(message string, choices []string) (string, error) {
	fmt.Fprintln(p.out, message)
	for i, choice := range choices {
		fmt.Fprintf(p.out, "  %d) %s\n", i+1, choice)
	}

	answer, err := p.Input("Choice")
	if err != nil {
		return "", err
	}
	if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(choices) {
		return choices[n-1], nil
	}
	for _, choice := range choices {
		if strings.EqualFold(answer, choice) {
			return choice, nil
		}
	}
	return "", fmt.Errorf("%q is not one of %s", answer, strings.Join(choices, ", "))
}

// SelectStage asks for the deployment stage. Prod needs the confirmation phrase.
func SelectStage(p *Prompter) (string, error) {
	stage, err := p.Choose("Specify deployment stage", []string{"dev", "prod"})
	if err != nil {
		return "", err
	}
	if stage != "prod" {
		return stage, nil
	}

	fmt.Fprintln(p.out, "Warning! You are deploying to prod")
	answer, err := p.Input(fmt.Sprintf("Type '%s' to continue", ProdConfirmation))
	if err != nil {
		return "", err
	}
	if answer != ProdConfirmation {
		return "", ErrProdNotConfirmed
	}
	return stage, nil
}
