package cli

import (
	"bufio"
	"fmt"
	"io"

	"github.com/chzyer/readline"
)

// LineReader yields one line of input per call, io.EOF at end of input
type LineReader interface {
	ReadLine(prompt string) (string, error)
	Close() error
}

// ScannerReader reads plain lines, used when stdin is not a terminal
type ScannerReader struct {
	scanner *bufio.Scanner
	output  io.Writer
}

func NewScannerReader(input io.Reader, output io.Writer) *ScannerReader {
	return &ScannerReader{scanner: bufio.NewScanner(input), output: output}
}

func (r *ScannerReader) ReadLine(prompt string) (string, error) {
	fmt.Fprint(r.output, prompt)
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.scanner.Text(), nil
}

func (r *ScannerReader) Close() error { return nil }

// ReadlineReader adds line editing and history on interactive terminals
type ReadlineReader struct {
	rl *readline.Instance
}

// NewReadlineReader opens a readline session, historyFile may be empty
func NewReadlineReader(historyFile string) (*ReadlineReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}
	return &ReadlineReader{rl: rl}, nil
}

func (r *ReadlineReader) ReadLine(prompt string) (string, error) {
	r.rl.SetPrompt(prompt)
	line, err := r.rl.Readline()
	if err == readline.ErrInterrupt {
		// ^C on an empty line quits, otherwise it clears the line
		if len(line) == 0 {
			return "", io.EOF
		}
		return "", nil
	}
	return line, err
}

func (r *ReadlineReader) Close() error {
	return r.rl.Close()
}
