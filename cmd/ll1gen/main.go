/*
Ll1gen loads a context-free grammar and starts an interactive session for
compiling it into an LL(1) table and testing strings against it.

Usage:

	ll1gen [flags]

The grammar is given as a text file of one rule per line, in the form
"LHS=RHS", where LHS is a single nonterminal character and RHS is a string of
terminal and nonterminal characters, or the empty string for an epsilon
production. The nonterminal named by the first rule becomes the grammar's
start symbol. For example:

	E=TX
	X=+TX
	X=
	T=iY
	Y=*iY
	Y=

Once loaded, ll1gen compiles the grammar to an LL(1) parse table and prints
it, then starts reading lines of input from stdin, printing whether each one
is accepted by the grammar. Type "QUIT" to exit.

The flags are:

	-v, --version
		Give the current version of ll1gen and then exit.

	-g, --grammar FILE
		Load the grammar from the given file. Defaults to "grammar.txt" in
		the current working directory.

	-d, --direct
		Force reading directly from the console as opposed to using GNU
		readline based routines for reading input, even if launched in a tty
		with stdin and stdout.

	-c, --command INPUTS
		Immediately test the given input string(s) at start. Can be multiple
		inputs separated by the ";" character.
*/
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dekarrin/ll1gen/internal/input"
	"github.com/dekarrin/ll1gen/internal/ll1/grammar"
	"github.com/dekarrin/ll1gen/internal/ll1/parser"
	"github.com/dekarrin/ll1gen/internal/version"
	"github.com/dekarrin/rosed"
	"github.com/spf13/pflag"
)

const (
	ExitSuccess = iota
	ExitGrammarError
	ExitInputError
)

var (
	returnCode  int     = ExitSuccess
	flagVersion *bool   = pflag.BoolP("version", "v", false, "Gives the version info")
	grammarFile *string = pflag.StringP("grammar", "g", "grammar.txt", "The file containing the rules of the grammar to compile")
	forceDirect *bool   = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of going through GNU readline where possible")
	startInputs *string = pflag.StringP("command", "c", "", "Immediately test the given input(s) against the grammar at start")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occured: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	specs, err := loadGrammarFile(*grammarFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitGrammarError
		return
	}

	g, err := grammar.Build(specs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: grammar does not build: %s\n", err.Error())
		returnCode = ExitGrammarError
		return
	}

	p, err := parser.New(g)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: grammar is not LL(1): %s\n", err.Error())
		returnCode = ExitGrammarError
		return
	}

	fmt.Println(rosed.Edit("Compiled grammar; LL(1) parse table:").Wrap(80).String())
	fmt.Println(p.Table().Render())

	var startCommands []string
	if *startInputs != "" {
		startCommands = strings.Split(*startInputs, ";")
	}
	for _, in := range startCommands {
		reportRecognition(p, in)
	}

	if err := runSession(p, *forceDirect); err != nil && err != io.EOF {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInputError
		return
	}
}

func reportRecognition(p *parser.Parser, in string) {
	accepted := p.Parse([]rune(in))
	verdict := "REJECTED"
	if accepted {
		verdict = "ACCEPTED"
	}
	fmt.Printf("%-30q %s\n", in, verdict)
}

func runSession(p *parser.Parser, forceDirect bool) error {
	var reader interface {
		ReadLine() (string, error)
		Close() error
	}

	isTTY := !forceDirect && isInteractive()
	if isTTY {
		ir, err := input.NewInteractiveReader("ll1gen> ")
		if err != nil {
			return err
		}
		reader = ir
	} else {
		reader = input.NewDirectReader(os.Stdin)
	}
	defer reader.Close()

	for {
		line, err := reader.ReadLine()
		if err != nil {
			return err
		}

		if strings.EqualFold(line, "QUIT") {
			return nil
		}

		reportRecognition(p, line)
	}
}

func isInteractive() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// loadGrammarFile reads the simple LHS=RHS rule format from path.
func loadGrammarFile(path string) ([]grammar.RuleSpec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open grammar file: %w", err)
	}
	defer f.Close()

	var specs []grammar.RuleSpec

	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}

		eqIdx := strings.Index(line, "=")
		if eqIdx < 0 {
			return nil, fmt.Errorf("line %d: missing '=' in rule %q", lineNum, line)
		}

		lhsStr := line[:eqIdx]
		rhs := line[eqIdx+1:]

		lhsRunes := []rune(lhsStr)
		if len(lhsRunes) != 1 {
			return nil, fmt.Errorf("line %d: LHS must be exactly one character, got %q", lineNum, lhsStr)
		}

		specs = append(specs, grammar.RuleSpec{LHS: lhsRunes[0], RHS: rhs})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read grammar file: %w", err)
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("grammar file %q contains no rules", path)
	}

	return specs, nil
}
