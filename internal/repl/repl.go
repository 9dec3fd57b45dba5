package repl

import (
	"bufio"
	"fmt"
	"io"

	"utcl/internal/interp"
)

const PROMPT = ">> "

// Start runs the interactive prompt: one persistent interpreter, one line
// per evaluation. Results print as-is; errors print their code, line and
// symbol. The loop ends at EOF or when a script calls exit.
func Start(in io.Reader, out io.Writer, i *interp.Interp) {
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, PROMPT)
		if !scanner.Scan() {
			return
		}

		switch fl := i.Eval(scanner.Text()); fl {
		case interp.FlowExit:
			return
		case interp.FlowError:
			code, line, sym := i.ErrorInfo()
			if sym != "" {
				fmt.Fprintf(out, "error: %s: %s (line %d)\n", code, sym, line)
			} else {
				fmt.Fprintf(out, "error: %s (line %d)\n", code, line)
			}
		default:
			if r := i.Result(); r.Len() > 0 {
				fmt.Fprintln(out, r.String())
			}
		}
	}
}
