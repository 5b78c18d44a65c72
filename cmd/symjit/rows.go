package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chazu/symjit/bridge"
	"github.com/chazu/symjit/vm"
)

// rowSource returns the input rows: the -args text when given, stdin
// otherwise.
func rowSource(args string) (io.Reader, error) {
	if args != "" {
		return strings.NewReader(strings.ReplaceAll(args, ";", "\n")), nil
	}
	return os.Stdin, nil
}

// splitList splits a comma or whitespace separated list, dropping empty
// fields.
func splitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
}

// parseExternals parses "name=libfunc" pairs.
func parseExternals(s string) (map[string]string, error) {
	fields := splitList(s)
	if len(fields) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(fields))
	for _, f := range fields {
		name, lib, ok := strings.Cut(f, "=")
		if !ok || name == "" || lib == "" {
			return nil, fmt.Errorf("bad external %q, want name=libfunc", f)
		}
		out[name] = lib
	}
	return out, nil
}

// readRows parses one row per non-empty line. Lines starting with '#' are
// skipped.
func readRows[T any](r io.Reader, parse func(string) (T, error)) ([]T, int, error) {
	var flat []T
	n := 0
	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		for _, f := range splitList(text) {
			v, err := parse(f)
			if err != nil {
				return nil, 0, fmt.Errorf("row %d: %w", line, err)
			}
			flat = append(flat, v)
		}
		n++
	}
	return flat, n, sc.Err()
}

func parseReal(s string) (float64, error) { return strconv.ParseFloat(s, 64) }

func parseComplex(s string) (complex128, error) { return strconv.ParseComplex(s, 128) }

// evaluate reads rows from src, runs them through the runner kind and
// writes one line of outputs per row.
func evaluate(w io.Writer, kind string, a *vm.Artifact, src io.Reader) error {
	bw := bufio.NewWriter(w)
	defer bw.Flush()

	if a.Config().Complex {
		r, err := bridge.ComplexRows(kind, a)
		if err != nil {
			return err
		}
		args, n, err := readRows(src, parseComplex)
		if err != nil {
			return err
		}
		width := a.CountObs() / 2
		if err := checkWidth(len(args), n, a.CountParams()/2); err != nil {
			return err
		}
		outs := make([]complex128, n*width)
		r.Evaluate(args, outs)
		return writeRows(bw, outs, n, width, func(z complex128) string {
			return strconv.FormatComplex(z, 'g', -1, 128)
		})
	}

	r, err := bridge.RealRows(kind, a)
	if err != nil {
		return err
	}
	args, n, err := readRows(src, parseReal)
	if err != nil {
		return err
	}
	width := a.CountObs()
	if err := checkWidth(len(args), n, a.CountParams()); err != nil {
		return err
	}
	outs := make([]float64, n*width)
	r.Evaluate(args, outs)
	return writeRows(bw, outs, n, width, func(x float64) string {
		return strconv.FormatFloat(x, 'g', -1, 64)
	})
}

// checkWidth rejects ragged input before it reaches the runner, which
// treats a bad buffer length as a programming error.
func checkWidth(values, rows, perRow int) error {
	if values != rows*perRow {
		return fmt.Errorf("%d values in %d rows, want %d per row", values, rows, perRow)
	}
	return nil
}

func writeRows[T any](w io.Writer, outs []T, n, width int, format func(T) string) error {
	fields := make([]string, width)
	for r := range n {
		for k := range width {
			fields[k] = format(outs[r*width+k])
		}
		if _, err := fmt.Fprintln(w, strings.Join(fields, " ")); err != nil {
			return err
		}
	}
	return nil
}
