// Command csvsniff inspects a delimited text file without converting it: it
// reports the detected delimiter, the header row, and the inferred type of
// each column. Useful for checking what csv2json would do before running it.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"unicode/utf8"

	"csv2json/internal/convert"
	"csv2json/internal/records"
	"csv2json/internal/sniff"
	"csv2json/internal/typeconv"
)

var (
	flagDelimiter = flag.String("delimiter", "", "delimiter override; empty means auto-detect")
	flagQuote     = flag.String("quotechar", "\"", "quote character")
	flagBytes     = flag.Int("bytes", sniff.SampleSize, "number of bytes to sample from the start of the input")
	flagJSON      = flag.Bool("json", false, "print a column directive string instead of a report")
)

func main() {
	flag.Parse()

	name := "-"
	if flag.NArg() > 0 {
		name = flag.Arg(0)
	}
	data, err := readInput(name)
	if err != nil {
		log.Fatal(err)
	}
	if *flagBytes > 0 && len(data) > *flagBytes {
		data = data[:*flagBytes]
	}

	quote := '"'
	if *flagQuote != "" {
		if r, _ := utf8.DecodeRuneInString(*flagQuote); r != utf8.RuneError {
			quote = r
		}
	}
	delim, err := sniff.DecodeDelimiter(*flagDelimiter)
	if err != nil {
		log.Fatal(err)
	}
	if delim == 0 {
		delim = sniff.Delimiter(data, quote)
	}

	doc := convert.Run(data, convert.Options{Delimiter: delim, Quote: quote, DetectTypes: true})
	types := typeconv.InferColumnTypes(doc.Records, doc.Columns)

	if *flagJSON {
		fmt.Println(directives(doc.Columns, types))
		return
	}

	fmt.Printf("delimiter: %q\n", delim)
	fmt.Printf("records:   %d\n", len(doc.Records)+len(doc.Rows))
	fmt.Printf("columns:   %d\n", len(doc.Columns))
	for _, col := range doc.Columns {
		fmt.Printf("  %-24s %s\n", col, types[col])
	}
}

// directives renders the inferred schema as a -columns directive string that
// can be passed straight to csv2json.
func directives(columns []string, types records.ColumnTypes) string {
	parts := make([]string, 0, len(columns))
	for _, col := range columns {
		parts = append(parts, col+":"+types[col].String())
	}
	return strings.Join(parts, ",")
}

func readInput(name string) ([]byte, error) {
	if name == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}
