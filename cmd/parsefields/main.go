package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/paddyocr/invoice-sorter/internal/match"
)

// parsefields runs the field matcher over recognized text without
// touching the store or the OCR toolchain. Handy for tuning aliases.
func main() {
	var (
		aliasesPath = flag.String("aliases", "", "supplier alias JSON file path")
		prefix      = flag.String("prefix", "MSP", "organizational document-number prefix")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	var text []byte
	var err error
	switch flag.NArg() {
	case 0:
		text, err = io.ReadAll(os.Stdin)
	case 1:
		text, err = os.ReadFile(flag.Arg(0))
	default:
		fmt.Fprintln(os.Stderr, "usage: parsefields [-aliases aliases.json] [-prefix MSP] [text-file]")
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "read input: %v\n", err)
		os.Exit(1)
	}

	aliases := match.NewAliasTable(nil)
	if *aliasesPath != "" {
		aliases, err = match.LoadAliasFile(*aliasesPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load aliases: %v\n", err)
			os.Exit(1)
		}
	}

	fields := match.NewMatcher(*prefix).Parse(string(text), aliases)
	fmt.Printf("supplier: %q\n", fields.Supplier)
	fmt.Printf("invoice:  %q\n", fields.DocNumber)
	fmt.Printf("date:     %q\n", fields.DocDate)
}
