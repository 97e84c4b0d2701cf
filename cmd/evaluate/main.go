// Command evaluate scores a heard transcript against a reference text and
// prints the result as JSON.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"lernquest/internal/listening"
)

func main() {
	reference := flag.String("reference", "", "Reference text (required)")
	hypothesis := flag.String("hypothesis", "", "Heard text; read from stdin when empty")
	difficulty := flag.String("difficulty", listening.A2Basic, "Difficulty label")
	flag.Parse()

	if *reference == "" {
		fmt.Fprintln(os.Stderr, "Error: -reference is required")
		flag.PrintDefaults()
		os.Exit(1)
	}
	if !listening.ValidDifficulty(*difficulty) {
		fmt.Fprintf(os.Stderr, "Error: unknown difficulty %q, want one of %v\n", *difficulty, listening.Difficulties)
		os.Exit(1)
	}

	heard := *hypothesis
	if heard == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			log.Fatalf("Failed to read stdin: %v", err)
		}
		heard = string(data)
	}

	result := listening.Evaluate(*reference, heard, *difficulty)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(result); err != nil {
		log.Fatalf("Failed to encode result: %v", err)
	}
}
