// Command gentemplate writes the built-in Word summary template so it can be
// restyled and passed back through output.word_template.
package main

import (
	"flag"
	"fmt"
	"os"

	"household-reshaper/internal/exporter/word"
)

func main() {
	out := flag.String("o", "template.docx", "Path of the template to write")
	flag.Parse()

	if err := word.WriteTemplateFile(*out); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write template: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Template written to %s\n", *out)
}
