package main

import (
	"fmt"
	"log"
	"os"

	"household-reshaper/internal/exporter"
	"household-reshaper/internal/layout"
	"household-reshaper/internal/reader"

	"github.com/xuri/excelize/v2"
)

// Cross-checks a reshaped workbook against its source:
//
//	go run scripts/verify_output.go <source.xlsx> [output/reformatted_data.xlsx]
func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: verify_output <source> [reshaped.xlsx]")
	}
	source := os.Args[1]
	reshaped := "output/reformatted_data.xlsx"
	if len(os.Args) > 2 {
		reshaped = os.Args[2]
	}

	rows, err := reader.ReadFile(source, reader.Options{})
	if err != nil {
		log.Fatal(err)
	}
	if len(rows) < 2 {
		log.Fatal("source has no data rows")
	}

	l := layout.Default()
	expected := 0
	for _, row := range rows[1:] {
		expected += l.HouseholdSize(row).LoopCount
	}

	f, err := excelize.OpenFile(reshaped)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	out, err := f.GetRows(exporter.ReshapedSheet)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("=== RESHAPE CHECK: %s ===\n", reshaped)
	fmt.Printf("Source households: %d\n", len(rows)-1)
	fmt.Printf("Expected member rows: %d\n", expected)
	fmt.Printf("Actual member rows:   %d\n\n", len(out)-1)

	ok := true
	if len(out)-1 != expected {
		fmt.Println("❌ Row count mismatch")
		ok = false
	}
	if len(out) > 0 {
		want := len(l.Header(rows[0]))
		if len(out[0]) != want {
			fmt.Printf("❌ Header has %d columns, expected %d\n", len(out[0]), want)
			ok = false
		}
	}

	if ok {
		fmt.Println("✅ Reshaped output matches the source")
		return
	}
	os.Exit(1)
}
