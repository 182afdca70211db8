package models

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"sync"

	"gorm.io/gen"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

/*
Schema tooling

GENERATE_MODELS=true runs GenerateModels at startup: it migrates every model in
All(), prints a column drift report and writes typed query helpers to ./generated.

GENERATE_COLUMN_REPORT=true only prints the drift report. A column listed there
exists in the database but no field of the Go model maps to it, which usually
means a field was renamed or dropped without a migration.

Example output:
=== COLUMN MISMATCH REPORT ===
--- Table: blogs ---
Found 1 columns not accounted for in model:
  - legacy_category

=== SUMMARY ===
Total mismatched columns across all tables: 1
*/

// GenerateModels migrates the schema, reports drift and runs gorm/gen over All()
func GenerateModels(db *gorm.DB, outPath string) error {
	if err := db.Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}

	verbose := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			LogLevel:                  logger.Info,
			IgnoreRecordNotFoundError: false,
			Colorful:                  true,
		},
	)
	db = db.Session(&gorm.Session{
		Logger:                 verbose,
		SkipDefaultTransaction: true,
	})

	if err := AutoMigrate(db); err != nil {
		return fmt.Errorf("error during models migration: %w", err)
	}

	report, err := ColumnMismatches(db)
	if err != nil {
		return err
	}
	report.Print(os.Stdout)

	if outPath == "" {
		outPath = "./generated"
	}
	g := gen.NewGenerator(gen.Config{
		OutPath:           outPath,
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(db)
	g.ApplyBasic(All()...)
	g.Execute()
	return nil
}

// MismatchReport maps a table name to the columns no model field accounts for.
// Tables missing from the database are listed in Missing.
type MismatchReport struct {
	Tables  map[string][]string
	Missing []string
}

// Total counts every unmapped column
func (r MismatchReport) Total() int {
	n := 0
	for _, cols := range r.Tables {
		n += len(cols)
	}
	return n
}

func (r MismatchReport) Print(w io.Writer) {
	fmt.Fprintln(w, "=== COLUMN MISMATCH REPORT ===")
	names := make([]string, 0, len(r.Tables))
	for name := range r.Tables {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "\n--- Table: %s ---\n", name)
		cols := r.Tables[name]
		if len(cols) == 0 {
			fmt.Fprintln(w, "All columns are accounted for in the model.")
			continue
		}
		fmt.Fprintf(w, "Found %d columns not accounted for in model:\n", len(cols))
		for _, col := range cols {
			fmt.Fprintf(w, "  - %s\n", col)
		}
	}
	for _, name := range r.Missing {
		fmt.Fprintf(w, "\n--- Table: %s ---\nTable does not exist yet (will be created during migration)\n", name)
	}
	fmt.Fprintf(w, "\n=== SUMMARY ===\nTotal mismatched columns across all tables: %d\n", r.Total())
}

// ColumnMismatches compares the live schema with the fields of every model in All()
func ColumnMismatches(db *gorm.DB) (MismatchReport, error) {
	report := MismatchReport{Tables: map[string][]string{}}
	cache := &sync.Map{}
	migrator := db.Migrator()

	for _, model := range All() {
		s, err := schema.Parse(model, cache, db.NamingStrategy)
		if err != nil {
			return report, fmt.Errorf("error parsing model %T: %w", model, err)
		}
		if !migrator.HasTable(s.Table) {
			report.Missing = append(report.Missing, s.Table)
			continue
		}
		columns, err := migrator.ColumnTypes(s.Table)
		if err != nil {
			return report, fmt.Errorf("error querying columns for table %s: %w", s.Table, err)
		}
		known := make(map[string]bool, len(s.DBNames))
		for _, name := range s.DBNames {
			known[name] = true
		}
		mismatches := []string{}
		for _, col := range columns {
			if !known[col.Name()] {
				mismatches = append(mismatches, col.Name())
			}
		}
		report.Tables[s.Table] = mismatches
	}
	return report, nil
}
