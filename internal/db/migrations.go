package db

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	embeddedmigrations "github.com/terraincognita07/cradle/migrations"
	"gorm.io/gorm"
)

var migrationNamePattern = regexp.MustCompile(`^(\d+)_[\w-]+\.sql$`)

// MigrationRecord is one row of schema_migrations.
type MigrationRecord struct {
	Version   string    `gorm:"column:version;primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	AppliedAt time.Time `gorm:"column:applied_at;not null"`
}

func (MigrationRecord) TableName() string {
	return "schema_migrations"
}

type migration struct {
	version    string
	order      int
	name       string
	statements []string
}

type migrator struct {
	database *gorm.DB
	source   fs.FS
	now      func() time.Time
}

func newMigrator(database *gorm.DB, source fs.FS) *migrator {
	return &migrator{database: database, source: source, now: time.Now}
}

// AppliedMigrations lists the recorded migrations, oldest first.
func AppliedMigrations(database *gorm.DB) ([]MigrationRecord, error) {
	var records []MigrationRecord
	if err := database.Order("version ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list applied migrations: %w", err)
	}
	return records, nil
}

// up applies every pending migration in version order, one transaction per
// file, and returns the names it applied.
func (m *migrator) up() ([]string, error) {
	if err := m.database.AutoMigrate(&MigrationRecord{}); err != nil {
		return nil, fmt.Errorf("prepare schema_migrations: %w", err)
	}
	pending, err := m.load()
	if err != nil {
		return nil, err
	}

	var versions []string
	if err := m.database.Model(&MigrationRecord{}).Pluck("version", &versions).Error; err != nil {
		return nil, fmt.Errorf("load applied migrations: %w", err)
	}
	done := make(map[string]bool, len(versions))
	for _, version := range versions {
		done[version] = true
	}

	var applied []string
	for _, next := range pending {
		if done[next.version] {
			continue
		}
		if err := m.apply(next); err != nil {
			return applied, err
		}
		applied = append(applied, next.name)
	}
	return applied, nil
}

func (m *migrator) apply(next migration) error {
	return m.database.Transaction(func(tx *gorm.DB) error {
		for index, statement := range next.statements {
			if err := tx.Exec(statement).Error; err != nil {
				return fmt.Errorf("migration %s statement %d: %w", next.name, index+1, err)
			}
		}
		record := MigrationRecord{Version: next.version, Name: next.name, AppliedAt: m.now().UTC()}
		if err := tx.Create(&record).Error; err != nil {
			return fmt.Errorf("record migration %s: %w", next.name, err)
		}
		return nil
	})
}

// load reads NNNN_name.sql files from the source root. Other files are
// ignored; two files sharing a version are an error.
func (m *migrator) load() ([]migration, error) {
	entries, err := fs.ReadDir(m.source, ".")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	byVersion := make(map[string]string, len(entries))
	loaded := make([]migration, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		match := migrationNamePattern.FindStringSubmatch(name)
		if entry.IsDir() || match == nil {
			continue
		}
		version := match[1]
		if previous, clash := byVersion[version]; clash {
			return nil, fmt.Errorf("migrations %s and %s share version %s", previous, name, version)
		}
		byVersion[version] = name

		order, err := strconv.Atoi(version)
		if err != nil {
			return nil, fmt.Errorf("migration %s: bad version: %w", name, err)
		}
		body, err := fs.ReadFile(m.source, path.Clean(name))
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		statements := splitSQLStatements(string(body))
		if len(statements) == 0 {
			return nil, errors.New("migration " + name + " has no statements")
		}
		loaded = append(loaded, migration{version: version, order: order, name: name, statements: statements})
	}

	sort.Slice(loaded, func(i, j int) bool { return loaded[i].order < loaded[j].order })
	return loaded, nil
}

func applyEmbeddedMigrations(database *gorm.DB) ([]string, error) {
	return newMigrator(database, embeddedmigrations.Files).up()
}

// splitSQLStatements drops "--" comment lines and splits on ';'. Statements
// must not contain semicolons inside string literals.
func splitSQLStatements(sqlText string) []string {
	var (
		statements []string
		current    strings.Builder
	)
	flush := func() {
		if statement := strings.TrimSpace(current.String()); statement != "" {
			statements = append(statements, statement)
		}
		current.Reset()
	}

	scanner := bufio.NewScanner(strings.NewReader(sqlText))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		for {
			before, after, found := strings.Cut(line, ";")
			current.WriteString(before)
			if !found {
				break
			}
			flush()
			line = after
		}
		current.WriteByte('\n')
	}
	flush()
	return statements
}
