package repository

import (
	"errors"
	"strings"
	"testing"
)

func TestParseTable(t *testing.T) {
	for _, name := range []string{"Commissions", "quotes", " WALLETS ", "embeds"} {
		if _, err := ParseTable(name); err != nil {
			t.Errorf("ParseTable(%q): unexpected error %v", name, err)
		}
	}
	for _, name := range []string{"", "users", "wallets; DROP TABLE quotes"} {
		if _, err := ParseTable(name); !errors.Is(err, ErrUnknownTable) {
			t.Errorf("ParseTable(%q): got %v, want ErrUnknownTable", name, err)
		}
	}
}

func TestEveryTableHasSchema(t *testing.T) {
	for _, table := range Tables {
		stmt, err := ddl(table)
		if err != nil {
			t.Fatalf("ddl(%s): %v", table, err)
		}
		if !strings.Contains(stmt, "CREATE TABLE IF NOT EXISTS "+string(table)+" ") {
			t.Errorf("schema for %s does not create it", table)
		}
	}
}
