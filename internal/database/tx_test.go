package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
)

func TestIsDeadlock(t *testing.T) {
	if !IsDeadlock(&mysql.MySQLError{Number: 1213}) {
		t.Error("expected 1213 to be a deadlock")
	}
	if !IsDeadlock(&mysql.MySQLError{Number: 1205}) {
		t.Error("expected 1205 to be a deadlock")
	}
	if IsDeadlock(&mysql.MySQLError{Number: 1062}) {
		t.Error("1062 is not a deadlock")
	}
	if IsDeadlock(errors.New("plain error")) {
		t.Error("non-MySQL error is not a deadlock")
	}
	if IsDeadlock(nil) {
		t.Error("nil is not a deadlock")
	}
}

func TestIsDeadlockWrapped(t *testing.T) {
	err := fmt.Errorf("inserting sale: %w", &mysql.MySQLError{Number: 1213})
	if !IsDeadlock(err) {
		t.Error("expected wrapped 1213 to be a deadlock")
	}
}

func TestIsDuplicateEntry(t *testing.T) {
	if !IsDuplicateEntry(&mysql.MySQLError{Number: 1062}) {
		t.Error("expected 1062 to be a duplicate entry")
	}
	if IsDuplicateEntry(&mysql.MySQLError{Number: 1213}) {
		t.Error("1213 is not a duplicate entry")
	}
	wrapped := fmt.Errorf("inserting customer: %w", &mysql.MySQLError{Number: 1062})
	if !IsDuplicateEntry(wrapped) {
		t.Error("expected wrapped 1062 to be a duplicate entry")
	}
}
