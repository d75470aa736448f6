package builder

import (
	"testing"
)

func TestSQLBuilder(t *testing.T) {
	t.Run("Select", func(t *testing.T) {
		b := NewSQLBuilder()
		query, args := b.Select("id", "name").From("employees").Where("id = ?", 1).Build()
		expected := "SELECT id, name FROM employees WHERE id = $1"
		if query != expected {
			t.Errorf("expected %s, got %s", expected, query)
		}
		if len(args) != 1 || args[0] != 1 {
			t.Errorf("expected args [1], got %v", args)
		}
	})

	t.Run("Insert", func(t *testing.T) {
		b := NewSQLBuilder()
		query, args := b.Insert("employees", "name", "age").Values("Alice", 30).Build()
		expected := "INSERT INTO employees (name, age) VALUES ($1, $2)"
		if query != expected {
			t.Errorf("expected %s, got %s", expected, query)
		}
		if len(args) != 2 || args[0] != "Alice" || args[1] != 30 {
			t.Errorf("expected args [Alice 30], got %v", args)
		}
	})

	t.Run("Insert Returning", func(t *testing.T) {
		b := NewSQLBuilder()
		query, _ := b.Insert("employees", "name").Values("Alice").Returning("id").Build()
		expected := "INSERT INTO employees (name) VALUES ($1) RETURNING id"
		if query != expected {
			t.Errorf("expected %s, got %s", expected, query)
		}
	})

	t.Run("Order Limit Offset", func(t *testing.T) {
		b := NewSQLBuilder()
		query, args := b.Select("*").From("employees").OrderBy("age ASC").Limit(10).Offset(20).Build()
		expected := "SELECT * FROM employees ORDER BY age ASC LIMIT 10 OFFSET 20"
		if query != expected {
			t.Errorf("expected %s, got %s", expected, query)
		}
		if len(args) != 0 {
			t.Errorf("expected no args, got %v", args)
		}
	})
}

func TestSQLBuilderQuestionFormat(t *testing.T) {
	t.Run("Select", func(t *testing.T) {
		b := NewSQLBuilderWithFormat(Question)
		query, args := b.Select("id").
			From("employees").
			Where("LOWER(name) LIKE ?", "%ali%").
			Where("age > ?", 20).
			Build()
		expected := "SELECT id FROM employees WHERE LOWER(name) LIKE ? AND age > ?"
		if query != expected {
			t.Errorf("expected %s, got %s", expected, query)
		}
		if len(args) != 2 {
			t.Errorf("expected 2 args, got %v", args)
		}
	})

	t.Run("Insert", func(t *testing.T) {
		b := NewSQLBuilderWithFormat(Question)
		query, _ := b.Insert("employees", "name", "age").Values("Bob", 40).Build()
		expected := "INSERT INTO employees (name, age) VALUES (?, ?)"
		if query != expected {
			t.Errorf("expected %s, got %s", expected, query)
		}
	})
}

func TestSQLBuilderBuildSafe(t *testing.T) {
	t.Run("valid dollar query", func(t *testing.T) {
		_, args, err := NewSQLBuilder().Select("*").
			From("employees").
			Where("id = ?", 1).
			Where("role = ?", "Dev").
			BuildSafe()
		if err != nil {
			t.Errorf("expected no error, got %v", err)
		}
		if len(args) != 2 {
			t.Errorf("expected 2 args, got %d", len(args))
		}
	})

	t.Run("valid question query", func(t *testing.T) {
		_, _, err := NewSQLBuilderWithFormat(Question).Select("*").
			From("employees").
			Where("id = ?", 1).
			BuildSafe()
		if err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("argument mismatch", func(t *testing.T) {
		_, _, err := NewSQLBuilder().Select("*").
			From("employees").
			Where("id = ?").
			BuildSafe()
		if err == nil {
			t.Error("expected error for missing argument")
		}
	})
}
